package converter

import (
	"fmt"
	"slices"

	"github.com/nconklindev/codeplug/internal/table"
	"github.com/nconklindev/codeplug/internal/types"
	"github.com/nconklindev/codeplug/internal/workbook"
)

// Progress receives conversion progress as done out of total units.
type Progress func(done, total int)

func (p Progress) report(done, total int) {
	if p != nil {
		p(done, total)
	}
}

// ChannelProgress adapts a fraction channel to Progress. Sends never block;
// updates are dropped when the receiver falls behind.
func ChannelProgress(ch chan<- float64) Progress {
	if ch == nil {
		return nil
	}
	return func(done, total int) {
		if total <= 0 {
			return
		}
		select {
		case ch <- float64(done) / float64(total):
		default:
		}
	}
}

// Options configures a file conversion.
type Options struct {
	InputFile   string
	OutputFile  string
	Mode        types.Mode
	SourceSheet string
	// TargetSheet names the sheet ModeAnytone creates.
	TargetSheet string
	// Defaults overrides Anytone column defaults by header name.
	Defaults map[string]any
}

// Convert runs one conversion on an in-memory workbook and describes the
// sheet it produced.
func Convert(wb *table.Workbook, opts Options, progress Progress) (*types.ConversionResult, error) {
	src, err := wb.Sheet(opts.SourceSheet)
	if err != nil {
		return nil, err
	}
	before := src.Headers()

	result := &types.ConversionResult{
		InputFile:   opts.InputFile,
		OutputFile:  opts.OutputFile,
		Mode:        opts.Mode,
		SourceSheet: opts.SourceSheet,
	}

	var out *table.Sheet
	switch opts.Mode {
	case types.ModeFT70:
		if err := ToFT70(src, progress); err != nil {
			return nil, err
		}
		out = src
	case types.ModeAnytone:
		fields, err := WithDefaults(AnytoneFields, opts.Defaults)
		if err != nil {
			return nil, err
		}
		if out, err = ToAnytone(wb, opts.SourceSheet, opts.TargetSheet, fields, progress); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown conversion mode %q", opts.Mode)
	}

	result.TargetSheet = out.Name()
	result.Headers = out.Headers()
	result.ColumnsAdded = difference(result.Headers, before)
	result.ColumnsRemoved = difference(before, result.Headers)
	result.RowsProcessed = out.DataRows()
	return result, nil
}

// ConvertFile loads opts.InputFile, converts it and writes opts.OutputFile.
// Nothing is written when the conversion fails.
func ConvertFile(opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	wb, err := workbook.Load(opts.InputFile, opts.SourceSheet)
	if err != nil {
		return nil, err
	}

	result, err := Convert(wb, opts, ChannelProgress(progressChan))
	if err != nil {
		return nil, err
	}

	if err := workbook.Save(wb, opts.OutputFile, result.TargetSheet); err != nil {
		return nil, err
	}
	return result, nil
}

// ReadFileData loads a file and summarizes its sheets.
func ReadFileData(path, csvSheet string) (*types.FileData, error) {
	wb, err := workbook.Load(path, csvSheet)
	if err != nil {
		return nil, err
	}

	data := &types.FileData{Path: path}
	for _, s := range wb.Sheets() {
		data.Sheets = append(data.Sheets, types.SheetPreview{
			Name:         s.Name(),
			Headers:      s.Headers(),
			Rows:         s.DataRows(),
			RepeaterBook: CheckRepeaterBook(s) == nil,
		})
	}
	if len(data.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	return data, nil
}

// difference returns the entries of a not present in b, in order.
func difference(a, b []string) []string {
	var out []string
	for _, s := range a {
		if !slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}
