package converter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nconklindev/codeplug/internal/table"
)

// FT70 source layout read by the Anytone conversion, by column position.
const (
	ft70RxFrequency = 2
	ft70TxFrequency = 3
	ft70Name        = 8
	ft70ToneMode    = 10
	ft70CTCSS       = 11
)

// ToneSquelch is the FT70 tone mode under which the tone also gates receive.
const ToneSquelch = "T SQL"

// Source derives a target cell from row of the source sheet. ok is false
// when the field should keep its default.
type Source func(src *table.Sheet, row int) (v table.Cell, ok bool, err error)

// Field describes one column of a target layout. A Derived field always
// takes its value from Source, so its Default is never written.
type Field struct {
	Name    string
	Default table.Cell
	Source  Source
	Derived bool
}

// AnytoneFields is the Anytone CPS channel import layout.
var AnytoneFields = []Field{
	{"No.", table.Number(1), channelNumber, true},
	{"Channel Name", table.Text("KO6DVB"), copyColumn(ft70Name), true},
	{"Receive Frequency", table.Number(440.65), copyColumn(ft70RxFrequency), true},
	{"Transmit Frequency", table.Number(445.65), copyColumn(ft70TxFrequency), true},
	{"Channel Type", table.Text("A-Analog"), nil, false},
	{"Transmit Power", table.Text("Turbo"), nil, false},
	{"Band Width", table.Text("25K"), nil, false},
	{"CTCSS/DCS Decode", table.Text("Off"), decodeTone, false},
	{"CTCSS/DCS Encode", table.Number(94.8), encodeTone, true},
	{"Contact", table.Text("Contact1"), nil, false},
	{"Contact Call Type", table.Text("Group Call"), nil, false},
	{"Contact TG/DMR ID", table.Number(12345678), nil, false},
	{"Radio ID", table.Text("My Radio"), nil, false},
	{"Busy Lock/TX Permit", table.Text("Off"), nil, false},
	{"Squelch Mode", table.Text("Carrier"), nil, false},
	{"Optional Signal", table.Text("Off"), nil, false},
	{"DTMF ID", table.Number(1), nil, false},
	{"2Tone ID", table.Number(1), nil, false},
	{"5Tone ID", table.Number(1), nil, false},
	{"PTT ID", table.Text("Off"), nil, false},
	{"Color Code", table.Number(1), nil, false},
	{"Slot", table.Number(1), nil, false},
	{"Scan List", table.Text("None"), nil, false},
	{"Receive Group List", table.Text("None"), nil, false},
	{"PTT Prohibit", table.Text("Off"), nil, false},
	{"Reverse", table.Text("Off"), nil, false},
	{"Simplex TDMA", table.Text("Off"), nil, false},
	{"Slot Suit", table.Text("Off"), nil, false},
	{"AES Digital Encryption", table.Text("Normal Encryption"), nil, false},
	{"Digital Encryption", table.Text("Off"), nil, false},
	{"Call Confirmation", table.Text("Off"), nil, false},
	{"Talk Around(Simplex)", table.Text("Off"), nil, false},
	{"Work Alone", table.Text("Off"), nil, false},
	{"Custom CTCSS", table.Number(251.1), nil, false},
	{"2TONE Decode", table.Number(0), nil, false},
	{"Ranging", table.Text("Off"), nil, false},
	{"Through Mode", table.Text("On"), nil, false},
	{"APRS RX", table.Text("Off"), nil, false},
	{"Analog APRS PTT Mode", table.Text("Off"), nil, false},
	{"Digital APRS PTT Mode", table.Text("Off"), nil, false},
	{"APRS Report Type", table.Text("Off"), nil, false},
	{"Digital APRS Report Channel", table.Number(1), nil, false},
	{"Correct Frequency[Hz]", table.Number(0), nil, false},
	{"SMS Confirmation", table.Text("Off"), nil, false},
	{"Exclude channel from roaming", table.Number(0), nil, false},
	{"DMR MODE", table.Number(0), nil, false},
	{"DataACK Disable", table.Number(0), nil, false},
	{"R5toneBot", table.Number(0), nil, false},
	{"R5ToneEot", table.Number(0), nil, false},
	{"Auto Scan", table.Number(0), nil, false},
	{"Ana Aprs Mute", table.Number(0), nil, false},
	{"Send Talker Alias", table.Number(0), nil, false},
}

// AnytoneHeaders returns the header row of the Anytone layout.
func AnytoneHeaders() []string {
	out := make([]string, len(AnytoneFields))
	for i, f := range AnytoneFields {
		out[i] = f.Name
	}
	return out
}

// WithDefaults returns a copy of fields with the defaults of the named
// columns replaced. Names match case-insensitively. Derived columns cannot
// be overridden.
func WithDefaults(fields []Field, overrides map[string]any) ([]Field, error) {
	out := slices.Clone(fields)
	for name, raw := range overrides {
		i := slices.IndexFunc(out, func(f Field) bool { return strings.EqualFold(f.Name, name) })
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		if out[i].Derived {
			return nil, fmt.Errorf("%w: %q", ErrDerivedColumn, out[i].Name)
		}
		v, err := table.Of(raw)
		if err != nil {
			return nil, fmt.Errorf("default for %q: %w", name, err)
		}
		out[i].Default = v
	}
	return out, nil
}

// ToAnytone creates sheet target in wb holding one Anytone channel per data
// row of the FT70-layout sheet source. All rows are derived before the sheet
// is added, so on error the workbook is unchanged.
func ToAnytone(wb *table.Workbook, source, target string, fields []Field, progress Progress) (*table.Sheet, error) {
	if wb.HasSheet(target) {
		return nil, fmt.Errorf("%w: %q", table.ErrDuplicateSheet, target)
	}
	src, err := wb.Sheet(source)
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Name
	}
	out := table.NewSheet(target, headers...)

	total := src.DataRows()
	for row := 2; row <= src.Height(); row++ {
		cells := make([]table.Cell, len(fields))
		for i, f := range fields {
			cells[i] = f.Default
			if f.Source == nil {
				continue
			}
			v, ok, err := f.Source(src, row)
			if err != nil {
				return nil, err
			}
			if ok {
				cells[i] = v
			}
		}
		if err := out.AppendRow(cells...); err != nil {
			return nil, err
		}
		progress.report(row-1, total)
	}

	if err := wb.AddSheet(out); err != nil {
		return nil, err
	}
	return out, nil
}

func channelNumber(_ *table.Sheet, row int) (table.Cell, bool, error) {
	return table.Number(float64(row - 1)), true, nil
}

func copyColumn(col int) Source {
	return func(src *table.Sheet, row int) (table.Cell, bool, error) {
		v, err := src.Cell(row, col)
		if err != nil {
			return table.Empty, false, err
		}
		return v, true, nil
	}
}

// decodeTone sets the receive tone only for tone-squelch channels.
func decodeTone(src *table.Sheet, row int) (table.Cell, bool, error) {
	mode, err := src.Cell(row, ft70ToneMode)
	if err != nil {
		return table.Empty, false, err
	}
	if mode.String() != ToneSquelch {
		return table.Empty, false, nil
	}
	return encodeTone(src, row)
}

func encodeTone(src *table.Sheet, row int) (table.Cell, bool, error) {
	c, err := src.Cell(row, ft70CTCSS)
	if err != nil {
		return table.Empty, false, err
	}
	tone, err := toneOf(c)
	if err != nil {
		header, _ := src.Header(ft70CTCSS)
		return table.Empty, false, newValueError(src.Name(), row, ft70CTCSS, header, c.String(), err)
	}
	return table.Number(tone), true, nil
}
