package converter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/codeplug/internal/table"
	"github.com/nconklindev/codeplug/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var repeaterBookHeaders = []string{
	"Location", "Receive Frequency", "Transmit Frequency", "Offset Direction", "Name",
	"Tone Mode", "CTCSS", "Rx CTCSS", "Rx DCS", "DCS", "Comment",
}

// repeaterBookSheet has one channel per offset direction: +, - and blank.
func repeaterBookSheet(t *testing.T) *table.Sheet {
	t.Helper()
	s := table.NewSheet("Import", repeaterBookHeaders...)
	rows := [][]table.Cell{
		{table.Number(1), table.Number(147.36), table.Number(147.96), table.Text("+"), table.Text("W6ABC"),
			table.Text("Tone"), table.Number(100), table.Number(100), table.Number(23), table.Number(23), table.Text("Hilltop")},
		{table.Number(2), table.Number(444.5), table.Number(439.5), table.Text("-"), table.Text("K6XYZ"),
			table.Text("T SQL"), table.Number(94.8), table.Number(94.8), table.Number(23), table.Number(23), table.Text("Downtown")},
		{table.Number(3), table.Number(146.52), table.Number(146.52), table.Empty, table.Text("Calling"),
			table.Text("None"), table.Number(88.5), table.Number(88.5), table.Number(23), table.Number(23), table.Text("Simplex")},
	}
	for _, r := range rows {
		require.NoError(t, s.AppendRow(r...))
	}
	return s
}

func ft70Headers() []string {
	h := []string{
		"Location", "Receive Frequency", "Transmit Frequency", "Offset Frequency", "Offset Direction",
		"Operating Mode", "AMS", "Name", "Show Name", "Tone Mode", "CTCSS", "DCS",
		"DCS Polarity", "PR FREQ", "Tx Power", "Skip", "Step", "Mask", "Attenuator",
		"S-Meter Squelch", "Bell", "Half Dev", "Clock Shift",
	}
	for i := 1; i <= BankCount; i++ {
		h = append(h, BankName(i))
	}
	return append(h, "Comment")
}

func ft70Row(num, rx, tx float64, offset table.Cell, dir, name, toneMode, tone, comment string) []table.Cell {
	row := []table.Cell{
		table.Number(num), table.Number(rx), table.Number(tx), offset, table.Text(dir),
		table.Text("FM"), table.Text("On"), table.Text(name), table.Text("On"), table.Text(toneMode),
		table.Text(tone), table.Number(23),
		table.Text("RN-TN"), table.Text("1600 Hz"), table.Text("High"), table.Text("Off"), table.Text("Auto"),
		table.Text("Off"), table.Text("Off"), table.Text("Off"), table.Text("Off"), table.Text("Off"), table.Text("Off"),
	}
	for i := 0; i < BankCount; i++ {
		row = append(row, table.Text("Off"))
	}
	return append(row, table.Text(comment))
}

func TestOffsetFrequency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"2m", 146.94, Offset2m},
		{"Just below threshold", 199.999, Offset2m},
		{"At threshold", 200.0, Offset70cm},
		{"70cm", 442.1, Offset70cm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OffsetFrequency(tt.input)
			if got != tt.expected {
				t.Errorf("OffsetFrequency(%f) = %s; want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOffsetDirection(t *testing.T) {
	tests := []struct {
		input   string
		dir     string
		shifted bool
	}{
		{"+", "Plus", true},
		{"-", "Minus", true},
		{"", "Simplex", false},
		{"S", "Simplex", false},
		{" +", "Simplex", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dir, shifted := OffsetDirection(tt.input)
			if dir != tt.dir || shifted != tt.shifted {
				t.Errorf("OffsetDirection(%q) = %s, %v; want %s, %v", tt.input, dir, shifted, tt.dir, tt.shifted)
			}
		})
	}
}

func TestCTCSSRoundTrip(t *testing.T) {
	for _, tone := range []float64{67.0, 94.8, 100.0, 123.0, 254.1} {
		formatted := FormatCTCSS(tone)
		parsed, err := StripCTCSS(formatted)
		require.NoError(t, err)
		assert.Equal(t, tone, parsed)
		assert.Equal(t, formatted, FormatCTCSS(parsed))
	}
	assert.Equal(t, "94.8 Hz", FormatCTCSS(94.8))

	_, err := StripCTCSS("Hz")
	assert.Error(t, err)
	_, err = StripCTCSS("abc Hz")
	assert.Error(t, err)
	_, err = StripCTCSS("NaN Hz")
	assert.Error(t, err)
	_, err = StripCTCSS("+Inf Hz")
	assert.Error(t, err)
}

func TestToFT70(t *testing.T) {
	s := repeaterBookSheet(t)
	originalWidth := s.Width()

	var calls int
	require.NoError(t, ToFT70(s, func(done, total int) { calls++ }))

	assert.Equal(t, ft70Headers(), s.Headers())
	assert.Equal(t, originalWidth+4-2+len(ft70Defaults)+BankCount, s.Width())
	assert.Equal(t, 48, s.Width())
	assert.Equal(t, 4, s.Height())
	assert.Equal(t, 7, calls)

	want := [][]table.Cell{
		ft70Row(1, 147.36, 147.96, table.Text(Offset2m), "Plus", "W6ABC", "Tone", "100.0 Hz", "Hilltop"),
		ft70Row(2, 444.5, 439.5, table.Text(Offset70cm), "Minus", "K6XYZ", "T SQL", "94.8 Hz", "Downtown"),
		ft70Row(3, 146.52, 146.52, table.Empty, "Simplex", "Calling", "None", "88.5 Hz", "Simplex"),
	}
	for i, w := range want {
		got, err := s.Row(i + 2)
		require.NoError(t, err)
		assert.Equal(t, w, got, "row %d", i+2)
	}
}

func TestToFT70SchemaMismatch(t *testing.T) {
	s := repeaterBookSheet(t)
	require.NoError(t, s.SetCell(1, 4, table.Text("Something Else")))
	before := s.Rows()

	err := ToFT70(s, nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Something Else", serr.Got)
	assert.Equal(t, "D1", serr.Cell)
	assert.Equal(t, before, s.Rows(), "sheet must be untouched")
}

func TestToFT70TooNarrow(t *testing.T) {
	s := table.NewSheet("Import", repeaterBookHeaders[:9]...)
	err := ToFT70(s, nil)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Equal(t, 9, s.Width())
}

func TestToFT70BadValues(t *testing.T) {
	tests := []struct {
		name string
		row  int
		col  int
		v    table.Cell
	}{
		{"Non-numeric tone", 3, 7, table.Text("none")},
		{"Blank tone", 4, 7, table.Empty},
		{"Non-numeric transmit frequency", 2, 3, table.Text("n/a")},
		{"NaN tone", 2, 7, table.Text("NaN")},
		{"Infinite transmit frequency", 3, 3, table.Text("Inf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := repeaterBookSheet(t)
			require.NoError(t, s.SetCell(tt.row, tt.col, tt.v))
			before := s.Rows()

			err := ToFT70(s, nil)
			require.ErrorIs(t, err, ErrValueParse)

			var verr *ValueError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.row, verr.Row)
			assert.Equal(t, tt.col, verr.Col)
			assert.Equal(t, before, s.Rows(), "sheet must be untouched")
		})
	}
}

func ft70Workbook(t *testing.T) *table.Workbook {
	t.Helper()
	s := repeaterBookSheet(t)
	require.NoError(t, ToFT70(s, nil))
	wb := table.NewWorkbook()
	require.NoError(t, wb.AddSheet(s))
	return wb
}

func TestToAnytone(t *testing.T) {
	wb := ft70Workbook(t)

	out, err := ToAnytone(wb, "Import", "Anytone", AnytoneFields, nil)
	require.NoError(t, err)

	assert.Equal(t, 52, out.Width())
	assert.Equal(t, 4, out.Height())
	assert.Equal(t, []string{"Import", "Anytone"}, wb.SheetNames())
	assert.Equal(t, AnytoneHeaders(), out.Headers())

	for row := 2; row <= out.Height(); row++ {
		c, err := out.Cell(row, 1)
		require.NoError(t, err)
		assert.Equal(t, table.Number(float64(row-1)), c)
	}

	tests := []struct {
		row  int
		name string
		rx   float64
		tx   float64
		dec  table.Cell
		enc  table.Cell
	}{
		{2, "W6ABC", 147.36, 147.96, table.Text("Off"), table.Number(100)},
		{3, "K6XYZ", 444.5, 439.5, table.Number(94.8), table.Number(94.8)},
		{4, "Calling", 146.52, 146.52, table.Text("Off"), table.Number(88.5)},
	}
	for _, tt := range tests {
		row, err := out.Row(tt.row)
		require.NoError(t, err)
		assert.Equal(t, table.Text(tt.name), row[1])
		assert.Equal(t, table.Number(tt.rx), row[2])
		assert.Equal(t, table.Number(tt.tx), row[3])
		assert.Equal(t, table.Text("A-Analog"), row[4])
		assert.Equal(t, table.Text("Turbo"), row[5])
		assert.Equal(t, table.Text("25K"), row[6])
		assert.Equal(t, tt.dec, row[7], "decode row %d", tt.row)
		assert.Equal(t, tt.enc, row[8], "encode row %d", tt.row)
		assert.Equal(t, table.Text("My Radio"), row[12])
		assert.Equal(t, table.Number(0), row[51])
	}
}

func TestToAnytoneToneModes(t *testing.T) {
	src := table.NewSheet("Import", ft70Headers()[:12]...)
	require.NoError(t, src.AppendRow(
		table.Number(1), table.Number(146.94), table.Number(146.34), table.Empty, table.Empty,
		table.Empty, table.Empty, table.Text("A"), table.Empty, table.Text("T SQL"), table.Text("94.8 Hz"),
	))
	require.NoError(t, src.AppendRow(
		table.Number(2), table.Number(146.94), table.Number(146.34), table.Empty, table.Empty,
		table.Empty, table.Empty, table.Text("B"), table.Empty, table.Text("Carrier"), table.Text("67.0 Hz"),
	))
	wb := table.NewWorkbook()
	require.NoError(t, wb.AddSheet(src))

	out, err := ToAnytone(wb, "Import", "Anytone", AnytoneFields, nil)
	require.NoError(t, err)

	dec, _ := out.Cell(2, 8)
	enc, _ := out.Cell(2, 9)
	assert.Equal(t, table.Number(94.8), dec)
	assert.Equal(t, table.Number(94.8), enc)

	dec, _ = out.Cell(3, 8)
	enc, _ = out.Cell(3, 9)
	assert.Equal(t, table.Text("Off"), dec)
	assert.Equal(t, table.Number(67.0), enc)
}

func TestToAnytoneEmptySource(t *testing.T) {
	wb := table.NewWorkbook()
	require.NoError(t, wb.AddSheet(table.NewSheet("Import", ft70Headers()...)))

	out, err := ToAnytone(wb, "Import", "Anytone", AnytoneFields, nil)
	require.NoError(t, err)
	assert.Equal(t, 52, out.Width())
	assert.Equal(t, 1, out.Height())
}

func TestToAnytoneDuplicateSheet(t *testing.T) {
	wb := ft70Workbook(t)
	for _, target := range []string{"Import", "import", "IMPORT"} {
		_, err := ToAnytone(wb, "Import", target, AnytoneFields, nil)
		assert.ErrorIs(t, err, table.ErrDuplicateSheet, target)
	}
	assert.Equal(t, []string{"Import"}, wb.SheetNames())
}

func TestToAnytoneBadTone(t *testing.T) {
	wb := ft70Workbook(t)
	src, err := wb.Sheet("Import")
	require.NoError(t, err)
	require.NoError(t, src.SetCell(3, 11, table.Text("tone")))

	_, err = ToAnytone(wb, "Import", "Anytone", AnytoneFields, nil)
	assert.ErrorIs(t, err, ErrValueParse)
	assert.False(t, wb.HasSheet("Anytone"), "no sheet is added on failure")
}

func TestWithDefaults(t *testing.T) {
	fields, err := WithDefaults(AnytoneFields, map[string]any{
		"contact":  "Local Net",
		"Radio ID": "Base",
		"Slot":     2,
	})
	require.NoError(t, err)
	assert.Equal(t, table.Text("Contact1"), AnytoneFields[9].Default, "package defaults are not modified")

	wb := table.NewWorkbook()
	src := table.NewSheet("Import", ft70Headers()[:11]...)
	require.NoError(t, src.AppendRow(table.Number(1), table.Number(1), table.Number(2),
		table.Empty, table.Empty, table.Empty, table.Empty, table.Empty, table.Empty, table.Empty, table.Text("100.0 Hz")))
	require.NoError(t, wb.AddSheet(src))

	out, err := ToAnytone(wb, "Import", "Anytone", fields, nil)
	require.NoError(t, err)
	row, err := out.Row(2)
	require.NoError(t, err)
	assert.True(t, row[1].IsEmpty(), "channel name comes from the source")
	assert.Equal(t, table.Text("Local Net"), row[9])
	assert.Equal(t, table.Text("Base"), row[12])
	assert.Equal(t, table.Number(2), row[21])

	_, err = WithDefaults(AnytoneFields, map[string]any{"Nope": "x"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestWithDefaultsRejectsDerivedColumns(t *testing.T) {
	for _, name := range []string{"No.", "channel name", "Receive Frequency", "Transmit Frequency", "CTCSS/DCS Encode"} {
		t.Run(name, func(t *testing.T) {
			_, err := WithDefaults(AnytoneFields, map[string]any{name: 5})
			assert.ErrorIs(t, err, ErrDerivedColumn)
		})
	}

	fields, err := WithDefaults(AnytoneFields, map[string]any{"CTCSS/DCS Decode": "On"})
	require.NoError(t, err)
	assert.Equal(t, table.Text("On"), fields[7].Default)
}

func TestAnytoneFields(t *testing.T) {
	assert.Len(t, AnytoneFields, 52)
	assert.Equal(t, "No.", AnytoneFields[0].Name)

	seen := make(map[string]bool)
	for _, f := range AnytoneFields {
		assert.False(t, seen[f.Name], "duplicate column %q", f.Name)
		seen[f.Name] = true
	}
}

func TestConvertResult(t *testing.T) {
	wb := table.NewWorkbook()
	require.NoError(t, wb.AddSheet(repeaterBookSheet(t)))

	res, err := Convert(wb, Options{Mode: types.ModeFT70, SourceSheet: "Import"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Import", res.TargetSheet)
	assert.Equal(t, []string{"Rx CTCSS", "Rx DCS"}, res.ColumnsRemoved)
	assert.Len(t, res.ColumnsAdded, 4+len(ft70Defaults)+BankCount)
	assert.Equal(t, 3, res.RowsProcessed)

	_, err = Convert(wb, Options{Mode: "bogus", SourceSheet: "Import"}, nil)
	assert.Error(t, err)
	_, err = Convert(wb, Options{Mode: types.ModeFT70, SourceSheet: "Missing"}, nil)
	assert.ErrorIs(t, err, table.ErrSheetNotFound)
}

func writeCSV(t *testing.T, path string, records [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
	require.NoError(t, f.Close())
}

func TestConvertFile_CSV(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "repeaterbook.csv")
	outputFile := filepath.Join(tmpDir, "ft70.csv")

	writeCSV(t, inputFile, [][]string{
		repeaterBookHeaders,
		{"1", "147.36", "147.96", "+", "W6ABC", "Tone", "100", "100", "23", "23", "Hilltop"},
		{"2", "444.5", "439.5", "-", "K6XYZ", "T SQL", "94.8", "94.8", "23", "23", "Downtown"},
	})

	progressChan := make(chan float64, 100)
	res, err := ConvertFile(Options{
		InputFile:   inputFile,
		OutputFile:  outputFile,
		Mode:        types.ModeFT70,
		SourceSheet: "Import",
	}, progressChan)
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsProcessed)
	assert.NotEmpty(t, progressChan)

	f, err := os.Open(outputFile)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, ft70Headers(), records[0])
	assert.Equal(t, "600 kHz", records[1][3])
	assert.Equal(t, "Plus", records[1][4])
	assert.Equal(t, "100.0 Hz", records[1][10])
	assert.Equal(t, "5.00 MHz", records[2][3])
	assert.Equal(t, "Minus", records[2][4])
}

func TestConvertFile_SchemaMismatchWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "in.csv")
	outputFile := filepath.Join(tmpDir, "out.csv")

	headers := append([]string(nil), repeaterBookHeaders...)
	headers[3] = "Something Else"
	writeCSV(t, inputFile, [][]string{headers})

	_, err := ConvertFile(Options{InputFile: inputFile, OutputFile: outputFile, Mode: types.ModeFT70, SourceSheet: "Import"}, nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	_, statErr := os.Stat(outputFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFile_XLSXAnytone(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "ft70.xlsx")
	outputFile := filepath.Join(tmpDir, "anytone.xlsx")

	writeFT70XLSX(t, inputFile, nil)

	res, err := ConvertFile(Options{
		InputFile:   inputFile,
		OutputFile:  outputFile,
		Mode:        types.ModeAnytone,
		SourceSheet: "Import",
		TargetSheet: "Anytone",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.RowsProcessed)

	out, err := excelize.OpenFile(outputFile)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, []string{"Import", "Anytone"}, out.GetSheetList())
	rows, err := out.GetRows("Anytone")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Len(t, rows[0], 52)
	assert.Equal(t, "No.", rows[0][0])
	assert.Equal(t, "K6XYZ", rows[2][1])
	assert.Equal(t, "94.8", rows[2][7])
	assert.Equal(t, "Off", rows[1][7])
}

// writeFT70XLSX saves the converted fixture as an xlsx workbook with a
// single "Import" sheet. edit may adjust the file before it is saved.
func writeFT70XLSX(t *testing.T, path string, edit func(f *excelize.File)) {
	t.Helper()
	wb := ft70Workbook(t)
	src, err := wb.Sheet("Import")
	require.NoError(t, err)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Import"))
	for r, row := range src.Rows() {
		values := make([]any, len(row))
		for i, c := range row {
			values[i] = c.Value()
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Import", cell, &values))
	}
	if edit != nil {
		edit(f)
	}
	require.NoError(t, f.SaveAs(path))
}

func TestConvertFile_XLSXTargetDiffersOnlyByCase(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "ft70.xlsx")
	outputFile := filepath.Join(tmpDir, "anytone.xlsx")
	writeFT70XLSX(t, inputFile, nil)

	_, err := ConvertFile(Options{
		InputFile:   inputFile,
		OutputFile:  outputFile,
		Mode:        types.ModeAnytone,
		SourceSheet: "Import",
		TargetSheet: "import",
	}, nil)
	require.ErrorIs(t, err, table.ErrDuplicateSheet)
	_, statErr := os.Stat(outputFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFile_XLSXKeepsTextCells(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "ft70.xlsx")
	outputFile := filepath.Join(tmpDir, "anytone.xlsx")
	writeFT70XLSX(t, inputFile, func(f *excelize.File) {
		require.NoError(t, f.SetCellStr("Import", "H2", "007"))
	})

	_, err := ConvertFile(Options{
		InputFile:   inputFile,
		OutputFile:  outputFile,
		Mode:        types.ModeAnytone,
		SourceSheet: "Import",
		TargetSheet: "Anytone",
	}, nil)
	require.NoError(t, err)

	out, err := excelize.OpenFile(outputFile)
	require.NoError(t, err)
	defer out.Close()

	for _, cell := range []struct{ sheet, ref string }{{"Import", "H2"}, {"Anytone", "B2"}} {
		v, err := out.GetCellValue(cell.sheet, cell.ref)
		require.NoError(t, err)
		assert.Equal(t, "007", v, "%s!%s", cell.sheet, cell.ref)
		typ, err := out.GetCellType(cell.sheet, cell.ref)
		require.NoError(t, err)
		assert.Equal(t, excelize.CellTypeSharedString, typ, "%s!%s", cell.sheet, cell.ref)
	}

	typ, err := out.GetCellType("Anytone", "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "frequencies stay numeric")
}

func TestReadFileData(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "rb.csv")
	writeCSV(t, inputFile, [][]string{repeaterBookHeaders})

	data, err := ReadFileData(inputFile, "Import")
	require.NoError(t, err)
	require.Len(t, data.Sheets, 1)
	assert.Equal(t, "Import", data.Sheets[0].Name)
	assert.True(t, data.Sheets[0].RepeaterBook)
	assert.Equal(t, 0, data.Sheets[0].Rows)
}
