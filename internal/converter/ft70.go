package converter

import (
	"fmt"

	"github.com/nconklindev/codeplug/internal/table"
)

// RepeaterBook source layout, by column position.
const (
	rbTxFrequency     = 3
	rbOffsetDirection = 4
	rbName            = 5
	rbCTCSS           = 7
	rbRxCTCSS         = 8
	rbRxDCS           = 9
	rbCarried         = 10 // first column passed through untouched
)

// OffsetDirectionMarker is the header expected in D1 of a RepeaterBook sheet.
const OffsetDirectionMarker = "Offset Direction"

// BankCount is the number of memory-bank columns in the FT70 layout.
const BankCount = 24

type defaultColumn struct {
	name  string
	value string
}

// ft70Defaults are appended after the carried column, in order.
var ft70Defaults = []defaultColumn{
	{"DCS Polarity", "RN-TN"},
	{"PR FREQ", "1600 Hz"},
	{"Tx Power", "High"},
	{"Skip", "Off"},
	{"Step", "Auto"},
	{"Mask", "Off"},
	{"Attenuator", "Off"},
	{"S-Meter Squelch", "Off"},
	{"Bell", "Off"},
	{"Half Dev", "Off"},
	{"Clock Shift", "Off"},
}

// BankName returns the header of memory bank n (1-based).
func BankName(n int) string {
	return fmt.Sprintf("BANK %d", n)
}

// CheckRepeaterBook verifies the D1 marker and that the sheet is wide
// enough for the conversion. It never modifies the sheet.
func CheckRepeaterBook(s *table.Sheet) error {
	got := ""
	if s.Width() >= rbOffsetDirection {
		got, _ = s.Header(rbOffsetDirection)
	}
	if got != OffsetDirectionMarker {
		return &SchemaError{Sheet: s.Name(), Cell: "D1", Want: OffsetDirectionMarker, Got: got}
	}
	if s.Width() < rbCarried {
		return &SchemaError{
			Sheet:  s.Name(),
			Reason: fmt.Sprintf("RepeaterBook layout needs at least %d columns, sheet has %d", rbCarried, s.Width()),
		}
	}
	return nil
}

// ToFT70 rewrites a RepeaterBook sheet in place into the RT Systems FT-70D
// import layout. Every precondition and cell value is checked before the
// first column is touched, so on error the sheet is unchanged.
func ToFT70(s *table.Sheet, progress Progress) error {
	if err := CheckRepeaterBook(s); err != nil {
		return err
	}

	txFreqs, err := numericColumn(s, rbTxFrequency)
	if err != nil {
		return err
	}
	tones, err := numericColumn(s, rbCTCSS)
	if err != nil {
		return err
	}

	refs := make(map[int]table.ColumnRef)
	for _, col := range []int{rbOffsetDirection, rbName, rbCTCSS, rbRxCTCSS, rbRxDCS, rbCarried} {
		if refs[col], err = s.Ref(col); err != nil {
			return err
		}
	}

	// Steps: offset split, mode columns, show name, tone format, column
	// removal, fixed defaults, banks.
	const steps = 7
	step := 0
	report := func() {
		step++
		progress.report(step, steps)
	}

	offsetRef, err := s.InsertColumnBefore(refs[rbOffsetDirection], "Offset Frequency", table.Empty)
	if err != nil {
		return err
	}
	if err := splitOffset(s, offsetRef, refs[rbOffsetDirection], txFreqs); err != nil {
		return err
	}
	report()

	modeRef, err := s.InsertColumnAfter(refs[rbOffsetDirection], "Operating Mode", table.Text("FM"))
	if err != nil {
		return err
	}
	if _, err := s.InsertColumnAfter(modeRef, "AMS", table.Text("On")); err != nil {
		return err
	}
	report()

	if _, err := s.InsertColumnAfter(refs[rbName], "Show Name", table.Text("On")); err != nil {
		return err
	}
	report()

	err = s.Update(refs[rbCTCSS], func(row int, _ table.Cell) (table.Cell, error) {
		return table.Text(FormatCTCSS(tones[row-2])), nil
	})
	if err != nil {
		return err
	}
	report()

	if err := s.DeleteColumnRef(refs[rbRxCTCSS]); err != nil {
		return err
	}
	if err := s.DeleteColumnRef(refs[rbRxDCS]); err != nil {
		return err
	}
	report()

	anchor := refs[rbCarried]
	for _, d := range ft70Defaults {
		if anchor, err = s.InsertColumnAfter(anchor, d.name, table.Text(d.value)); err != nil {
			return err
		}
	}
	report()

	for i := 1; i <= BankCount; i++ {
		if anchor, err = s.InsertColumnAfter(anchor, BankName(i), table.Text("Off")); err != nil {
			return err
		}
	}
	report()

	return nil
}

// splitOffset turns the +/-/blank direction symbol into a direction name and
// fills the offset frequency for shifted channels.
func splitOffset(s *table.Sheet, offsetRef, dirRef table.ColumnRef, txFreqs []float64) error {
	offsetCol, err := s.Position(offsetRef)
	if err != nil {
		return err
	}
	dirCol, err := s.Position(dirRef)
	if err != nil {
		return err
	}

	for row := 2; row <= s.Height(); row++ {
		symbol, err := s.Cell(row, dirCol)
		if err != nil {
			return err
		}
		direction, shifted := OffsetDirection(symbol.String())
		if shifted {
			if err := s.SetCell(row, offsetCol, table.Text(OffsetFrequency(txFreqs[row-2]))); err != nil {
				return err
			}
		}
		if err := s.SetCell(row, dirCol, table.Text(direction)); err != nil {
			return err
		}
	}
	return nil
}

// numericColumn parses every data cell of col as a float.
func numericColumn(s *table.Sheet, col int) ([]float64, error) {
	header, err := s.Header(col)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, s.DataRows())
	for row := 2; row <= s.Height(); row++ {
		c, err := s.Cell(row, col)
		if err != nil {
			return nil, err
		}
		f, err := c.Float()
		if err != nil {
			return nil, newValueError(s.Name(), row, col, header, c.String(), err)
		}
		out = append(out, f)
	}
	return out, nil
}
