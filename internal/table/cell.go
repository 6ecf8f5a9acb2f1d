package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a Cell holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
)

// Cell is a single scalar value: empty, a number or a string.
type Cell struct {
	kind Kind
	num  float64
	text string
}

// Empty is the zero Cell.
var Empty = Cell{}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Parse turns a raw spreadsheet string into a Cell. Blank strings are
// empty, finite decimal numbers are numbers, the rest is text. Spellings
// such as "NaN" or "Inf" stay text.
func Parse(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty
	}
	if f, err := parseFinite(trimmed); err == nil {
		return Number(f)
	}
	return Text(raw)
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if err := checkFinite(f); err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return f, nil
}

func checkFinite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%v is not a finite number", f)
	}
	return nil
}

// Of converts a Go value into a Cell. Supported inputs are nil, string,
// Cell and the built-in integer and float types.
func Of(v any) (Cell, error) {
	switch x := v.(type) {
	case nil:
		return Empty, nil
	case Cell:
		return x, nil
	case string:
		return Text(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	default:
		return Empty, fmt.Errorf("unsupported cell value type %T", v)
	}
}

func (c Cell) Kind() Kind { return c.kind }

func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Float returns the numeric value of the cell. Text cells are parsed.
// Non-finite values are an error.
func (c Cell) Float() (float64, error) {
	switch c.kind {
	case KindNumber:
		if err := checkFinite(c.num); err != nil {
			return 0, err
		}
		return c.num, nil
	case KindText:
		return parseFinite(strings.TrimSpace(c.text))
	default:
		return 0, fmt.Errorf("empty cell is not a number")
	}
}

// String renders the cell the way a spreadsheet would display it.
func (c Cell) String() string {
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return c.text
	default:
		return ""
	}
}

// Value returns the cell as a plain Go value (nil, float64 or string),
// suitable for handing to a spreadsheet writer.
func (c Cell) Value() any {
	switch c.kind {
	case KindNumber:
		return c.num
	case KindText:
		return c.text
	default:
		return nil
	}
}
