package converter

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch indicates the source sheet is not in the expected layout.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrValueParse indicates a cell that should hold a number or a tone does not.
var ErrValueParse = errors.New("unparseable value")

// ErrUnknownColumn indicates a default override for a column the target
// layout does not have.
var ErrUnknownColumn = errors.New("unknown column")

// ErrDerivedColumn indicates a default override for a column whose value
// always comes from the source sheet.
var ErrDerivedColumn = errors.New("column is derived from the source sheet")

// SchemaError reports which marker failed and what was found instead.
type SchemaError struct {
	Sheet  string
	Cell   string // e.g. "D1"
	Want   string
	Got    string
	Reason string // set when the failure is not a marker mismatch
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("sheet %q: %v: %s", e.Sheet, ErrSchemaMismatch, e.Reason)
	}
	return fmt.Sprintf("sheet %q: %v: unexpected value in %s: %q (want %q)", e.Sheet, ErrSchemaMismatch, e.Cell, e.Got, e.Want)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// ValueError locates a cell whose content could not be parsed.
type ValueError struct {
	Sheet  string
	Row    int
	Col    int
	Column string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("sheet %q row %d column %d (%s): %v %q: %v", e.Sheet, e.Row, e.Col, e.Column, ErrValueParse, e.Value, e.Err)
}

func (e *ValueError) Unwrap() []error {
	return []error{ErrValueParse, e.Err}
}

func newValueError(sheet string, row, col int, column, value string, err error) *ValueError {
	return &ValueError{
		Sheet:  sheet,
		Row:    row,
		Col:    col,
		Column: column,
		Value:  value,
		Err:    err,
	}
}
