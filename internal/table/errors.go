package table

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates a row or column address outside the sheet.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrDuplicateSheet indicates a sheet name is already taken in the workbook.
var ErrDuplicateSheet = errors.New("sheet already exists")

// ErrSheetNotFound indicates the workbook has no sheet with the given name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrUnknownColumn indicates a ColumnRef that no longer belongs to the sheet.
var ErrUnknownColumn = errors.New("column not in sheet")

// RangeError reports the offending coordinates of an out-of-range access.
type RangeError struct {
	Op   string // "get", "set", "insert", "delete"
	Row  int    // 0 when the access is column-only
	Col  int
	Rows int
	Cols int
}

func (e *RangeError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s column %d: %v (sheet has %d columns)", e.Op, e.Col, ErrIndexOutOfRange, e.Cols)
	}
	return fmt.Sprintf("%s cell (%d,%d): %v (sheet is %dx%d)", e.Op, e.Row, e.Col, ErrIndexOutOfRange, e.Rows, e.Cols)
}

func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}
