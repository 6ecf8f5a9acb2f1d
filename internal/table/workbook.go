package table

import (
	"fmt"
	"strings"
)

// Workbook is an ordered collection of uniquely named sheets. Sheet names
// compare case-insensitively, as they do in spreadsheet files.
type Workbook struct {
	order  []*Sheet
	sheets map[string]*Sheet
}

func NewWorkbook() *Workbook {
	return &Workbook{sheets: make(map[string]*Sheet)}
}

func sheetKey(name string) string { return strings.ToLower(name) }

// AddSheet appends s to the workbook.
func (w *Workbook) AddSheet(s *Sheet) error {
	key := sheetKey(s.Name())
	if existing, ok := w.sheets[key]; ok {
		return fmt.Errorf("%w: %q (existing %q)", ErrDuplicateSheet, s.Name(), existing.Name())
	}
	w.order = append(w.order, s)
	w.sheets[key] = s
	return nil
}

// Sheet looks up a sheet by name.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	s, ok := w.sheets[sheetKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return s, nil
}

// HasSheet reports whether a sheet named name exists.
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.sheets[sheetKey(name)]
	return ok
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.order))
	for i, s := range w.order {
		out[i] = s.Name()
	}
	return out
}

// Sheets returns the sheets in workbook order.
func (w *Workbook) Sheets() []*Sheet {
	return append([]*Sheet(nil), w.order...)
}
