// Package table holds an in-memory spreadsheet model with 1-based row and
// column addressing. Row 1 is the header row; rows 2.. are data records.
package table

import "slices"

// ColumnRef identifies a column independently of its current position.
// A ref stays valid while other columns are inserted or deleted around it.
type ColumnRef struct {
	id int
}

// IsZero reports whether the ref was never assigned.
func (r ColumnRef) IsZero() bool { return r.id == 0 }

// Sheet is a rectangular grid of cells. Every row always has Width cells.
type Sheet struct {
	name   string
	rows   [][]Cell
	ids    []int
	nextID int
}

// NewSheet returns a sheet with the given header row and no data.
func NewSheet(name string, headers ...string) *Sheet {
	header := make([]Cell, len(headers))
	for i, h := range headers {
		if h != "" {
			header[i] = Text(h)
		}
	}
	return FromRows(name, [][]Cell{header})
}

// FromRows builds a sheet from raw rows, the first being the header. Short
// rows are padded with empty cells to the width of the widest row.
func FromRows(name string, rows [][]Cell) *Sheet {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if len(rows) == 0 {
		rows = [][]Cell{{}}
	}

	s := &Sheet{name: name, rows: make([][]Cell, len(rows))}
	for i, r := range rows {
		row := make([]Cell, width)
		copy(row, r)
		s.rows[i] = row
	}
	s.ids = make([]int, width)
	for i := range s.ids {
		s.ids[i] = s.newID()
	}
	return s
}

func (s *Sheet) newID() int {
	s.nextID++
	return s.nextID
}

func (s *Sheet) Name() string { return s.name }

// Width is the number of columns.
func (s *Sheet) Width() int { return len(s.ids) }

// Height is the number of rows including the header row.
func (s *Sheet) Height() int { return len(s.rows) }

// DataRows is the number of rows below the header.
func (s *Sheet) DataRows() int { return len(s.rows) - 1 }

// Header returns the header text of column col.
func (s *Sheet) Header(col int) (string, error) {
	c, err := s.Cell(1, col)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Headers returns a copy of the header row as strings.
func (s *Sheet) Headers() []string {
	out := make([]string, s.Width())
	for i, c := range s.rows[0] {
		out[i] = c.String()
	}
	return out
}

// Rows returns a copy of every row, header first.
func (s *Sheet) Rows() [][]Cell {
	out := make([][]Cell, len(s.rows))
	for i, r := range s.rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// Row returns a copy of row r.
func (s *Sheet) Row(r int) ([]Cell, error) {
	if r < 1 || r > s.Height() {
		return nil, &RangeError{Op: "get", Row: r, Col: 1, Rows: s.Height(), Cols: s.Width()}
	}
	return slices.Clone(s.rows[r-1]), nil
}

// AppendRow adds a data row. Missing trailing cells are left empty.
func (s *Sheet) AppendRow(cells ...Cell) error {
	if len(cells) > s.Width() {
		return &RangeError{Op: "set", Row: s.Height() + 1, Col: len(cells), Rows: s.Height(), Cols: s.Width()}
	}
	row := make([]Cell, s.Width())
	copy(row, cells)
	s.rows = append(s.rows, row)
	return nil
}

// Cell returns the value at (row, col).
func (s *Sheet) Cell(row, col int) (Cell, error) {
	if !s.inBounds(row, col) {
		return Empty, &RangeError{Op: "get", Row: row, Col: col, Rows: s.Height(), Cols: s.Width()}
	}
	return s.rows[row-1][col-1], nil
}

// SetCell writes v at (row, col).
func (s *Sheet) SetCell(row, col int, v Cell) error {
	if !s.inBounds(row, col) {
		return &RangeError{Op: "set", Row: row, Col: col, Rows: s.Height(), Cols: s.Width()}
	}
	s.rows[row-1][col-1] = v
	return nil
}

func (s *Sheet) inBounds(row, col int) bool {
	return row >= 1 && row <= s.Height() && col >= 1 && col <= s.Width()
}

// InsertColumn shifts columns index..end one place right, writes name into
// the header at index and def into every data row. index may be Width()+1
// to append.
func (s *Sheet) InsertColumn(index int, name string, def Cell) (ColumnRef, error) {
	if index < 1 || index > s.Width()+1 {
		return ColumnRef{}, &RangeError{Op: "insert", Col: index, Rows: s.Height(), Cols: s.Width()}
	}

	id := s.newID()
	s.ids = slices.Insert(s.ids, index-1, id)
	for i, r := range s.rows {
		v := def
		if i == 0 {
			v = Text(name)
		}
		s.rows[i] = slices.Insert(r, index-1, v)
	}
	return ColumnRef{id: id}, nil
}

// DeleteColumn removes column index from every row, shifting later columns
// left.
func (s *Sheet) DeleteColumn(index int) error {
	if index < 1 || index > s.Width() {
		return &RangeError{Op: "delete", Col: index, Rows: s.Height(), Cols: s.Width()}
	}

	s.ids = slices.Delete(s.ids, index-1, index)
	for i, r := range s.rows {
		s.rows[i] = slices.Delete(r, index-1, index)
	}
	return nil
}

// Ref returns the stable identity of the column currently at col.
func (s *Sheet) Ref(col int) (ColumnRef, error) {
	if col < 1 || col > s.Width() {
		return ColumnRef{}, &RangeError{Op: "get", Col: col, Rows: s.Height(), Cols: s.Width()}
	}
	return ColumnRef{id: s.ids[col-1]}, nil
}

// Position resolves ref to its current 1-based column index.
func (s *Sheet) Position(ref ColumnRef) (int, error) {
	if i := slices.Index(s.ids, ref.id); i >= 0 && !ref.IsZero() {
		return i + 1, nil
	}
	return 0, ErrUnknownColumn
}

// InsertColumnAfter inserts a new column directly to the right of ref.
func (s *Sheet) InsertColumnAfter(ref ColumnRef, name string, def Cell) (ColumnRef, error) {
	pos, err := s.Position(ref)
	if err != nil {
		return ColumnRef{}, err
	}
	return s.InsertColumn(pos+1, name, def)
}

// InsertColumnBefore inserts a new column directly to the left of ref.
func (s *Sheet) InsertColumnBefore(ref ColumnRef, name string, def Cell) (ColumnRef, error) {
	pos, err := s.Position(ref)
	if err != nil {
		return ColumnRef{}, err
	}
	return s.InsertColumn(pos, name, def)
}

// DeleteColumnRef removes the column identified by ref.
func (s *Sheet) DeleteColumnRef(ref ColumnRef) error {
	pos, err := s.Position(ref)
	if err != nil {
		return err
	}
	return s.DeleteColumn(pos)
}

// Update rewrites every data cell of the column identified by ref with the
// result of fn. fn receives the 1-based row number.
func (s *Sheet) Update(ref ColumnRef, fn func(row int, c Cell) (Cell, error)) error {
	pos, err := s.Position(ref)
	if err != nil {
		return err
	}
	for r := 2; r <= s.Height(); r++ {
		v, err := fn(r, s.rows[r-1][pos-1])
		if err != nil {
			return err
		}
		s.rows[r-1][pos-1] = v
	}
	return nil
}
