package frame

import "fmt"

// RawTable is a raw survey extract held in memory: named columns of Cells
// sharing one row count. The core reaches it only through column names.
type RawTable struct {
	names []string
	cols  map[string][]Cell
	rows  int
}

// NewRawTable returns an empty raw table.
func NewRawTable() *RawTable {
	return &RawTable{cols: make(map[string][]Cell)}
}

// Add appends a raw column. The first column fixes the row count.
func (r *RawTable) Add(name string, cells []Cell) error {
	if _, dup := r.cols[name]; dup {
		return fmt.Errorf("duplicate raw column %s", name)
	}
	if len(r.names) == 0 {
		r.rows = len(cells)
	} else if len(cells) != r.rows {
		return fmt.Errorf("raw column %s has %d rows, want %d", name, len(cells), r.rows)
	}
	r.names = append(r.names, name)
	r.cols[name] = cells
	return nil
}

func (r *RawTable) Rows() int { return r.rows }

// Names returns the raw column names in load order.
func (r *RawTable) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Column returns the cells of a raw column. Callers must not modify the
// returned slice.
func (r *RawTable) Column(name string) ([]Cell, error) {
	cells, ok := r.cols[name]
	if !ok {
		return nil, fmt.Errorf("raw column %s: %w", name, ErrNoColumn)
	}
	return cells, nil
}

// Filter returns a raw table holding only the rows for which keep is true.
func (r *RawTable) Filter(keep func(RawRow) bool) *RawTable {
	var idx []int
	for i := 0; i < r.rows; i++ {
		if keep(RawRow{r: r, i: i}) {
			idx = append(idx, i)
		}
	}
	out := &RawTable{names: r.Names(), cols: make(map[string][]Cell, len(r.cols)), rows: len(idx)}
	for _, name := range r.names {
		src := r.cols[name]
		cells := make([]Cell, len(idx))
		for j, i := range idx {
			cells[j] = src[i]
		}
		out.cols[name] = cells
	}
	return out
}

// Row returns a read-only view of raw row i.
func (r *RawTable) Row(i int) RawRow { return RawRow{r: r, i: i} }

// RawRow is a read-only view of one raw extract row.
type RawRow struct {
	r *RawTable
	i int
}

// Cell returns the row's cell in the named raw column, or NA when the
// extract has no such column.
func (rr RawRow) Cell(name string) Cell {
	cells, ok := rr.r.cols[name]
	if !ok {
		return NA
	}
	return cells[rr.i]
}
