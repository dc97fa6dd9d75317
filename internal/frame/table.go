package frame

import (
	"fmt"
	"slices"
)

// Table is a row-aligned collection of canonical columns with a stable
// column order.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable builds a table from columns of equal length and unique names.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), t.rows)
		}
		if _, dup := t.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column %s", c.Name())
		}
		t.index[c.Name()] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

func (t *Table) Rows() int { return t.rows }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether the table holds a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %s: %w", name, ErrNoColumn)
	}
	return t.cols[i], nil
}

// With returns a new table with col appended, or replacing the column of the
// same name in place.
func (t *Table) With(col *Column) (*Table, error) {
	if len(t.cols) > 0 && col.Len() != t.rows {
		return nil, fmt.Errorf("column %s has %d rows, want %d", col.Name(), col.Len(), t.rows)
	}
	cols := slices.Clone(t.cols)
	if i, ok := t.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return NewTable(cols...)
}

// Select projects the table to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows
	return out, nil
}

// Filter returns the rows for which keep reports true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	var idx []int
	for i := 0; i < t.rows; i++ {
		if keep(Row{t: t, i: i}) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

func (t *Table) take(idx []int) *Table {
	out := &Table{index: make(map[string]int, len(t.cols)), rows: len(idx)}
	for i, c := range t.cols {
		out.cols = append(out.cols, c.take(idx))
		out.index[c.Name()] = i
	}
	return out
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

// Index returns the row position within its table.
func (r Row) Index() int { return r.i }

// Value returns the row's value in the named column, or Missing when the
// table has no such column.
func (r Row) Value(name string) Value {
	j, ok := r.t.index[name]
	if !ok {
		return Missing
	}
	return r.t.cols[j].values[r.i]
}

// Concat stacks tables vertically. The result holds the union of columns in
// first-seen order; rows from a table lacking a column are missing there.
// A column present in several tables must have the same type in each.
func Concat(tables ...*Table) (*Table, error) {
	var names []string
	types := map[string]Type{}
	total := 0
	for _, t := range tables {
		total += t.rows
		for _, c := range t.cols {
			typ, seen := types[c.Name()]
			if !seen {
				types[c.Name()] = c.Type()
				names = append(names, c.Name())
				continue
			}
			if typ != c.Type() {
				return nil, fmt.Errorf("concat: column %s is %s in one table and %s in another", c.Name(), typ, c.Type())
			}
		}
	}
	cols := make([]*Column, len(names))
	for j, name := range names {
		vals := make([]Value, 0, total)
		for _, t := range tables {
			if k, ok := t.index[name]; ok {
				vals = append(vals, t.cols[k].values...)
			} else {
				vals = append(vals, make([]Value, t.rows)...)
			}
		}
		cols[j] = &Column{name: name, typ: types[name], values: vals}
	}
	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = total
	return out, nil
}
