package frame

import "fmt"

// Column is a named sequence of canonical values aligned by row.
type Column struct {
	name   string
	typ    Type
	values []Value
}

// NewColumn builds a column, checking that every non-missing value matches
// typ. The values slice is copied.
func NewColumn(name string, typ Type, values []Value) (*Column, error) {
	for i, v := range values {
		if !typ.Admits(v) {
			return nil, fmt.Errorf("column %s: row %d holds %v, not a %s value", name, i, v, typ)
		}
	}
	cp := make([]Value, len(values))
	copy(cp, values)
	return &Column{name: name, typ: typ, values: cp}, nil
}

// MissingColumn returns a column of n missing values.
func MissingColumn(name string, typ Type, n int) *Column {
	return &Column{name: name, typ: typ, values: make([]Value, n)}
}

func (c *Column) Name() string  { return c.name }
func (c *Column) Type() Type     { return c.typ }
func (c *Column) Len() int       { return len(c.values) }
func (c *Column) At(i int) Value { return c.values[i] }

// Values returns a copy of the column's values.
func (c *Column) Values() []Value {
	cp := make([]Value, len(c.values))
	copy(cp, c.values)
	return cp
}

// Renamed returns the same values under another name.
func (c *Column) Renamed(name string) *Column {
	return &Column{name: name, typ: c.typ, values: c.values}
}

// Distinct returns the distinct non-missing values in first-seen order.
func (c *Column) Distinct() []Value {
	seen := make(map[Key]struct{})
	var out []Value
	for _, v := range c.values {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CountMissing returns the number of missing values.
func (c *Column) CountMissing() int {
	n := 0
	for _, v := range c.values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

func (c *Column) take(idx []int) *Column {
	vals := make([]Value, len(idx))
	for j, i := range idx {
		vals[j] = c.values[i]
	}
	return &Column{name: c.name, typ: c.typ, values: vals}
}
