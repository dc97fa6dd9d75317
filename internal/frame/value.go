package frame

import (
	"cmp"
	"strconv"
)

// Type is the canonical type of a harmonized column.
type Type uint8

const (
	Numeric Type = iota + 1
	Integer
	Text
)

func (t Type) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Integer:
		return "integer"
	case Text:
		return "text"
	}
	return "unknown"
}

// Kind tags the content of a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindFloat
	KindInt
	KindText
)

// Value is one canonical value: a float, an integer, a text label, or
// Missing. The zero Value is Missing.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
}

// Missing is the single canonical missing marker.
var Missing = Value{}

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Str(s string) Value    { return Value{kind: KindText, s: s} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric reading of a float or integer value.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Int returns the value of an integer value.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Str returns the label of a text value.
func (v Value) Str() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// String renders the value as it appears in reports and CSV output.
// Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return FormatNumber(v.f)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return v.s
	}
	return ""
}

// Key is a comparable identity for a Value in which integers and floats of
// equal magnitude coincide.
type Key struct {
	kind Kind
	num  float64
	s    string
}

// Key returns the value's identity for set membership and grouping.
func (v Value) Key() Key {
	switch v.kind {
	case KindFloat, KindInt:
		f, _ := v.Float()
		return Key{kind: KindFloat, num: f}
	case KindText:
		return Key{kind: KindText, s: v.s}
	}
	return Key{}
}

// Equal reports whether two values are the same canonical value, comparing
// integers and floats numerically.
func (v Value) Equal(o Value) bool { return v.Key() == o.Key() }

// Compare orders values: missing first, then numbers ascending, then text.
func Compare(a, b Value) int {
	ka, kb := a.Key(), b.Key()
	if ka.kind != kb.kind {
		return cmp.Compare(ka.kind, kb.kind)
	}
	if ka.kind == KindText {
		return cmp.Compare(ka.s, kb.s)
	}
	return cmp.Compare(ka.num, kb.num)
}

// Admits reports whether v may be stored in a column of type t.
func (t Type) Admits(v Value) bool {
	switch v.kind {
	case KindMissing:
		return true
	case KindFloat:
		return t == Numeric
	case KindInt:
		return t == Integer
	case KindText:
		return t == Text
	}
	return false
}
