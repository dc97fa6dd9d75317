package frame

import (
	"math"
	"strconv"
	"strings"
)

type cellKind uint8

const (
	cellNA cellKind = iota
	cellNumber
	cellText
)

// Cell is a single raw survey value as it arrived from an extract: a numeric
// code, a numeral rendered as text, a blank string, or the missing marker.
// Cells are comparable and may be used as map keys.
type Cell struct {
	kind cellKind
	num  float64
	text string
}

// NA is the library-level missing marker.
var NA = Cell{}

// NumCell returns a numeric cell. NaN is folded into NA.
func NumCell(f float64) Cell {
	if math.IsNaN(f) {
		return NA
	}
	return Cell{kind: cellNumber, num: f}
}

// IntCell returns a numeric cell holding an integer code.
func IntCell(i int) Cell { return Cell{kind: cellNumber, num: float64(i)} }

// TextCell returns a cell holding raw text, unmodified.
func TextCell(s string) Cell { return Cell{kind: cellText, text: s} }

// IsNA reports whether the cell is the missing marker.
func (c Cell) IsNA() bool { return c.kind == cellNA }

// IsBlank reports whether the cell is NA or a whitespace-only string.
func (c Cell) IsBlank() bool {
	switch c.kind {
	case cellNA:
		return true
	case cellText:
		return strings.TrimSpace(c.text) == ""
	}
	return false
}

// IsNumber reports whether the cell arrived as a number.
func (c Cell) IsNumber() bool { return c.kind == cellNumber }

// IsText reports whether the cell arrived as text.
func (c Cell) IsText() bool { return c.kind == cellText }

// Number returns the numeric reading of the cell. Text cells are parsed after
// trimming surrounding whitespace; NA and unparsable text report false.
func (c Cell) Number() (float64, bool) {
	switch c.kind {
	case cellNumber:
		return c.num, true
	case cellText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Integral reports the integer value of a numeric cell whose value has no
// fractional part.
func (c Cell) Integral() (int64, bool) {
	if c.kind != cellNumber || math.IsInf(c.num, 0) || c.num != math.Trunc(c.num) {
		return 0, false
	}
	return int64(c.num), true
}

// Text returns the raw text of a text cell.
func (c Cell) Text() (string, bool) {
	if c.kind != cellText {
		return "", false
	}
	return c.text, true
}

// String renders the cell for messages. Numbers use the shortest
// representation, text is quoted.
func (c Cell) String() string {
	switch c.kind {
	case cellNumber:
		return FormatNumber(c.num)
	case cellText:
		return strconv.Quote(c.text)
	}
	return "<NA>"
}

// FormatNumber renders f without a trailing ".0" for integral values.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
