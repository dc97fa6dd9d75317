package recode

import (
	"errors"
	"strconv"
	"strings"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

var (
	errNotNumber   = errors.New("not a number")
	errFractional  = errors.New("has a fractional part")
	errNotInteger  = errors.New("not an integer")
	errUnsupported = errors.New("unsupported target type")
)

// Cell recodes a single raw cell.
func Cell(c frame.Cell, s Spec) (frame.Value, error) {
	return s.apply(c, -1)
}

// Column recodes a raw column elementwise into a canonical column named name.
// The first conversion failure aborts the whole column.
func Column(name string, cells []frame.Cell, s Spec) (*frame.Column, error) {
	vals := make([]frame.Value, len(cells))
	for i, c := range cells {
		v, err := s.apply(c, i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return frame.NewColumn(name, s.target, vals)
}

// apply evaluates the spec on one cell; first match wins.
func (s Spec) apply(c frame.Cell, row int) (frame.Value, error) {
	if c.IsBlank() {
		return frame.Missing, nil
	}
	if _, null := s.nulls[c]; null {
		return frame.Missing, nil
	}
	var (
		v   frame.Value
		err error
	)
	switch {
	case s.keep != nil:
		if _, ok := s.keep[c]; !ok {
			return frame.Missing, nil
		}
		v, err = coerce(c, s.target)
	case s.mapping != nil:
		mv, ok := s.mapping[c]
		if !ok {
			return frame.Missing, nil
		}
		return mv, nil
	default:
		v, err = coerce(c, s.target)
	}
	if err != nil {
		return frame.Missing, &frame.ConversionError{Value: c, Target: s.target, Row: row, Err: err}
	}
	return v, nil
}

// coerce converts a non-blank raw cell to the target type.
func coerce(c frame.Cell, target frame.Type) (frame.Value, error) {
	switch target {
	case frame.Numeric:
		f, ok := c.Number()
		if !ok {
			return frame.Missing, errNotNumber
		}
		return frame.Float(f), nil
	case frame.Integer:
		if c.IsNumber() {
			i, ok := c.Integral()
			if !ok {
				return frame.Missing, errFractional
			}
			return frame.Int(i), nil
		}
		txt, _ := c.Text()
		i, err := strconv.ParseInt(strings.TrimSpace(txt), 10, 64)
		if err != nil {
			return frame.Missing, errNotInteger
		}
		return frame.Int(i), nil
	case frame.Text:
		if f, ok := c.Number(); ok && c.IsNumber() {
			return frame.Str(frame.FormatNumber(f)), nil
		}
		txt, _ := c.Text()
		return frame.Str(txt), nil
	}
	return frame.Missing, errUnsupported
}
