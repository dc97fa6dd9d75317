// Package recode translates raw survey codes into canonical typed values.
//
// A Spec is built once from declarative options and is immutable afterwards.
// Building it resolves the number/text ambiguity of raw extracts: every
// integer code in the mapping, null set, or keep set also matches its digit
// string, so the same Spec works whether an extract stores codes as numbers
// or as text.
package recode

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// ErrKeepAndMapping is returned when a spec names both a keep set and a mapping.
var ErrKeepAndMapping = errors.New("recode: keep and mapping are mutually exclusive")

// Code is a raw code as written in a codebook table.
type Code interface {
	int | float64 | string
}

// Spec describes how a raw cell becomes a canonical value.
type Spec struct {
	target  frame.Type
	mapping map[frame.Cell]frame.Value
	nulls   map[frame.Cell]struct{}
	keep    map[frame.Cell]struct{}
}

type options struct {
	mapping map[frame.Cell]frame.Cell
	nulls   []frame.Cell
	keep    []frame.Cell
}

// Option configures a Spec under construction.
type Option func(*options)

// Map adds raw-code to canonical-code pairs. Repeated Map options merge.
func Map[K Code, V Code](m map[K]V) Option {
	return func(o *options) {
		if o.mapping == nil {
			o.mapping = make(map[frame.Cell]frame.Cell, len(m))
		}
		for k, v := range m {
			o.mapping[codeCell(k)] = codeCell(v)
		}
	}
}

// Nulls adds raw codes that denote a missing answer.
func Nulls[K Code](codes ...K) Option {
	return func(o *options) {
		for _, c := range codes {
			o.nulls = append(o.nulls, codeCell(c))
		}
	}
}

// Keep adds raw codes passed through unchanged after type coercion. Any code
// not kept becomes missing.
func Keep[K Code](codes ...K) Option {
	return func(o *options) {
		for _, c := range codes {
			o.keep = append(o.keep, codeCell(c))
		}
	}
}

func codeCell[K Code](k K) frame.Cell {
	switch v := any(k).(type) {
	case int:
		return frame.IntCell(v)
	case float64:
		return frame.NumCell(v)
	case string:
		return frame.TextCell(v)
	}
	return frame.NA
}

// NewSpec builds an immutable Spec for the given target type. Mapping values
// are coerced to the target here, so a malformed codebook entry fails when
// the spec is declared rather than when a matching row first appears.
func NewSpec(target frame.Type, opts ...Option) (Spec, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.mapping != nil && o.keep != nil {
		return Spec{}, ErrKeepAndMapping
	}
	s := Spec{target: target}
	if o.nulls != nil {
		s.nulls = cellSet(o.nulls)
	}
	if o.keep != nil {
		s.keep = cellSet(o.keep)
	}
	if o.mapping != nil {
		s.mapping = make(map[frame.Cell]frame.Value, 2*len(o.mapping))
		for k, v := range o.mapping {
			cv, err := coerce(v, target)
			if err != nil {
				return Spec{}, fmt.Errorf("mapping %s -> %s: %w", k, v, &frame.ConversionError{Value: v, Target: target, Row: -1, Err: err})
			}
			s.mapping[k] = cv
		}
		for k := range o.mapping {
			if alt, ok := textTwin(k); ok {
				if _, explicit := o.mapping[alt]; !explicit {
					s.mapping[alt] = s.mapping[k]
				}
			}
		}
	}
	return s, nil
}

// MustSpec is like NewSpec but panics on error. It is meant for static
// codebook tables declared at package level.
func MustSpec(target frame.Type, opts ...Option) Spec {
	s, err := NewSpec(target, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func cellSet(cells []frame.Cell) map[frame.Cell]struct{} {
	set := make(map[frame.Cell]struct{}, 2*len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
		if alt, ok := textTwin(c); ok {
			set[alt] = struct{}{}
		}
	}
	return set
}

// textTwin returns the digit-string form of an integer code.
func textTwin(c frame.Cell) (frame.Cell, bool) {
	i, ok := c.Integral()
	if !ok {
		return frame.NA, false
	}
	return frame.TextCell(strconv.FormatInt(i, 10)), true
}

// Target returns the spec's canonical type.
func (s Spec) Target() frame.Type { return s.target }

// String summarizes the spec for logs.
func (s Spec) String() string {
	var parts []string
	parts = append(parts, s.target.String())
	if s.mapping != nil {
		parts = append(parts, fmt.Sprintf("mapping(%s)", describeKeys(s.mapping)))
	}
	if s.keep != nil {
		parts = append(parts, fmt.Sprintf("keep(%s)", describeKeys(s.keep)))
	}
	if s.nulls != nil {
		parts = append(parts, fmt.Sprintf("nulls(%s)", describeKeys(s.nulls)))
	}
	return strings.Join(parts, " ")
}

func describeKeys[V any](m map[frame.Cell]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k.IsText() {
			if alt, ok := k.Text(); ok {
				if _, err := strconv.Atoi(alt); err == nil {
					continue // text twin of a numeric code
				}
			}
		}
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
