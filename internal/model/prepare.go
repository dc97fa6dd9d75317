// Package model prepares harmonized tables for regression and fits linear or
// logistic models with explicit treatment coding of categorical predictors.
package model

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// Frame is a model-ready table. No column has a missing value, numeric
// columns are range-scaled and categorical columns are nominal text labels.
type Frame struct {
	rows        int
	numeric     []string
	categorical []string
	nums        map[string][]float64
	cats        map[string][]string
	spans       map[string]float64
}

// Prepare projects t onto the requested columns, drops every row missing any
// of them, divides each numeric column by its range (max-min) and marks the
// categorical columns as nominal. The source table is not modified.
func Prepare(t *frame.Table, numeric, categorical []string) (*Frame, error) {
	names := make([]string, 0, len(numeric)+len(categorical))
	names = append(names, numeric...)
	names = append(names, categorical...)
	seen := map[string]struct{}{}
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("column %s requested twice", n)
		}
		seen[n] = struct{}{}
	}
	proj, err := t.Select(names...)
	if err != nil {
		return nil, err
	}
	for _, n := range numeric {
		c, _ := proj.Column(n)
		if c.Type() == frame.Text {
			return nil, fmt.Errorf("column %s is text and cannot be used as a numeric variable", n)
		}
	}

	complete := proj.Filter(func(r frame.Row) bool {
		for _, n := range names {
			if r.Value(n).IsMissing() {
				return false
			}
		}
		return true
	})
	if complete.Rows() == 0 {
		col := ""
		if len(names) > 0 {
			col = names[0]
		}
		return nil, &frame.MissingDataError{Column: col, Reason: "no rows left after listwise deletion"}
	}

	f := &Frame{
		rows:        complete.Rows(),
		numeric:     append([]string(nil), numeric...),
		categorical: append([]string(nil), categorical...),
		nums:        make(map[string][]float64, len(numeric)),
		cats:        make(map[string][]string, len(categorical)),
		spans:       make(map[string]float64, len(numeric)),
	}
	for _, n := range numeric {
		c, _ := complete.Column(n)
		xs := make([]float64, c.Len())
		for i := range xs {
			xs[i], _ = c.At(i).Float()
		}
		lo, hi := xs[0], xs[0]
		for _, x := range xs[1:] {
			lo = min(lo, x)
			hi = max(hi, x)
		}
		span := hi - lo
		if span == 0 {
			return nil, &frame.DegenerateColumnError{Column: n, Value: lo}
		}
		for i := range xs {
			xs[i] /= span
		}
		f.nums[n] = xs
		f.spans[n] = span
	}
	for _, n := range categorical {
		c, _ := complete.Column(n)
		labels := make([]string, c.Len())
		for i := range labels {
			labels[i] = c.At(i).String()
		}
		f.cats[n] = labels
	}
	return f, nil
}

func (f *Frame) Rows() int { return f.rows }

// NumericNames lists the numeric columns in request order.
func (f *Frame) NumericNames() []string { return append([]string(nil), f.numeric...) }

// CategoricalNames lists the categorical columns in request order.
func (f *Frame) CategoricalNames() []string { return append([]string(nil), f.categorical...) }

// Numeric returns a copy of the scaled values of a numeric column.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	xs, ok := f.nums[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), xs...), true
}

// Span is the range the column was divided by.
func (f *Frame) Span(name string) (float64, bool) {
	s, ok := f.spans[name]
	return s, ok
}

// Categorical returns a copy of the labels of a categorical column.
func (f *Frame) Categorical(name string) ([]string, bool) {
	ls, ok := f.cats[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), ls...), true
}

// Levels returns the sorted distinct labels of a categorical column.
func (f *Frame) Levels(name string) []string {
	set := map[string]struct{}{}
	for _, l := range f.cats[name] {
		set[l] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
