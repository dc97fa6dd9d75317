// Package analysis profiles a harmonized table: per-column missingness and
// moments, top levels of categorical columns, and pairwise correlations
// among numeric columns.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// Options controls what Describe computes.
type Options struct {
	// TopValues is how many levels of a text column to report.
	TopValues int
	// Weight, if set, adds a weighted mean per numeric column.
	Weight string
	// Correlations computes pairwise-complete Pearson correlations among
	// numeric columns.
	Correlations bool
	// MaxPairs caps the correlation pairs listed in the report.
	MaxPairs int
}

// DefaultOptions returns reasonable defaults for a harmonized table.
func DefaultOptions() Options {
	return Options{TopValues: 5, Weight: "weight", Correlations: true, MaxPairs: 10}
}

// Report is a markdown-friendly profile of a table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Pairs    []PairCorr
	Warnings []string
}

// ColumnSummary captures statistics per column.
type ColumnSummary struct {
	Name    string
	Type    frame.Type
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min          float64
	Max          float64
	Mean         float64
	Std          float64
	WeightedMean float64
	Weighted     bool
	// Text top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// PairCorr is one correlation between two numeric columns over the rows
// where both are present.
type PairCorr struct {
	A, B string
	R    float64
	N    int
}

// Describe profiles t.
func Describe(name string, t *frame.Table, opt Options) *Report {
	if opt.TopValues <= 0 {
		opt.TopValues = 5
	}
	rep := &Report{Name: name, Rows: t.Rows()}

	var weights []float64
	if opt.Weight != "" {
		if wc, err := t.Column(opt.Weight); err == nil && wc.Type() != frame.Text {
			weights = asFloats(wc)
		} else {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("weight column %q not usable; weighted means skipped", opt.Weight))
		}
	}

	var numeric []string
	series := map[string][]float64{}
	for _, cn := range t.Columns() {
		c, _ := t.Column(cn)
		cs := ColumnSummary{Name: cn, Type: c.Type(), Missing: c.CountMissing()}
		cs.NonNull = c.Len() - cs.Missing
		cs.Unique = len(c.Distinct())
		if c.Type() == frame.Text {
			cs.TopValues = topValues(c, opt.TopValues)
		} else {
			xs := asFloats(c)
			summarizeNumeric(&cs, xs, weights)
			if cs.NonNull > 0 && cn != opt.Weight {
				numeric = append(numeric, cn)
				series[cn] = xs
			}
		}
		if cs.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s has no values", cn))
		}
		rep.Cols = append(rep.Cols, cs)
	}
	if opt.Correlations {
		rep.Pairs = correlations(numeric, series)
		if opt.MaxPairs > 0 && len(rep.Pairs) > opt.MaxPairs {
			rep.Pairs = rep.Pairs[:opt.MaxPairs]
		}
	}
	return rep
}

// asFloats maps missing values to NaN.
func asFloats(c *frame.Column) []float64 {
	xs := make([]float64, c.Len())
	for i := range xs {
		f, ok := c.At(i).Float()
		if !ok {
			f = math.NaN()
		}
		xs[i] = f
	}
	return xs
}

func summarizeNumeric(cs *ColumnSummary, xs, weights []float64) {
	vals := make([]float64, 0, len(xs))
	var wv, ww []float64
	cs.Min, cs.Max = math.Inf(1), math.Inf(-1)
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		vals = append(vals, x)
		cs.Min = math.Min(cs.Min, x)
		cs.Max = math.Max(cs.Max, x)
		if weights != nil && !math.IsNaN(weights[i]) {
			wv = append(wv, x)
			ww = append(ww, weights[i])
		}
	}
	if len(vals) == 0 {
		cs.Min, cs.Max = math.NaN(), math.NaN()
		cs.Mean, cs.Std = math.NaN(), math.NaN()
		return
	}
	if len(vals) == 1 {
		cs.Mean, cs.Std = vals[0], 0
	} else {
		cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
	}
	if len(wv) > 0 && floats.Sum(ww) > 0 {
		cs.WeightedMean = stat.Mean(wv, ww)
		cs.Weighted = true
	}
}

func topValues(c *frame.Column, k int) []CategoryCount {
	counts := map[string]int{}
	for _, v := range c.Values() {
		if v.IsMissing() {
			continue
		}
		counts[v.String()]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// correlations returns every defined pair sorted by |r|, strongest first.
// Pairs with fewer than three complete rows or a constant side are skipped.
func correlations(names []string, series map[string][]float64) []PairCorr {
	var pairs []PairCorr
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := series[names[i]], series[names[j]]
			var xs, ys []float64
			for k := range a {
				if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
					continue
				}
				xs = append(xs, a[k])
				ys = append(ys, b[k])
			}
			if len(xs) < 3 {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			pairs = append(pairs, PairCorr{A: names[i], B: names[j], R: r, N: len(xs)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	return pairs
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		missPct := 0.0
		if total := c.NonNull + c.Missing; total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Type, c.NonNull, missPct))
		switch {
		case c.Type == frame.Text && len(c.TopValues) > 0:
			b.WriteString("; top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		case c.Type != frame.Text && c.NonNull > 0:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.Weighted {
				b.WriteString(fmt.Sprintf(", weighted mean %.4g", c.WeightedMean))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", p.A, p.B, p.R, p.N))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
