package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// Point is one (time, weighted mean) observation of a series.
type Point struct {
	Time frame.Value
	Mean float64
	N    int
}

// Series is the trend of one level combination of the extra group keys.
type Series struct {
	Label  string
	Points []Point
}

// Pivot is a grouped result unstacked so each level of the extra keys is its
// own series over time. It is what the rendering side consumes.
type Pivot struct {
	Value  string
	Time   string
	Times  []frame.Value
	Series []Series
}

// Pivot unstacks the extra keys into series sorted by label. Without extra
// keys there is one series labeled with the value column name.
func (g *Grouped) Pivot() *Pivot {
	p := &Pivot{Value: g.Value, Time: g.Keys[0]}
	seenTime := map[frame.Key]struct{}{}
	index := map[string]int{}
	for _, grp := range g.Groups {
		t := grp.Keys[0]
		if _, ok := seenTime[t.Key()]; !ok {
			seenTime[t.Key()] = struct{}{}
			p.Times = append(p.Times, t)
		}
		label := g.Value
		if len(grp.Keys) > 1 {
			lv := make([]string, len(grp.Keys)-1)
			for j, k := range grp.Keys[1:] {
				lv[j] = k.String()
			}
			label = strings.Join(lv, "/")
		}
		i, ok := index[label]
		if !ok {
			i = len(p.Series)
			index[label] = i
			p.Series = append(p.Series, Series{Label: label})
		}
		p.Series[i].Points = append(p.Series[i].Points, Point{Time: t, Mean: grp.Mean, N: grp.N})
	}
	sort.SliceStable(p.Series, func(i, j int) bool { return p.Series[i].Label < p.Series[j].Label })
	return p
}

// At returns the mean of series s at time t.
func (p *Pivot) At(s int, t frame.Value) (float64, bool) {
	for _, pt := range p.Series[s].Points {
		if pt.Time.Equal(t) {
			return pt.Mean, true
		}
	}
	return 0, false
}

// Markdown renders a compact trend report.
func (p *Pivot) Markdown() string {
	var b strings.Builder
	b.WriteString("[WEIGHTED TREND]\n")
	b.WriteString(fmt.Sprintf("Value: %s\n", p.Value))
	b.WriteString(fmt.Sprintf("Series: %d\n\n", len(p.Series)))
	b.WriteString("| ")
	b.WriteString(p.Time)
	for _, s := range p.Series {
		b.WriteString(" | ")
		b.WriteString(safeVal(s.Label))
	}
	b.WriteString(" |\n|---")
	for range p.Series {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	for _, t := range p.Times {
		b.WriteString("| ")
		b.WriteString(t.String())
		for i := range p.Series {
			b.WriteString(" | ")
			if m, ok := p.At(i, t); ok {
				b.WriteString(fmt.Sprintf("%.4g", m))
			}
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// WriteCSV writes one row per time with one column per series; absent
// combinations are left empty.
func (p *Pivot) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(p.Series)+1)
	header = append(header, p.Time)
	for _, s := range p.Series {
		header = append(header, s.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range p.Times {
		rec := make([]string, 0, len(header))
		rec = append(rec, t.String())
		for i := range p.Series {
			if m, ok := p.At(i, t); ok {
				rec = append(rec, strconv.FormatFloat(m, 'g', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
