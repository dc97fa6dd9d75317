package model

import (
	"fmt"
	"slices"
	"strings"
)

// Categorical names a categorical predictor and the level every other level
// is contrasted against.
type Categorical struct {
	Name      string
	Reference string
}

// ParseCategorical reads "name=reference".
func ParseCategorical(s string) (Categorical, error) {
	name, ref, ok := strings.Cut(s, "=")
	name, ref = strings.TrimSpace(name), strings.TrimSpace(ref)
	if !ok || name == "" || ref == "" {
		return Categorical{}, fmt.Errorf("categorical predictor %q must look like name=reference", s)
	}
	return Categorical{Name: name, Reference: ref}, nil
}

// Formula renders the model in Wilkinson notation with every categorical
// predictor wrapped in an explicit treatment contrast.
func Formula(dependent string, numeric []string, categorical []Categorical) string {
	terms := make([]string, 0, len(numeric)+len(categorical))
	terms = append(terms, numeric...)
	for _, c := range categorical {
		terms = append(terms, fmt.Sprintf("C(%s, Treatment(reference='%s'))", c.Name, c.Reference))
	}
	if len(terms) == 0 {
		terms = append(terms, "1")
	}
	return dependent + " ~ " + strings.Join(terms, " + ")
}

// design is a dense design matrix in row-major order with an intercept
// column first.
type design struct {
	names []string
	rows  int
	cols  int
	x     []float64
}

func (d *design) at(i, j int) float64 { return d.x[i*d.cols+j] }

// buildDesign assembles the intercept, the numeric predictors and one dummy
// per non-reference level of each categorical predictor, levels in sorted
// order.
func buildDesign(f *Frame, numeric []string, categorical []Categorical) (*design, error) {
	type dummy struct {
		labels []string
		level  string
	}
	names := []string{"Intercept"}
	cols := make([][]float64, 0, len(numeric))
	for _, n := range numeric {
		xs, ok := f.Numeric(n)
		if !ok {
			return nil, fmt.Errorf("predictor %s is not a prepared numeric column", n)
		}
		names = append(names, n)
		cols = append(cols, xs)
	}
	var dummies []dummy
	for _, c := range categorical {
		labels, ok := f.Categorical(c.Name)
		if !ok {
			return nil, fmt.Errorf("predictor %s is not a prepared categorical column", c.Name)
		}
		levels := f.Levels(c.Name)
		if !slices.Contains(levels, c.Reference) {
			return nil, fmt.Errorf("reference level %q of %s is absent; levels are %s",
				c.Reference, c.Name, strings.Join(levels, ", "))
		}
		for _, lv := range levels {
			if lv == c.Reference {
				continue
			}
			names = append(names, fmt.Sprintf("C(%s, Treatment(reference='%s'))[T.%s]", c.Name, c.Reference, lv))
			dummies = append(dummies, dummy{labels: labels, level: lv})
		}
	}

	d := &design{names: names, rows: f.Rows(), cols: len(names)}
	d.x = make([]float64, d.rows*d.cols)
	for i := 0; i < d.rows; i++ {
		row := d.x[i*d.cols : (i+1)*d.cols]
		row[0] = 1
		j := 1
		for _, xs := range cols {
			row[j] = xs[i]
			j++
		}
		for _, dm := range dummies {
			if dm.labels[i] == dm.level {
				row[j] = 1
			}
			j++
		}
	}
	return d, nil
}
