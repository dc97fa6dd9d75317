package model

import (
	"fmt"
	"sort"
	"strings"
)

// Family is the model family chosen for the dependent variable.
type Family int

const (
	OLS Family = iota
	Logit
)

func (f Family) String() string {
	if f == Logit {
		return "Logit"
	}
	return "OLS"
}

// Coefficient is one estimated term.
type Coefficient struct {
	Term      string
	Estimate  float64
	StdErr    float64
	Statistic float64 // t for OLS, z for Logit
	PValue    float64
}

// FittedModel is the result of Fit.
type FittedModel struct {
	Formula       string
	Dependent     string
	Family        Family
	Observations  int
	Coefficients  []Coefficient
	RSquared      float64 // McFadden's pseudo R² for Logit
	AdjRSquared   float64 // OLS only
	LogLikelihood float64
	Iterations    int
	Converged     bool
	// Outcome is the prepared dependent value coded 1 in a logit fit.
	Outcome float64
}

// Coefficient looks up a term by name.
func (m *FittedModel) Coefficient(term string) (Coefficient, bool) {
	for _, c := range m.Coefficients {
		if c.Term == term {
			return c, true
		}
	}
	return Coefficient{}, false
}

// Fitter carries the iteration limits used by logistic fits.
type Fitter struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultFitter mirrors common GLM defaults.
func DefaultFitter() Fitter { return Fitter{MaxIterations: 100, Tolerance: 1e-8} }

// Fit fits dependent on the numeric and categorical predictors with the
// default limits.
func Fit(f *Frame, dependent string, numeric []string, categorical []Categorical) (*FittedModel, error) {
	return DefaultFitter().Fit(f, dependent, numeric, categorical)
}

// Fit fits a logistic model when the prepared dependent has exactly two
// distinct values and an ordinary least squares model otherwise.
func (ft Fitter) Fit(f *Frame, dependent string, numeric []string, categorical []Categorical) (*FittedModel, error) {
	y, ok := f.Numeric(dependent)
	if !ok {
		return nil, fmt.Errorf("dependent %s is not a prepared numeric column", dependent)
	}
	for _, n := range numeric {
		if n == dependent {
			return nil, fmt.Errorf("dependent %s is also listed as a predictor", dependent)
		}
	}
	d, err := buildDesign(f, numeric, categorical)
	if err != nil {
		return nil, err
	}
	formula := Formula(dependent, numeric, categorical)

	levels := distinct(y)
	var m *FittedModel
	if len(levels) == 2 {
		if ft.MaxIterations <= 0 {
			ft.MaxIterations = DefaultFitter().MaxIterations
		}
		if ft.Tolerance <= 0 {
			ft.Tolerance = DefaultFitter().Tolerance
		}
		coded := make([]float64, len(y))
		for i, v := range y {
			if v == levels[1] {
				coded[i] = 1
			}
		}
		m, err = fitLogit(d, coded, ft.MaxIterations, ft.Tolerance)
		if err != nil {
			return nil, fmt.Errorf("logit %s: %w", formula, err)
		}
		m.Outcome = levels[1]
	} else {
		m, err = fitOLS(d, y)
		if err != nil {
			return nil, fmt.Errorf("ols %s: %w", formula, err)
		}
	}
	m.Formula = formula
	m.Dependent = dependent
	return m, nil
}

func distinct(xs []float64) []float64 {
	set := map[float64]struct{}{}
	for _, x := range xs {
		set[x] = struct{}{}
	}
	out := make([]float64, 0, len(set))
	for x := range set {
		out = append(out, x)
	}
	sort.Float64s(out)
	return out
}

// Summary renders a plain-text coefficient table.
func (m *FittedModel) Summary() string {
	var b strings.Builder
	stat := "t"
	if m.Family == Logit {
		stat = "z"
	}
	fmt.Fprintf(&b, "%s Regression Results\n", m.Family)
	fmt.Fprintf(&b, "Formula:         %s\n", m.Formula)
	fmt.Fprintf(&b, "Observations:    %d\n", m.Observations)
	if m.Family == Logit {
		fmt.Fprintf(&b, "Pseudo R-sq.:    %.4f\n", m.RSquared)
		fmt.Fprintf(&b, "Iterations:      %d\n", m.Iterations)
	} else {
		fmt.Fprintf(&b, "R-squared:       %.4f\n", m.RSquared)
		fmt.Fprintf(&b, "Adj. R-squared:  %.4f\n", m.AdjRSquared)
	}
	fmt.Fprintf(&b, "Log-Likelihood:  %.4f\n\n", m.LogLikelihood)

	width := len("Intercept")
	for _, c := range m.Coefficients {
		width = max(width, len(c.Term))
	}
	fmt.Fprintf(&b, "%-*s %10s %10s %8s %8s\n", width, "", "coef", "std err", stat, "P>|"+stat+"|")
	for _, c := range m.Coefficients {
		fmt.Fprintf(&b, "%-*s %10.4f %10.4f %8.3f %8.3f\n", width, c.Term, c.Estimate, c.StdErr, c.Statistic, c.PValue)
	}
	return b.String()
}
