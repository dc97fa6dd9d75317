package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var errSingular = errors.New("design matrix is singular; check for collinear predictors or empty dummy levels")

// normalEquations factors XᵀWX and returns its Cholesky decomposition and
// XᵀWz. A nil weight vector means unit weights.
func normalEquations(d *design, w, z []float64) (*mat.Cholesky, *mat.VecDense, error) {
	xw := mat.NewDense(d.rows, d.cols, nil)
	zw := mat.NewVecDense(d.rows, nil)
	for i := 0; i < d.rows; i++ {
		s := 1.0
		if w != nil {
			s = math.Sqrt(w[i])
		}
		for j := 0; j < d.cols; j++ {
			xw.Set(i, j, s*d.at(i, j))
		}
		zw.SetVec(i, s*z[i])
	}
	var xtx mat.SymDense
	xtx.SymOuterK(1, xw.T())
	var xtz mat.VecDense
	xtz.MulVec(xw.T(), zw)

	var ch mat.Cholesky
	if ok := ch.Factorize(&xtx); !ok {
		return nil, nil, errSingular
	}
	return &ch, &xtz, nil
}

func solve(ch *mat.Cholesky, rhs *mat.VecDense) ([]float64, error) {
	var beta mat.VecDense
	if err := ch.SolveVecTo(&beta, rhs); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}
	out := make([]float64, beta.Len())
	for j := range out {
		out[j] = beta.AtVec(j)
	}
	return out, nil
}

// covariance returns the diagonal of (XᵀWX)⁻¹ scaled by scale.
func covariance(ch *mat.Cholesky, scale float64) ([]float64, error) {
	var inv mat.SymDense
	if err := ch.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("invert information matrix: %w", err)
	}
	n, _ := inv.Dims()
	out := make([]float64, n)
	for j := range out {
		out[j] = scale * inv.At(j, j)
	}
	return out, nil
}

func fitOLS(d *design, y []float64) (*FittedModel, error) {
	n, p := d.rows, d.cols
	if n <= p {
		return nil, fmt.Errorf("ordinary least squares needs more rows (%d) than terms (%d)", n, p)
	}
	ch, xty, err := normalEquations(d, nil, y)
	if err != nil {
		return nil, err
	}
	beta, err := solve(ch, xty)
	if err != nil {
		return nil, err
	}

	var rss, ybar, tss float64
	for _, v := range y {
		ybar += v
	}
	ybar /= float64(n)
	for i := 0; i < n; i++ {
		fit := 0.0
		for j := 0; j < p; j++ {
			fit += d.at(i, j) * beta[j]
		}
		r := y[i] - fit
		rss += r * r
		tss += (y[i] - ybar) * (y[i] - ybar)
	}
	dfResid := float64(n - p)
	sigma2 := rss / dfResid
	vars, err := covariance(ch, sigma2)
	if err != nil {
		return nil, err
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dfResid}
	m := &FittedModel{
		Family:        OLS,
		Observations:  n,
		Iterations:    1,
		Converged:     true,
		LogLikelihood: -float64(n) / 2 * (math.Log(2*math.Pi) + math.Log(rss/float64(n)) + 1),
	}
	for j, name := range d.names {
		se := math.Sqrt(vars[j])
		stat := beta[j] / se
		m.Coefficients = append(m.Coefficients, Coefficient{
			Term:      name,
			Estimate:  beta[j],
			StdErr:    se,
			Statistic: stat,
			PValue:    2 * tdist.Survival(math.Abs(stat)),
		})
	}
	if tss > 0 {
		m.RSquared = 1 - rss/tss
		m.AdjRSquared = 1 - (1-m.RSquared)*float64(n-1)/dfResid
	}
	return m, nil
}
