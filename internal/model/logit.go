package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

const probFloor = 1e-10

// fitLogit maximizes the binomial likelihood by iteratively reweighted least
// squares. y must be coded 0/1. Convergence is declared when the relative
// change in deviance drops below tol.
func fitLogit(d *design, y []float64, maxIter int, tol float64) (*FittedModel, error) {
	n, p := d.rows, d.cols
	if n <= p {
		return nil, &frame.ConvergenceError{Reason: "fewer rows than terms"}
	}
	beta := make([]float64, p)
	mu := make([]float64, n)
	w := make([]float64, n)
	z := make([]float64, n)

	deviance := func(beta []float64) float64 {
		var dev float64
		for i := 0; i < n; i++ {
			mu[i] = logistic(linear(d, i, beta))
			dev += bernoulliDeviance(y[i], mu[i])
		}
		return dev
	}

	dev := deviance(beta)
	change := math.Inf(1)
	iter := 0
	converged := false
	for iter < maxIter {
		iter++
		for i := 0; i < n; i++ {
			eta := linear(d, i, beta)
			w[i] = mu[i] * (1 - mu[i])
			z[i] = eta + (y[i]-mu[i])/w[i]
		}
		ch, rhs, err := normalEquations(d, w, z)
		if err != nil {
			if errors.Is(err, errSingular) {
				return nil, &frame.ConvergenceError{Iterations: iter, Reason: "singular information matrix"}
			}
			return nil, err
		}
		next, err := solve(ch, rhs)
		if err != nil {
			return nil, &frame.ConvergenceError{Iterations: iter, Reason: err.Error()}
		}
		for _, b := range next {
			if math.IsNaN(b) || math.IsInf(b, 0) {
				return nil, &frame.ConvergenceError{Iterations: iter, Reason: "coefficients diverged"}
			}
		}
		beta = next
		nd := deviance(beta)
		change = math.Abs(nd-dev) / (math.Abs(nd) + 0.1)
		dev = nd
		if change < tol {
			converged = true
			break
		}
	}
	if !converged {
		return nil, &frame.ConvergenceError{Iterations: iter, Change: change}
	}
	// separated data: the deviance flattens at the clamp while beta grows
	for i := 0; i < n; i++ {
		if mu[i] <= probFloor || mu[i] >= 1-probFloor {
			return nil, &frame.ConvergenceError{Iterations: iter, Reason: "perfect separation: fitted probabilities of 0 or 1"}
		}
	}

	// final information matrix at the converged estimate
	for i := 0; i < n; i++ {
		w[i] = mu[i] * (1 - mu[i])
		z[i] = 0
	}
	ch, _, err := normalEquations(d, w, z)
	if err != nil {
		return nil, &frame.ConvergenceError{Iterations: iter, Reason: "singular information matrix"}
	}
	vars, err := covariance(ch, 1)
	if err != nil {
		return nil, &frame.ConvergenceError{Iterations: iter, Reason: err.Error()}
	}

	var ybar float64
	for _, v := range y {
		ybar += v
	}
	ybar /= float64(n)
	ll := -dev / 2
	ll0 := float64(n) * (xlogx(ybar) + xlogx(1-ybar))

	m := &FittedModel{
		Family:        Logit,
		Observations:  n,
		Iterations:    iter,
		Converged:     true,
		LogLikelihood: ll,
	}
	if ll0 != 0 {
		m.RSquared = 1 - ll/ll0
	}
	for j, name := range d.names {
		se := math.Sqrt(vars[j])
		stat := beta[j] / se
		m.Coefficients = append(m.Coefficients, Coefficient{
			Term:      name,
			Estimate:  beta[j],
			StdErr:    se,
			Statistic: stat,
			PValue:    2 * distuv.UnitNormal.Survival(math.Abs(stat)),
		})
	}
	return m, nil
}

func linear(d *design, i int, beta []float64) float64 {
	var eta float64
	for j, b := range beta {
		eta += d.at(i, j) * b
	}
	return eta
}

func logistic(eta float64) float64 {
	p := 1 / (1 + math.Exp(-eta))
	return math.Min(math.Max(p, probFloor), 1-probFloor)
}

func bernoulliDeviance(y, mu float64) float64 {
	if y == 1 {
		return -2 * math.Log(mu)
	}
	return -2 * math.Log(1-mu)
}

func xlogx(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return x * math.Log(x)
}
