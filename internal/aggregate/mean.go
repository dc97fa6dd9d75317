// Package aggregate computes survey-weighted statistics over a harmonized
// table, optionally grouped by time and categorical keys.
package aggregate

import (
	"fmt"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// WeightedMean returns Σ(value·weight)/Σ(weight) over the rows where both
// the value and the weight are present.
func WeightedMean(t *frame.Table, valueCol, weightCol string) (float64, error) {
	vc, wc, err := numericPair(t, valueCol, weightCol)
	if err != nil {
		return 0, err
	}
	idx := make([]int, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		idx = append(idx, i)
	}
	m, _, _, err := weightedMean(vc, wc, idx)
	return m, err
}

func numericPair(t *frame.Table, valueCol, weightCol string) (*frame.Column, *frame.Column, error) {
	vc, err := t.Column(valueCol)
	if err != nil {
		return nil, nil, err
	}
	wc, err := t.Column(weightCol)
	if err != nil {
		return nil, nil, err
	}
	if vc.Type() == frame.Text {
		return nil, nil, fmt.Errorf("column %s is text; a weighted mean needs a numeric column", valueCol)
	}
	if wc.Type() == frame.Text {
		return nil, nil, fmt.Errorf("weight column %s is text", weightCol)
	}
	return vc, wc, nil
}

// weightedMean restricted to the rows in idx with both values present.
// It returns the mean, the number of rows used, and the weight total.
func weightedMean(vc, wc *frame.Column, idx []int) (float64, int, float64, error) {
	var num, den float64
	n := 0
	for _, i := range idx {
		v, okv := vc.At(i).Float()
		w, okw := wc.At(i).Float()
		if !okv || !okw {
			continue
		}
		num += v * w
		den += w
		n++
	}
	if n == 0 {
		return 0, 0, 0, &frame.MissingDataError{Column: vc.Name(), Reason: "no rows with both value and weight present"}
	}
	if den == 0 {
		return 0, n, 0, &frame.MissingDataError{Column: vc.Name(), Reason: fmt.Sprintf("total weight of %d usable rows is zero", n)}
	}
	return num / den, n, den, nil
}
