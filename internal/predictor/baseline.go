package predictor

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// WindowMean predicts the mean of the target column over the window. It lags
// any trend by half the lookback.
type WindowMean struct {
	Target int
}

func (p *WindowMean) Name() string { return TypeWindowMean }

func (p *WindowMean) Fit(_ context.Context, X [][][]float64, y []float64) (Model, error) {
	s, err := fitBaseline(X, y, p.Target)
	if err != nil {
		return nil, err
	}
	return &baselineModel{shape: s, target: p.Target, reduce: func(col []float64) float64 {
		return stat.Mean(col, nil)
	}}, nil
}

// LastValue is the persistence baseline: tomorrow equals today.
type LastValue struct {
	Target int
}

func (p *LastValue) Name() string { return TypeLastValue }

func (p *LastValue) Fit(_ context.Context, X [][][]float64, y []float64) (Model, error) {
	s, err := fitBaseline(X, y, p.Target)
	if err != nil {
		return nil, err
	}
	return &baselineModel{shape: s, target: p.Target, reduce: func(col []float64) float64 {
		return col[len(col)-1]
	}}, nil
}

func fitBaseline(X [][][]float64, y []float64, target int) (shape, error) {
	s, err := checkWindows(X)
	if err != nil {
		return shape{}, err
	}
	if err := checkTargets(X, y); err != nil {
		return shape{}, err
	}
	if target >= s.features {
		return shape{}, fmt.Errorf("target column %d out of range for %d features", target, s.features)
	}
	return s, nil
}

type baselineModel struct {
	shape
	target int
	reduce func([]float64) float64
}

func (m *baselineModel) Predict(X [][][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	col := make([]float64, m.lookback)
	for i, w := range X {
		if err := m.check(w); err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		for k, row := range w {
			col[k] = row[m.target]
		}
		out[i] = m.reduce(col)
	}
	return out, nil
}
