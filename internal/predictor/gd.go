package predictor

import (
	"context"
	"fmt"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// GDLinear fits the same linear model as Linear by full-batch gradient descent
// on the mean squared error. Inputs are expected in [0,1].
type GDLinear struct {
	LearningRate float64
	Epochs       int
}

func (p *GDLinear) Name() string { return TypeGDLinear }

// Fit returns ctx.Err() if the context is cancelled between epochs.
func (p *GDLinear) Fit(ctx context.Context, X [][][]float64, y []float64) (Model, error) {
	s, err := checkWindows(X)
	if err != nil {
		return nil, err
	}
	if err := checkTargets(X, y); err != nil {
		return nil, err
	}
	n, d := len(X), s.lookback*s.features

	rows := make([][]float64, n)
	for i, w := range X {
		rows[i] = flatten(make([]float64, 0, d), w)
	}

	m := &linearModel{shape: s, weights: make([]float64, d)}
	grad := make([]float64, d)
	for epoch := 0; epoch < p.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, row := range rows {
			diff := m.predictRow(row) - y[i]
			gradBias += diff
			for j, x := range row {
				grad[j] += diff * x
			}
		}
		m.intercept -= p.LearningRate * gradBias / float64(n)
		for j := range m.weights {
			m.weights[j] -= p.LearningRate * grad[j] / float64(n)
		}
		if !model.Defined(m.intercept) {
			return nil, fmt.Errorf("%w: gradient descent diverged at epoch %d, lower the learning rate",
				model.ErrNumericInstability, epoch)
		}
	}
	return m, nil
}
