package predictor

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Linear is ordinary least squares on the flattened window with an intercept.
// The normal equations are solved on centred data with Ridge added to the
// diagonal, which keeps them positive definite when windows outnumber
// samples or a column is constant.
type Linear struct {
	Ridge float64
}

func (p *Linear) Name() string { return TypeLinear }

func (p *Linear) Fit(ctx context.Context, X [][][]float64, y []float64) (Model, error) {
	s, err := checkWindows(X)
	if err != nil {
		return nil, err
	}
	if err := checkTargets(X, y); err != nil {
		return nil, err
	}
	n, d := len(X), s.lookback*s.features

	data := make([]float64, 0, n*d)
	var row []float64
	for _, w := range X {
		row = flatten(row, w)
		data = append(data, row...)
	}
	xs := mat.NewDense(n, d, data)

	means := make([]float64, d)
	for j := 0; j < d; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += xs.At(i, j)
		}
		means[j] = sum / float64(n)
	}
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			xs.Set(i, j, xs.At(i, j)-means[j])
		}
	}
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - yMean
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, xs.T())
	for j := 0; j < d; j++ {
		xtx.SetSym(j, j, xtx.At(j, j)+p.Ridge)
	}
	var xty mat.VecDense
	xty.MulVec(xs.T(), mat.NewVecDense(n, yc))

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, fmt.Errorf("%w: normal equations are not positive definite, raise the ridge term", model.ErrNumericInstability)
	}
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return nil, fmt.Errorf("%w: solve normal equations: %v", model.ErrNumericInstability, err)
	}

	weights := make([]float64, d)
	intercept := yMean
	for j := range weights {
		weights[j] = w.AtVec(j)
		if !model.Defined(weights[j]) {
			return nil, fmt.Errorf("%w: weight %d is %v", model.ErrNumericInstability, j, weights[j])
		}
		intercept -= weights[j] * means[j]
	}
	return &linearModel{shape: s, weights: weights, intercept: intercept}, nil
}

// linearModel is shared by Linear and GDLinear.
type linearModel struct {
	shape
	weights   []float64
	intercept float64
}

func (m *linearModel) Predict(X [][][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	var row []float64
	for i, w := range X {
		if err := m.check(w); err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		row = flatten(row, w)
		out[i] = m.predictRow(row)
	}
	return out, nil
}

func (m *linearModel) predictRow(row []float64) float64 {
	v := m.intercept
	for j, x := range row {
		v += m.weights[j] * x
	}
	return v
}
