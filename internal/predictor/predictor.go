// Package predictor hides the learning algorithm behind a fit/predict
// contract. Inputs are scaled lookback windows; outputs are scaled targets.
package predictor

import (
	"context"
	"fmt"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Predictor types accepted by New.
const (
	TypeLinear     = "linear"
	TypeWindowMean = "window_mean"
	TypeLastValue  = "last_value"
	TypeGDLinear   = "gd_linear"
)

// Predictor fits a Model on windows X (n x lookback x features) and targets y.
type Predictor interface {
	Name() string
	Fit(ctx context.Context, X [][][]float64, y []float64) (Model, error)
}

// Model is a fitted predictor.
type Model interface {
	Predict(X [][][]float64) ([]float64, error)
}

// Options configures the predictors. Target is the column of the target
// variable inside each window row.
type Options struct {
	Target       int
	Ridge        float64
	LearningRate float64
	Epochs       int
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{Ridge: 1e-6, LearningRate: 0.05, Epochs: 500}
}

// New builds a predictor by type name.
func New(kind string, opts Options) (Predictor, error) {
	if opts.Target < 0 {
		return nil, fmt.Errorf("target column must be non-negative, got %d", opts.Target)
	}
	switch kind {
	case TypeLinear:
		if opts.Ridge < 0 {
			return nil, fmt.Errorf("ridge must be non-negative, got %v", opts.Ridge)
		}
		return &Linear{Ridge: opts.Ridge}, nil
	case TypeWindowMean:
		return &WindowMean{Target: opts.Target}, nil
	case TypeLastValue:
		return &LastValue{Target: opts.Target}, nil
	case TypeGDLinear:
		if opts.LearningRate <= 0 || opts.Epochs <= 0 {
			return nil, fmt.Errorf("gd_linear needs a positive learning rate and epoch count, got %v/%d",
				opts.LearningRate, opts.Epochs)
		}
		return &GDLinear{LearningRate: opts.LearningRate, Epochs: opts.Epochs}, nil
	default:
		return nil, fmt.Errorf("unknown predictor type %q", kind)
	}
}

// shape is the window geometry a model was fitted on.
type shape struct {
	lookback int
	features int
}

// checkWindows validates that every window in X is finite and shares one shape.
func checkWindows(X [][][]float64) (shape, error) {
	if len(X) == 0 || len(X[0]) == 0 || len(X[0][0]) == 0 {
		return shape{}, fmt.Errorf("%w: no training windows", model.ErrInsufficientHistory)
	}
	s := shape{lookback: len(X[0]), features: len(X[0][0])}
	for i, w := range X {
		if err := s.check(w); err != nil {
			return shape{}, fmt.Errorf("window %d: %w", i, err)
		}
	}
	return s, nil
}

func (s shape) check(w [][]float64) error {
	if len(w) != s.lookback {
		return fmt.Errorf("lookback %d, want %d", len(w), s.lookback)
	}
	for _, row := range w {
		if len(row) != s.features {
			return fmt.Errorf("%d features, want %d", len(row), s.features)
		}
		for _, v := range row {
			if !model.Defined(v) {
				return fmt.Errorf("%w: non-finite input %v", model.ErrNumericInstability, v)
			}
		}
	}
	return nil
}

func checkTargets(X [][][]float64, y []float64) error {
	if len(X) != len(y) {
		return fmt.Errorf("%d windows but %d targets", len(X), len(y))
	}
	for i, v := range y {
		if !model.Defined(v) {
			return fmt.Errorf("%w: target %d is %v", model.ErrNumericInstability, i, v)
		}
	}
	return nil
}

// flatten lays a window out row-major into dst.
func flatten(dst []float64, w [][]float64) []float64 {
	dst = dst[:0]
	for _, row := range w {
		dst = append(dst, row...)
	}
	return dst
}
