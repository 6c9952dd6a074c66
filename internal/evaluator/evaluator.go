// Package evaluator scores predictions against ground truth in original price
// units.
package evaluator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/scaler"
)

// Evaluate maps scaled predictions back through the target column of sc and
// scores them against actual, which must already be in original units. The
// actuals are never taken from the scaled data: a target column that was
// constant over the fit rows scales to 0 and would inverse to its minimum. It
// returns the metrics and the unscaled predictions. A nil scaler treats pred
// as already unscaled.
func Evaluate(pred, actual []float64, sc *scaler.MinMax, target int) (model.EvaluationMetrics, []float64, error) {
	if len(pred) != len(actual) {
		return model.EvaluationMetrics{}, nil, fmt.Errorf("evaluate: %d predictions for %d actuals", len(pred), len(actual))
	}
	p := pred
	if sc != nil {
		var err error
		if p, err = sc.InverseColumn(target, pred); err != nil {
			return model.EvaluationMetrics{}, nil, err
		}
	}
	m, err := Score(p, actual)
	if err != nil {
		return model.EvaluationMetrics{}, nil, err
	}
	return m, p, nil
}

// Score computes MSE, RMSE, MAE, MAPE and R² of pred against actual.
//
// R² is 1 - SS_res/SS_tot. When actual is constant SS_tot is zero and R² is
// reported as 1 for a perfect fit and 0 otherwise. MAPE is a percentage over
// the non-zero actuals and 0 when there are none.
func Score(pred, actual []float64) (model.EvaluationMetrics, error) {
	if len(pred) != len(actual) {
		return model.EvaluationMetrics{}, fmt.Errorf("score: %d predictions for %d actuals", len(pred), len(actual))
	}
	if len(actual) == 0 {
		return model.EvaluationMetrics{}, fmt.Errorf("%w: nothing to evaluate", model.ErrInsufficientHistory)
	}
	for i := range pred {
		if !model.Defined(pred[i]) || !model.Defined(actual[i]) {
			return model.EvaluationMetrics{}, fmt.Errorf("%w: row %d predicted %v actual %v",
				model.ErrNumericInstability, i, pred[i], actual[i])
		}
	}

	n := float64(len(actual))
	mean := stat.Mean(actual, nil)
	var ssRes, ssTot, absSum, pctSum float64
	var pctN int
	for i, y := range actual {
		e := pred[i] - y
		ssRes += e * e
		ssTot += (y - mean) * (y - mean)
		absSum += math.Abs(e)
		if y != 0 {
			pctSum += math.Abs(e / y)
			pctN++
		}
	}

	m := model.EvaluationMetrics{
		N:    len(actual),
		MSE:  ssRes / n,
		MAE:  absSum / n,
		RMSE: math.Sqrt(ssRes / n),
	}
	if pctN > 0 {
		m.MAPE = 100 * pctSum / float64(pctN)
	}
	switch {
	case ssTot > 0:
		m.R2 = 1 - ssRes/ssTot
	case ssRes == 0:
		m.R2 = 1
	}
	if !model.Defined(m.MSE) {
		return model.EvaluationMetrics{}, fmt.Errorf("%w: mse overflowed", model.ErrNumericInstability)
	}
	return m, nil
}
