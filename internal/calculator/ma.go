package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// SMA returns the trailing simple moving average for every index. Rows before
// the window is filled are undefined.
func SMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	for t := period - 1; t < len(values); t++ {
		out[t] = stat.Mean(values[t-period+1:t+1], nil)
	}
	return out
}

// RollingStd returns the trailing sample (n-1) standard deviation for every
// index. Undefined until the window is filled; period 1 is undefined throughout.
func RollingStd(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 1 {
		return out
	}
	for t := period - 1; t < len(values); t++ {
		out[t] = stat.StdDev(values[t-period+1:t+1], nil)
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1), seeded by
// the first value without bias adjustment. Every index is defined.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if span <= 0 {
		return undefinedSeries(len(values))
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for t := 1; t < len(values); t++ {
		out[t] = alpha*values[t] + (1-alpha)*out[t-1]
	}
	return out
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = model.Undefined()
	}
	return out
}
