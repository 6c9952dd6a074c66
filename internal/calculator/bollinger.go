package calculator

import "github.com/reddygautam98/Stock-Price-Prediction/internal/model"

// Bollinger returns the middle, upper and lower bands: the period SMA and the
// SMA plus/minus k sample standard deviations.
func Bollinger(closes []float64, period int, k float64) (mid, upper, lower []float64) {
	mid = SMA(closes, period)
	std := RollingStd(closes, period)
	upper = undefinedSeries(len(closes))
	lower = undefinedSeries(len(closes))
	for t := range closes {
		if !model.Defined(mid[t]) || !model.Defined(std[t]) {
			continue
		}
		upper[t] = mid[t] + k*std[t]
		lower[t] = mid[t] - k*std[t]
	}
	return mid, upper, lower
}
