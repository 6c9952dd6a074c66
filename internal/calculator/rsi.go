package calculator

import "github.com/reddygautam98/Stock-Price-Prediction/internal/model"

// RSI computes the relative strength index for every index using simple
// rolling means of gains and losses over the trailing period deltas.
//
// The first period rows are undefined. A window with losses of zero saturates
// to 100 when any gain was observed; a window with neither gains nor losses is
// undefined.
func RSI(closes []float64, period int) []float64 {
	out := undefinedSeries(len(closes))
	if period <= 0 {
		return out
	}
	for t := period; t < len(closes); t++ {
		var gain, loss float64
		for i := t - period + 1; i <= t; i++ {
			change := closes[i] - closes[i-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		gain /= float64(period)
		loss /= float64(period)

		switch {
		case loss == 0 && gain == 0:
			continue
		case loss == 0:
			out[t] = 100.0
		default:
			rs := gain / loss
			out[t] = clamp(100.0-100.0/(1.0+rs), 0, 100)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LastDefined returns the last defined value of a series and whether one exists.
func LastDefined(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if model.Defined(values[i]) {
			return values[i], true
		}
	}
	return 0, false
}
