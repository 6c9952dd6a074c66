package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// TradingDaysPerYear is the range lookback used for the summary high/low.
const TradingDaysPerYear = 252

// DailyReturns returns percentage close-to-close returns (len(closes)-1 values).
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]/prev-1)*100)
	}
	return out
}

// MaxDrawdown returns the largest peak-to-trough decline in percent.
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	maxDD := 0.0
	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - c) / peak * 100; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Summarize computes descriptive statistics of the raw series.
func Summarize(bars []model.OHLCV) model.Summary {
	s := model.Summary{Rows: len(bars)}
	if len(bars) == 0 {
		return s
	}
	closes := model.Closes(bars)
	s.FirstDate = bars[0].Time
	s.LastDate = bars[len(bars)-1].Time
	s.LastClose = closes[len(closes)-1]

	if returns := DailyReturns(closes); len(returns) > 0 {
		mean, variance := stat.MeanVariance(returns, nil)
		s.AvgDailyReturn = mean
		if n := float64(len(returns)); n > 1 && model.Defined(variance) {
			s.StdDailyReturn = math.Sqrt(variance * (n - 1) / n)
		}
	}
	s.MaxDrawdownPct = MaxDrawdown(closes)

	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	if len(bars) > 1 {
		if corr := stat.Correlation(volumes, closes, nil); model.Defined(corr) {
			s.VolumePriceCorrelation = corr
		}
	}

	if high, low, err := CalculateRange(bars, TradingDaysPerYear); err == nil {
		s.RangeHigh, s.RangeLow = high, low
		if pos, err := CalculatePosition(s.LastClose, high, low); err == nil {
			s.RangePosition = pos
		}
	}
	return s
}
