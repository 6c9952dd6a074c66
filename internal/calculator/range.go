package calculator

import (
	"errors"
	"math"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// CalculateRange scans the most recent lookback bars and returns the high and
// low. Bars without High/Low fall back to the close.
func CalculateRange(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if lookback <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	n := len(bars)
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		h, l := bars[i].High, bars[i].Low
		if h == 0 {
			h = bars[i].Close
		}
		if l == 0 {
			l = bars[i].Close
		}
		if h > high {
			high = h
		}
		if l < low {
			low = l
		}
	}
	return high, low, nil
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	return clamp((current-low)/(high-low), 0, 1), nil
}
