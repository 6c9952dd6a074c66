package calculator

import (
	"fmt"
	"sort"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Windows holds the indicator window sizes.
type Windows struct {
	RSI             int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerPeriod int
	BollingerK      float64
	MAPeriods       []int
}

// DefaultWindows returns the conventional 14/12/26/9/20/50/200 settings.
func DefaultWindows() Windows {
	return Windows{
		RSI:             14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerK:      2,
		MAPeriods:       []int{50, 200},
	}
}

// Validate checks that every window is usable.
func (w Windows) Validate() error {
	if w.RSI <= 0 {
		return fmt.Errorf("rsi period must be positive, got %d", w.RSI)
	}
	if w.MACDFast <= 0 || w.MACDSlow <= 0 || w.MACDSignal <= 0 {
		return fmt.Errorf("macd spans must be positive, got %d/%d/%d", w.MACDFast, w.MACDSlow, w.MACDSignal)
	}
	if w.MACDFast >= w.MACDSlow {
		return fmt.Errorf("macd fast span %d must be below slow span %d", w.MACDFast, w.MACDSlow)
	}
	if w.BollingerPeriod < 2 {
		return fmt.Errorf("bollinger period must be at least 2, got %d", w.BollingerPeriod)
	}
	if w.BollingerK <= 0 {
		return fmt.Errorf("bollinger k must be positive, got %v", w.BollingerK)
	}
	for _, p := range w.MAPeriods {
		if p <= 0 {
			return fmt.Errorf("moving average period must be positive, got %d", p)
		}
	}
	return nil
}

// Largest returns the longest history any indicator needs before it is defined.
func (w Windows) Largest() int {
	largest := w.RSI + 1
	if n := w.MACDSlow + w.MACDSignal - 1; n > largest {
		largest = n
	}
	if w.BollingerPeriod > largest {
		largest = w.BollingerPeriod
	}
	for _, p := range w.MAPeriods {
		if p > largest {
			largest = p
		}
	}
	return largest
}

// Compute derives every indicator column from the close series. The input is
// not modified.
func Compute(closes []float64, w Windows) (*model.IndicatorSet, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	set := &model.IndicatorSet{
		RSI: RSI(closes, w.RSI),
		MA:  make(map[int][]float64, len(w.MAPeriods)),
	}
	set.MACD, set.Signal, set.EMAFast, set.EMASlow = MACD(closes, w.MACDFast, w.MACDSlow, w.MACDSignal)
	set.BBMiddle, set.BBUpper, set.BBLower = Bollinger(closes, w.BollingerPeriod, w.BollingerK)
	for _, p := range w.MAPeriods {
		set.MA[p] = SMA(closes, p)
	}
	return set, nil
}

// Latest returns the last defined value of each indicator. Moving averages
// are taken over the trailing closes and are absent when the series is shorter
// than the period. Missing values stay 0.
func Latest(closes []float64, set *model.IndicatorSet) model.LatestIndicators {
	var li model.LatestIndicators
	if set == nil {
		return li
	}
	li.RSI, _ = LastDefined(set.RSI)
	li.MACD, _ = LastDefined(set.MACD)
	li.Signal, _ = LastDefined(set.Signal)
	li.BBMiddle, _ = LastDefined(set.BBMiddle)
	li.BBUpper, _ = LastDefined(set.BBUpper)
	li.BBLower, _ = LastDefined(set.BBLower)
	li.MA = make(map[int]float64, len(set.MA))
	for p := range set.MA {
		if v, err := CalculateSMA(closes, p); err == nil {
			li.MA[p] = v
		}
	}
	return li
}

// MAPeriods returns the moving average periods of a set in ascending order.
func MAPeriods(set *model.IndicatorSet) []int {
	periods := make([]int, 0, len(set.MA))
	for p := range set.MA {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	return periods
}
