// Package dataset turns a price series and its indicators into supervised
// learning samples: feature frame, lookback windows, and train/test splits.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/calculator"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Column names understood by BuildFrame.
const (
	ColOpen     = "Open"
	ColHigh     = "High"
	ColLow      = "Low"
	ColClose    = "Close"
	ColVolume   = "Volume"
	ColRSI      = "RSI"
	ColMACD     = "MACD"
	ColSignal   = "Signal_Line"
	ColBBMiddle = "BB_middle"
	ColBBUpper  = "BB_upper"
	ColBBLower  = "BB_lower"
	maPrefix    = "MA_"
)

// MAColumn returns the column name of the period moving average.
func MAColumn(period int) string { return maPrefix + strconv.Itoa(period) }

// AllColumns returns every raw and indicator column in a stable order. Values
// are not copied and indicator columns keep their undefined rows.
func AllColumns(bars []model.OHLCV, set *model.IndicatorSet) ([]string, map[string][]float64) {
	cols := map[string][]float64{
		ColOpen:   make([]float64, len(bars)),
		ColHigh:   make([]float64, len(bars)),
		ColLow:    make([]float64, len(bars)),
		ColClose:  make([]float64, len(bars)),
		ColVolume: make([]float64, len(bars)),
	}
	for i, b := range bars {
		cols[ColOpen][i] = b.Open
		cols[ColHigh][i] = b.High
		cols[ColLow][i] = b.Low
		cols[ColClose][i] = b.Close
		cols[ColVolume][i] = b.Volume
	}
	names := []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}
	if set == nil {
		return names, cols
	}

	cols[ColRSI] = set.RSI
	cols[ColMACD] = set.MACD
	cols[ColSignal] = set.Signal
	cols[ColBBMiddle] = set.BBMiddle
	cols[ColBBUpper] = set.BBUpper
	cols[ColBBLower] = set.BBLower
	names = append(names, ColRSI, ColMACD, ColSignal, ColBBMiddle, ColBBUpper, ColBBLower)
	for _, p := range calculator.MAPeriods(set) {
		name := MAColumn(p)
		cols[name] = set.MA[p]
		names = append(names, name)
	}
	return names, cols
}

// BuildFrame selects the feature columns and coalesces the start date: rows up
// to the last undefined value of any selected column are dropped, so every
// kept row is defined and the result stays contiguous. It returns the frame
// and the number of dropped leading rows.
func BuildFrame(bars []model.OHLCV, set *model.IndicatorSet, features []string) (*model.Frame, int, error) {
	if len(features) == 0 {
		return nil, 0, fmt.Errorf("%w: no feature columns selected", model.ErrSchema)
	}
	_, all := AllColumns(bars, set)

	start := 0
	seen := make(map[string]bool, len(features))
	selected := make([][]float64, len(features))
	for j, name := range features {
		if seen[name] {
			return nil, 0, fmt.Errorf("%w: duplicate feature column %q", model.ErrSchema, name)
		}
		seen[name] = true
		col, ok := all[name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown feature column %q", model.ErrSchema, name)
		}
		if isRawOptional(name) && allZero(col) {
			return nil, 0, fmt.Errorf("%w: column %q is not present in the input", model.ErrSchema, name)
		}
		for i := len(col) - 1; i >= 0; i-- {
			if !model.Defined(col[i]) {
				if i+1 > start {
					start = i + 1
				}
				break
			}
		}
		selected[j] = col
	}
	if start >= len(bars) {
		return nil, 0, fmt.Errorf("%w: %d rows, none defined for features %s",
			model.ErrInsufficientHistory, len(bars), strings.Join(features, ","))
	}

	frame := &model.Frame{
		Dates:   make([]time.Time, len(bars)-start),
		Names:   append([]string(nil), features...),
		Columns: make(map[string][]float64, len(features)),
	}
	for i := range frame.Dates {
		frame.Dates[i] = bars[start+i].Time
	}
	for j, name := range features {
		frame.Columns[name] = append([]float64(nil), selected[j][start:]...)
	}
	return frame, start, nil
}

// InteriorGaps returns, for each selected column with undefined values after
// its warm-up prefix, the index of its last undefined row. Coalescing drops
// every row up to that index, so such a gap discards history that was
// otherwise usable. Unknown columns are ignored.
func InteriorGaps(bars []model.OHLCV, set *model.IndicatorSet, features []string) map[string]int {
	_, all := AllColumns(bars, set)
	gaps := make(map[string]int)
	for _, name := range features {
		col, ok := all[name]
		if !ok {
			continue
		}
		first := model.FirstDefined(col)
		if first < 0 {
			continue
		}
		for i := len(col) - 1; i > first; i-- {
			if !model.Defined(col[i]) {
				gaps[name] = i
				break
			}
		}
	}
	return gaps
}

func isRawOptional(name string) bool {
	switch name {
	case ColOpen, ColHigh, ColLow, ColVolume:
		return true
	}
	return false
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
