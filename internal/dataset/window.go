package dataset

import (
	"fmt"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Window slices rows (T x F) into overlapping lookback windows. Sample k holds
// rows [k, k+lookback) and targets rows[k+lookback][target], so there are
// max(T-lookback, 0) samples in source order. Values are copied.
func Window(rows [][]float64, target, lookback int) (*model.WindowedDataset, error) {
	if lookback < 1 {
		return nil, fmt.Errorf("lookback must be at least 1, got %d", lookback)
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	if len(rows) > 0 && (target < 0 || target >= width) {
		return nil, fmt.Errorf("target column %d out of range [0,%d)", target, width)
	}

	ds := &model.WindowedDataset{Lookback: lookback, Features: width}
	if len(rows) <= lookback {
		return ds, nil
	}
	ds.Samples = make([]model.Sample, 0, len(rows)-lookback)
	for i := lookback; i < len(rows); i++ {
		window := make([][]float64, lookback)
		for k := range window {
			src := rows[i-lookback+k]
			if len(src) != width {
				return nil, fmt.Errorf("row %d has %d columns, want %d", i-lookback+k, len(src), width)
			}
			window[k] = append([]float64(nil), src...)
		}
		ds.Samples = append(ds.Samples, model.Sample{
			Index:  i,
			Window: window,
			Target: rows[i][target],
		})
	}
	return ds, nil
}

// Count returns the number of windows Window yields for T rows.
func Count(rows, lookback int) int {
	if lookback < 1 || rows <= lookback {
		return 0
	}
	return rows - lookback
}

// CoveredRows returns, in ascending order, every source row read by the given
// samples: their windows and their target rows.
func CoveredRows(samples []int, lookback, rows int) []int {
	covered := make([]bool, rows)
	for _, k := range samples {
		for r := k; r <= k+lookback && r < rows; r++ {
			covered[r] = true
		}
	}
	var out []int
	for r, ok := range covered {
		if ok {
			out = append(out, r)
		}
	}
	return out
}
