package collector

import (
	"fmt"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Validate enforces the input contract: at least one bar, strictly increasing
// timestamps without duplicates, and a positive finite close on every bar.
func Validate(bars []model.OHLCV) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: no rows", model.ErrSchema)
	}
	for i, b := range bars {
		if b.Time.IsZero() {
			return fmt.Errorf("%w: row %d has no date", model.ErrSchema, i)
		}
		if !model.Defined(b.Close) || b.Close <= 0 {
			return fmt.Errorf("%w: row %d (%s) close %v is not a positive number",
				model.ErrSchema, i, b.Time.Format("2006-01-02"), b.Close)
		}
		if i == 0 {
			continue
		}
		prev := bars[i-1].Time
		if b.Time.Equal(prev) {
			return fmt.Errorf("%w: duplicate date %s at row %d", model.ErrSchema, b.Time.Format("2006-01-02"), i)
		}
		if b.Time.Before(prev) {
			return fmt.Errorf("%w: date %s at row %d is before %s",
				model.ErrSchema, b.Time.Format("2006-01-02"), i, prev.Format("2006-01-02"))
		}
	}
	return nil
}

func trimToLast(bars []model.OHLCV, days int) []model.OHLCV {
	if days > 0 && len(bars) > days {
		return bars[len(bars)-days:]
	}
	return bars
}
