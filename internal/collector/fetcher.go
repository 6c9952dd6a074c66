package collector

import "github.com/reddygautam98/Stock-Price-Prediction/internal/model"

// Fetcher defines the interface for loading daily bars.
type Fetcher interface {
	// FetchDailyBars returns up to days bars in ascending time order.
	// days <= 0 means the full history the source holds.
	FetchDailyBars(symbol string, days int) ([]model.OHLCV, error)
	Name() string
}
