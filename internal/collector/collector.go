package collector

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Collector loads a validated daily price series from a Fetcher.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Days    int
	Log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, days int, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Days: days, Log: log}
}

// Collect fetches bars and checks the input contract.
func (c *Collector) Collect() (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(c.Symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if err := Validate(bars); err != nil {
		return nil, fmt.Errorf("validate %s bars: %w", c.Fetcher.Name(), err)
	}

	c.Log.Info().
		Str("source", c.Fetcher.Name()).
		Str("symbol", c.Symbol).
		Int("rows", len(bars)).
		Time("first", bars[0].Time).
		Time("last", bars[len(bars)-1].Time).
		Msg("price series loaded")

	return &model.PriceSeries{
		Symbol:    c.Symbol,
		Source:    c.Fetcher.Name(),
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
