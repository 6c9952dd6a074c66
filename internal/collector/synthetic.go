package collector

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Synthetic series shapes.
const (
	ShapeLinear     = "linear"
	ShapeFlat       = "flat"
	ShapeRandomWalk = "random_walk"
)

// SyntheticFetcher generates deterministic bars for development and testing.
type SyntheticFetcher struct {
	Shape      string
	StartPrice float64
	Slope      float64 // per bar, linear shape only
	Volatility float64 // per-bar relative step, random_walk only
	Seed       int64
	StartDate  time.Time
	Rows       int // used when FetchDailyBars is called with days <= 0
}

// NewSyntheticFetcher creates a generator for the given shape.
func NewSyntheticFetcher(shape string, startPrice float64, rows int) *SyntheticFetcher {
	return &SyntheticFetcher{
		Shape:      shape,
		StartPrice: startPrice,
		Slope:      1,
		Volatility: 0.02,
		Seed:       42,
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Rows:       rows,
	}
}

func (m *SyntheticFetcher) Name() string { return "synthetic" }

func (m *SyntheticFetcher) FetchDailyBars(_ string, days int) ([]model.OHLCV, error) {
	count := days
	if count <= 0 {
		count = m.Rows
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: synthetic source has no row count", model.ErrMissingInput)
	}

	closes := make([]float64, count)
	switch m.Shape {
	case ShapeLinear:
		for i := range closes {
			closes[i] = m.StartPrice + m.Slope*float64(i)
		}
	case ShapeFlat:
		for i := range closes {
			closes[i] = m.StartPrice
		}
	case ShapeRandomWalk:
		rng := rand.New(rand.NewSource(m.Seed))
		p := m.StartPrice
		for i := range closes {
			if i > 0 {
				p *= 1 + (rng.Float64()*2-1)*m.Volatility
			}
			closes[i] = p
		}
	default:
		return nil, fmt.Errorf("unknown synthetic shape %q", m.Shape)
	}

	bars := make([]model.OHLCV, count)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   m.StartDate.AddDate(0, 0, i),
			Open:   c * 0.999,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars, nil
}
