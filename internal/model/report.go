package model

import "time"

// EvaluationMetrics holds error statistics in original price units.
type EvaluationMetrics struct {
	N    int
	MSE  float64
	RMSE float64
	MAE  float64
	MAPE float64 // percent
	R2   float64
}

// Prediction pairs an actual and predicted price for one test row.
type Prediction struct {
	Date      time.Time
	Index     int
	Actual    float64
	Predicted float64
}

// Summary holds descriptive statistics of the raw series.
type Summary struct {
	Rows                   int
	FirstDate              time.Time
	LastDate               time.Time
	LastClose              float64
	AvgDailyReturn         float64 // percent
	StdDailyReturn         float64 // percent, population
	MaxDrawdownPct         float64
	VolumePriceCorrelation float64 // 0 when volume is absent or constant
	RangeHigh              float64
	RangeLow               float64
	RangePosition          float64 // 0.0 ~ 1.0
}

// LatestIndicators is a snapshot of the last defined indicator values.
type LatestIndicators struct {
	RSI      float64
	MACD     float64
	Signal   float64
	BBMiddle float64
	BBUpper  float64
	BBLower  float64
	MA       map[int]float64
}

// Report is the full outcome of one pipeline run.
type Report struct {
	RunID       string
	Symbol      string
	Source      string
	Predictor   string
	StartedAt   time.Time
	Duration    time.Duration
	Lookback    int
	Features    []string
	Target      string
	SplitPolicy SplitPolicy
	FitScope    string
	FrameStart  time.Time
	FrameEnd    time.Time
	FrameRows   int
	DroppedRows int
	TrainSize   int
	TestSize    int
	Degenerate  []string
	Warnings    []string
	Test        EvaluationMetrics
	Train       EvaluationMetrics
	Summary     Summary
	Latest      LatestIndicators
	Predictions []Prediction
	Frame       *Frame
	Indicators  *IndicatorSet
	Bars        []OHLCV
}
