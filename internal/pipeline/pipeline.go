// Package pipeline runs one forecasting pass: indicators, feature frame,
// scaling, windowing, splitting, fitting and evaluation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/calculator"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/collector"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/config"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/dataset"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/evaluator"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/metrics"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/predictor"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/scaler"
)

// Scaler fit scopes.
const (
	FitScopeTrain = "train"
	FitScopeFull  = "full"
)

// Pipeline holds the run settings and collaborators. It is safe to Run
// repeatedly; nothing is carried over between runs.
type Pipeline struct {
	windows      calculator.Windows
	features     []string
	target       string
	lookback     int
	testFraction float64
	policy       model.SplitPolicy
	seed         int64
	fitScope     string

	predictor predictor.Predictor
	log       zerolog.Logger
	metrics   *metrics.Recorder
}

// New creates a pipeline from a validated config. rec may be nil.
func New(cfg *config.Config, p predictor.Predictor, log zerolog.Logger, rec *metrics.Recorder) (*Pipeline, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline: predictor is required")
	}
	w := cfg.Windows()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{
		windows:      w,
		features:     append([]string(nil), cfg.Dataset.Features...),
		target:       cfg.Dataset.Target,
		lookback:     cfg.Dataset.Lookback,
		testFraction: cfg.Dataset.TestFraction,
		policy:       model.SplitPolicy(cfg.Dataset.SplitPolicy),
		seed:         cfg.Dataset.Seed,
		fitScope:     cfg.Dataset.ScalerFitScope,
		predictor:    p,
		log:          log.With().Str("component", "pipeline").Logger(),
		metrics:      rec,
	}, nil
}

// Run executes every stage in order on one price series. The first failing
// stage aborts the run; its error wraps one of the model error kinds where one
// applies.
func (p *Pipeline) Run(ctx context.Context, series *model.PriceSeries) (*model.Report, error) {
	rep, err := p.run(ctx, series)
	if err != nil && p.metrics != nil {
		p.metrics.RecordFailure(series.Symbol)
	}
	if err == nil && p.metrics != nil {
		p.metrics.RecordReport(rep)
	}
	return rep, err
}

func (p *Pipeline) run(ctx context.Context, series *model.PriceSeries) (*model.Report, error) {
	rep := &model.Report{
		RunID:       uuid.NewString(),
		Symbol:      series.Symbol,
		Source:      series.Source,
		Predictor:   p.predictor.Name(),
		StartedAt:   time.Now(),
		Lookback:    p.lookback,
		Features:    append([]string(nil), p.features...),
		Target:      p.target,
		SplitPolicy: p.policy,
		FitScope:    p.fitScope,
		Bars:        series.Bars,
	}
	log := p.log.With().Str("run_id", rep.RunID).Str("symbol", series.Symbol).Logger()
	log.Info().
		Int("rows", len(series.Bars)).
		Str("predictor", rep.Predictor).
		Int("lookback", p.lookback).
		Strs("features", p.features).
		Msg("run started")

	if err := collector.Validate(series.Bars); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}

	closes := model.Closes(series.Bars)
	var set *model.IndicatorSet
	if err := p.stage(ctx, log, "indicators", func() (err error) {
		set, err = calculator.Compute(closes, p.windows)
		return err
	}); err != nil {
		return nil, err
	}
	rep.Indicators = set
	rep.Summary = calculator.Summarize(series.Bars)
	rep.Latest = calculator.Latest(closes, set)

	var frame *model.Frame
	if err := p.stage(ctx, log, "frame", func() (err error) {
		frame, rep.DroppedRows, err = dataset.BuildFrame(series.Bars, set, p.features)
		return err
	}); err != nil {
		return nil, err
	}
	rep.Frame = frame
	rep.FrameRows = frame.Len()
	rep.FrameStart = frame.Dates[0]
	rep.FrameEnd = frame.Dates[frame.Len()-1]
	target := frame.Index(p.target)
	if target < 0 {
		return nil, fmt.Errorf("frame: %w: target %q is not a selected feature", model.ErrSchema, p.target)
	}
	if gaps := dataset.InteriorGaps(series.Bars, set, p.features); len(gaps) > 0 {
		cols := make([]string, 0, len(gaps))
		for _, name := range p.features {
			if _, ok := gaps[name]; ok {
				cols = append(cols, name)
			}
		}
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("undefined values after warm-up in %s: %d leading rows dropped",
			strings.Join(cols, ", "), rep.DroppedRows))
		log.Warn().Strs("columns", cols).Int("dropped", rep.DroppedRows).Time("start", rep.FrameStart).
			Msg("undefined indicator values inside the series; earlier history dropped")
	} else if rep.DroppedRows > 0 {
		log.Info().Int("dropped", rep.DroppedRows).Time("start", rep.FrameStart).Msg("leading rows without indicator history dropped")
	}

	rows := frame.Rows()
	var trainIdx, testIdx []int
	if err := p.stage(ctx, log, "partition", func() (err error) {
		n := dataset.Count(len(rows), p.lookback)
		trainIdx, testIdx, err = dataset.Partition(n, p.testFraction, p.policy, p.seed)
		if err != nil {
			err = fmt.Errorf("%d frame rows give %d windows of %d: %w", len(rows), n, p.lookback, err)
		}
		return err
	}); err != nil {
		return nil, err
	}
	if p.policy == model.SplitRandom {
		rep.Warnings = append(rep.Warnings, "random split: overlapping windows share rows between train and test")
		log.Warn().Msg("random split leaks future rows into training")
	}

	var sc *scaler.MinMax
	if err := p.stage(ctx, log, "scale", func() (err error) {
		fitRows := rows
		if p.fitScope == FitScopeFull {
			rep.Warnings = append(rep.Warnings, "scaler fitted on the full series including test rows")
			log.Warn().Msg("scaler fit scope is full; test range leaks into training")
		} else {
			covered := dataset.CoveredRows(trainIdx, p.lookback, len(rows))
			fitRows = make([][]float64, len(covered))
			for i, r := range covered {
				fitRows[i] = rows[r]
			}
		}
		if sc, err = scaler.Fit(fitRows, frame.Names); err != nil {
			return err
		}
		rows, err = sc.Transform(rows)
		return err
	}); err != nil {
		return nil, err
	}
	if rep.Degenerate = sc.Degenerate(); len(rep.Degenerate) > 0 {
		rep.Warnings = append(rep.Warnings, "degenerate columns scaled to 0: "+strings.Join(rep.Degenerate, ", "))
		log.Warn().Strs("columns", rep.Degenerate).Msg("zero-range columns scale to a constant")
	}

	var split *model.SplitDataset
	if err := p.stage(ctx, log, "window", func() error {
		ds, err := dataset.Window(rows, target, p.lookback)
		if err != nil {
			return err
		}
		split = dataset.Apply(ds, trainIdx, testIdx, p.policy)
		return nil
	}); err != nil {
		return nil, err
	}
	rep.TrainSize, rep.TestSize = len(split.Train), len(split.Test)

	xTrain, yTrain := model.XY(split.Train)
	xTest, _ := model.XY(split.Test)
	var fitted predictor.Model
	if err := p.stage(ctx, log, "fit", func() (err error) {
		fitted, err = p.predictor.Fit(ctx, xTrain, yTrain)
		return err
	}); err != nil {
		return nil, err
	}

	targetCol := frame.Columns[p.target]
	if err := p.stage(ctx, log, "evaluate", func() error {
		predTest, err := fitted.Predict(xTest)
		if err != nil {
			return fmt.Errorf("predict test: %w", err)
		}
		actual := actuals(targetCol, split.Test)
		var predicted []float64
		if rep.Test, predicted, err = evaluator.Evaluate(predTest, actual, sc, target); err != nil {
			return fmt.Errorf("test: %w", err)
		}
		rep.Predictions = make([]model.Prediction, len(split.Test))
		for i, s := range split.Test {
			rep.Predictions[i] = model.Prediction{
				Date:      frame.Dates[s.Index],
				Index:     s.Index + rep.DroppedRows,
				Actual:    actual[i],
				Predicted: predicted[i],
			}
		}

		predTrain, err := fitted.Predict(xTrain)
		if err != nil {
			return fmt.Errorf("predict train: %w", err)
		}
		if rep.Train, _, err = evaluator.Evaluate(predTrain, actuals(targetCol, split.Train), sc, target); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	rep.Duration = time.Since(rep.StartedAt)
	log.Info().
		Int("train", rep.TrainSize).
		Int("test", rep.TestSize).
		Float64("rmse", rep.Test.RMSE).
		Float64("r2", rep.Test.R2).
		Float64("train_rmse", rep.Train.RMSE).
		Dur("duration", rep.Duration).
		Msg("run finished")
	return rep, nil
}

// actuals reads the unscaled target value of every sample from the frame.
func actuals(column []float64, samples []model.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = column[s.Index]
	}
	return out
}

// stage runs fn as one named step, timing it and wrapping its error.
func (p *Pipeline) stage(ctx context.Context, log zerolog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if p.metrics != nil {
		p.metrics.ObserveStage(name, elapsed)
	}
	if err != nil {
		log.Error().Err(err).Str("stage", name).Msg("stage failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug().Str("stage", name).Dur("elapsed", elapsed).Msg("stage done")
	return nil
}
