package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/collector"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/config"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/logger"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/metrics"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/notifier"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/pipeline"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/predictor"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/recorder"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("forecaster failed")
	}
}

func run() error {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logCloser, err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()
	log.Info().Str("config", cfgPath).Msg("forecaster starting")

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	col := collector.NewCollector(fetcher, cfg.Source.Symbol, cfg.Source.Days, log.Logger)

	pred, err := predictor.New(cfg.Predictor.Type, predictor.Options{
		Target:       indexOf(cfg.Dataset.Features, cfg.Dataset.Target),
		Ridge:        cfg.Predictor.Ridge,
		LearningRate: cfg.Predictor.LearningRate,
		Epochs:       cfg.Predictor.Epochs,
	})
	if err != nil {
		return fmt.Errorf("init predictor: %w", err)
	}
	rec := metrics.New()
	pipe, err := pipeline.New(cfg, pred, log.Logger, rec)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	recorders := recorder.Multi{&recorder.FileRecorder{
		Dir:             cfg.Output.Dir,
		ResultsFile:     cfg.Output.ResultsFile,
		PredictionsFile: cfg.Output.PredictionsFile,
		IndicatorsFile:  cfg.Output.IndicatorsFile,
		Log:             log.Logger,
	}}
	var sqlite *recorder.SQLiteRecorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
		sqlite, err = recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, run history disabled")
		} else {
			recorders = append(recorders, sqlite)
		}
	}
	defer recorders.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, pipe, recorders, log.Logger)
	sched.Symbol = cfg.Source.Symbol
	sched.Metrics = rec
	sched.Textfile = cfg.Output.MetricsTextfile
	if sqlite != nil {
		sched.History = sqlite
	}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log.Logger)
		sched.Notifier = tn
	}

	if cfg.Schedule.Cron == "" {
		rep, err := sched.RunNow()
		if err != nil {
			return err
		}
		log.Info().
			Str("run_id", rep.RunID).
			Float64("rmse", rep.Test.RMSE).
			Float64("r2", rep.Test.R2).
			Str("output", cfg.Output.Dir).
			Msg("analysis completed")
		return nil
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, running forecast now")
		sched.RunAsync()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("forecaster is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	return nil
}

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	switch cfg.Source.Type {
	case "csv":
		return collector.NewCSVFetcher(cfg.Source.Path), nil
	case "yahoo":
		f := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.Source.BaseURL != "" {
			f.BaseURL = cfg.Source.BaseURL
		}
		return f, nil
	case "synthetic":
		sc := cfg.Source.Synthetic
		f := collector.NewSyntheticFetcher(sc.Shape, sc.StartPrice, sc.Rows)
		f.Slope = sc.Slope
		f.Volatility = sc.Volatility
		f.Seed = sc.Seed
		return f, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}
