package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/metrics"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/notifier"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/recorder"
)

// ErrBusy is returned by RunNow while another run is in progress.
var ErrBusy = errors.New("a forecast run is already in progress")

// Source loads the price series for one run.
type Source interface {
	Collect() (*model.PriceSeries, error)
}

// Runner executes the forecasting pipeline.
type Runner interface {
	Run(ctx context.Context, series *model.PriceSeries) (*model.Report, error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// History lists previous runs.
type History interface {
	RecentRuns(symbol string, limit int) ([]recorder.RunSummary, error)
}

// Scheduler runs the forecast job once or on a cron schedule and serves chat
// commands against the latest result.
type Scheduler struct {
	Cron     *cron.Cron
	Source   Source
	Pipeline Runner
	Recorder recorder.Recorder
	Notifier Sender // nil disables notifications
	History  History
	Metrics  *metrics.Recorder
	Textfile string // Prometheus textfile path, empty to skip
	Symbol   string
	Log      zerolog.Logger
	Ctx      context.Context

	runMu sync.Mutex
	wg    sync.WaitGroup // runs started outside cron
	mu    sync.Mutex
	last  *model.Report
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, src Source, p Runner, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	cl := cronLogger{log}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Source:   src,
		Pipeline: p,
		Recorder: rec,
		Log:      log.With().Str("component", "scheduler").Logger(),
		Ctx:      ctx,
	}
}

// Register schedules the forecast job on a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scheduledRun); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs to finish, those
// started by RunAsync included.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	s.Log.Info().Msg("scheduler stopped")
}

// RunAsync starts RunNow in the background. Stop waits for it.
func (s *Scheduler) RunAsync() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err := s.RunNow()
		switch {
		case errors.Is(err, ErrBusy):
			s.trySend(ErrBusy.Error())
		case err != nil:
			s.Log.Error().Err(err).Msg("forecast failed")
		}
	}()
}

func (s *Scheduler) scheduledRun() {
	if _, err := s.RunNow(); err != nil && !errors.Is(err, ErrBusy) {
		s.Log.Error().Err(err).Msg("scheduled forecast failed")
	}
}

// RunNow collects the series, runs the pipeline, records and announces the
// result. Failures are announced too.
func (s *Scheduler) RunNow() (*model.Report, error) {
	if !s.runMu.TryLock() {
		return nil, ErrBusy
	}
	defer s.runMu.Unlock()

	rep, err := s.run()
	s.writeTextfile()
	if err != nil {
		s.trySend(notifier.FormatFailure(s.Symbol, err))
		return nil, err
	}

	s.mu.Lock()
	s.last = rep
	s.mu.Unlock()

	s.trySend(notifier.FormatReport(rep))
	return rep, nil
}

func (s *Scheduler) run() (*model.Report, error) {
	series, err := s.Source.Collect()
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.RecordFailure(s.Symbol)
		}
		return nil, fmt.Errorf("collect: %w", err)
	}
	rep, err := s.Pipeline.Run(s.Ctx, series)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := s.Recorder.RecordRun(rep); err != nil {
		// the report is still valid; keep it and surface the storage problem
		s.Log.Error().Err(err).Str("run_id", rep.RunID).Msg("record run")
	}
	s.logComparison(rep)
	return rep, nil
}

func (s *Scheduler) logComparison(rep *model.Report) {
	if s.History == nil {
		return
	}
	runs, err := s.History.RecentRuns(rep.Symbol, 2)
	if err != nil {
		s.Log.Warn().Err(err).Msg("read run history")
		return
	}
	for _, r := range runs {
		if r.ID == rep.RunID {
			continue
		}
		s.Log.Info().
			Str("previous_run", r.ID).
			Float64("previous_rmse", r.TestRMSE).
			Float64("rmse", rep.Test.RMSE).
			Msg("compared with previous run")
		return
	}
}

// Last returns the most recent successful report, or nil.
func (s *Scheduler) Last() *model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		s.RunAsync()
		return "Forecast started."
	case "/last":
		if rep := s.Last(); rep != nil {
			return notifier.FormatReport(rep)
		}
		return "No forecast has completed yet."
	case "/history":
		if s.History == nil {
			return "Run history is not enabled."
		}
		runs, err := s.History.RecentRuns(s.Symbol, 5)
		if err != nil {
			return notifier.FormatFailure(s.Symbol, err)
		}
		return notifier.FormatHistory(s.Symbol, runs)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) writeTextfile() {
	if s.Metrics == nil || s.Textfile == "" {
		return
	}
	if err := s.Metrics.WriteTextfile(s.Textfile); err != nil {
		s.Log.Error().Err(err).Str("path", s.Textfile).Msg("write metrics textfile")
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
