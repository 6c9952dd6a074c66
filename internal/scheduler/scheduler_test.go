package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/metrics"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/recorder"
)

type fakeSource struct{ err error }

func (f fakeSource) Collect() (*model.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.PriceSeries{Symbol: "TEST"}, nil
}

type fakeRunner struct{ calls int }

func (f *fakeRunner) Run(_ context.Context, series *model.PriceSeries) (*model.Report, error) {
	f.calls++
	return &model.Report{RunID: "run-1", Symbol: series.Symbol, Predictor: "last_value", Test: model.EvaluationMetrics{N: 3, RMSE: 0.5}}, nil
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRunner) Run(_ context.Context, series *model.PriceSeries) (*model.Report, error) {
	close(b.started)
	<-b.release
	return &model.Report{RunID: "run-slow", Symbol: series.Symbol}, nil
}

type fakeRecorder struct{ runs []string }

func (f *fakeRecorder) RecordRun(rep *model.Report) error {
	f.runs = append(f.runs, rep.RunID)
	return nil
}

func (f *fakeRecorder) Close() error { return nil }

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeHistory struct{}

func (fakeHistory) RecentRuns(string, int) ([]recorder.RunSummary, error) {
	return []recorder.RunSummary{{ID: "run-1", Predictor: "last_value", TestRMSE: 0.5}, {ID: "run-0", Predictor: "linear", TestRMSE: 0.7}}, nil
}

func newTestScheduler(src Source) (*Scheduler, *fakeRunner, *fakeRecorder, *fakeSender) {
	runner, rec, sender := &fakeRunner{}, &fakeRecorder{}, &fakeSender{}
	s := NewScheduler(context.Background(), src, runner, rec, zerolog.Nop())
	s.Notifier = sender
	s.Symbol = "TEST"
	return s, runner, rec, sender
}

func TestRunNow(t *testing.T) {
	s, runner, rec, sender := newTestScheduler(fakeSource{})
	s.History = fakeHistory{}
	s.Metrics = metrics.New()
	s.Textfile = filepath.Join(t.TempDir(), "forecaster.prom")

	if s.HandleCommand("/last") != "No forecast has completed yet." {
		t.Error("expected empty /last before the first run")
	}
	rep, err := s.RunNow()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if runner.calls != 1 || len(rec.runs) != 1 || rec.runs[0] != "run-1" {
		t.Errorf("runner calls=%d recorded=%v", runner.calls, rec.runs)
	}
	if s.Last() != rep {
		t.Error("Last() does not return the latest report")
	}
	if len(sender.msgs) != 1 || !strings.Contains(sender.msgs[0], "TEST forecast") {
		t.Errorf("notifications = %v", sender.msgs)
	}
	if _, err := os.Stat(s.Textfile); err != nil {
		t.Errorf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(s.HandleCommand("/last"), "Test RMSE: 0.5000") {
		t.Error("/last does not show the latest report")
	}
	if !strings.Contains(s.HandleCommand("/history"), "linear") {
		t.Error("/history does not list previous runs")
	}
}

func TestRunNow_CollectFailure(t *testing.T) {
	s, runner, _, sender := newTestScheduler(fakeSource{err: model.ErrMissingInput})
	if _, err := s.RunNow(); !errors.Is(err, model.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if runner.calls != 0 {
		t.Error("pipeline ran without input")
	}
	if len(sender.msgs) != 1 || !strings.Contains(sender.msgs[0], "failed") {
		t.Errorf("notifications = %v", sender.msgs)
	}
}

func TestRunNow_Busy(t *testing.T) {
	s, _, _, _ := newTestScheduler(fakeSource{})
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if _, err := s.RunNow(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	s, _, _, _ := newTestScheduler(fakeSource{})
	if err := s.Register("0 30 18 * * 1-5"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register("every weekday"); err == nil {
		t.Error("expected error for invalid spec")
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(s.Cron.Entries()))
	}
}

func TestHandleCommand_Help(t *testing.T) {
	s, _, _, _ := newTestScheduler(fakeSource{})
	if !strings.Contains(s.HandleCommand("hello"), "/run") {
		t.Error("unknown command should list the commands")
	}
	if s.HandleCommand("/history") != "Run history is not enabled." {
		t.Error("/history without a store")
	}
}

func TestStop_WaitsForCommandRun(t *testing.T) {
	s, _, rec, _ := newTestScheduler(fakeSource{})
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	s.Pipeline = runner

	if got := s.HandleCommand("/run"); got != "Forecast started." {
		t.Fatalf("/run replied %q", got)
	}
	<-runner.started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while a run was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}
	if len(rec.runs) != 1 || rec.runs[0] != "run-slow" {
		t.Errorf("recorded runs = %v, want [run-slow]", rec.runs)
	}
}
