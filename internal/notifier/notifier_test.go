package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

func TestFormatReport(t *testing.T) {
	rep := &model.Report{
		Symbol:    "A&B",
		Predictor: "linear",
		Lookback:  60,
		Features:  []string{"Close", "RSI"},
		StartedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Test:      model.EvaluationMetrics{N: 36, RMSE: 1.23456, R2: 0.9},
		Latest:    model.LatestIndicators{RSI: 55.5, MA: map[int]float64{200: 98, 50: 101}},
		Warnings:  []string{"degenerate columns scaled to 0: Volume"},
		Predictions: []model.Prediction{
			{Date: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), Actual: 101.5, Predicted: 100.75},
		},
	}
	msg := FormatReport(rep)
	for _, want := range []string{"A&amp;B forecast", "RSI: 55.5", "Test RMSE: 1.2346", "Close, RSI", "predicted 100.75", "⚠️ degenerate"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
	if strings.Index(msg, "MA50") > strings.Index(msg, "MA200") {
		t.Error("moving averages not in period order")
	}
}

func TestFormatFailure_Escapes(t *testing.T) {
	msg := FormatFailure("X", errors.New("column <Close> missing"))
	if !strings.Contains(msg, "&lt;Close&gt;") {
		t.Errorf("error text not escaped: %s", msg)
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL
	if err := tn.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "flood", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hello", 2); err != nil {
		t.Fatalf("send with retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestTelegramNotifier_SendWithRetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hello", 0); err == nil || !strings.Contains(err.Error(), "retries exhausted") {
		t.Fatalf("expected exhausted error, got %v", err)
	}
}

func TestTelegramNotifier_Polling(t *testing.T) {
	var sent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if r.URL.Query().Get("offset") == "0" {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":"/last","chat":{"id":99}}},
					{"update_id":8,"message":{"text":" /help ","chat":{"id":42}}}]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			sent.Store(body["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	var commands []string
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(cmd string) string {
			commands = append(commands, cmd)
			cancel()
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("polling did not stop")
	}
	if len(commands) != 1 || commands[0] != "/help" {
		t.Errorf("commands = %v, want [/help]", commands)
	}
}
