package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// SQLiteRecorder keeps the run history in a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			started_at   INTEGER NOT NULL,
			duration_ms  INTEGER,
			symbol       TEXT,
			source       TEXT,
			predictor    TEXT,
			lookback     INTEGER,
			features     TEXT,
			target       TEXT,
			split_policy TEXT,
			fit_scope    TEXT,
			frame_start  INTEGER,
			frame_end    INTEGER,
			frame_rows   INTEGER,
			dropped_rows INTEGER,
			train_size   INTEGER,
			test_size    INTEGER,
			last_close   REAL,
			warnings     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON runs(symbol, started_at)`,

		`CREATE TABLE IF NOT EXISTS run_metrics (
			run_id    TEXT NOT NULL REFERENCES runs(id),
			subset    TEXT NOT NULL,
			name      TEXT NOT NULL,
			value     REAL,
			PRIMARY KEY (run_id, subset, name)
		)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			run_id    TEXT NOT NULL REFERENCES runs(id),
			date      INTEGER NOT NULL,
			row_index INTEGER,
			actual    REAL,
			predicted REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions(run_id)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun stores the run, its metrics and its test predictions in one
// transaction.
func (r *SQLiteRecorder) RecordRun(rep *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, started_at, duration_ms, symbol, source, predictor, lookback, features, target,
		 split_policy, fit_scope, frame_start, frame_end, frame_rows, dropped_rows,
		 train_size, test_size, last_close, warnings)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rep.RunID, rep.StartedAt.Unix(), rep.Duration.Milliseconds(),
		rep.Symbol, rep.Source, rep.Predictor, rep.Lookback,
		strings.Join(rep.Features, ","), rep.Target,
		string(rep.SplitPolicy), rep.FitScope,
		rep.FrameStart.Unix(), rep.FrameEnd.Unix(), rep.FrameRows, rep.DroppedRows,
		rep.TrainSize, rep.TestSize, rep.Summary.LastClose,
		strings.Join(rep.Warnings, "; "),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	metricStmt, err := tx.Prepare(`INSERT INTO run_metrics (run_id, subset, name, value) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare metrics: %w", err)
	}
	defer metricStmt.Close()
	for _, part := range []struct {
		name string
		m    model.EvaluationMetrics
	}{{"test", rep.Test}, {"train", rep.Train}} {
		for _, kv := range metricValues(part.m) {
			if _, err := metricStmt.Exec(rep.RunID, part.name, kv.name, kv.value); err != nil {
				return fmt.Errorf("insert metric %s/%s: %w", part.name, kv.name, err)
			}
		}
	}

	predStmt, err := tx.Prepare(`INSERT INTO predictions (run_id, date, row_index, actual, predicted) VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare predictions: %w", err)
	}
	defer predStmt.Close()
	for _, p := range rep.Predictions {
		if _, err := predStmt.Exec(rep.RunID, p.Date.Unix(), p.Index, p.Actual, p.Predicted); err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Str("run_id", rep.RunID).Int("predictions", len(rep.Predictions)).Msg("run recorded")
	return nil
}

// RunSummary is one row of the run history.
type RunSummary struct {
	ID        string
	StartedAt int64
	Predictor string
	TestRMSE  float64
}

// RecentRuns returns the latest runs for symbol, newest first.
func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT r.id, r.started_at, r.predictor, COALESCE(m.value, 0)
		FROM runs r
		LEFT JOIN run_metrics m ON m.run_id = r.id AND m.subset = 'test' AND m.name = 'rmse'
		WHERE r.symbol = ?
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.StartedAt, &s.Predictor, &s.TestRMSE); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

type metricValue struct {
	name  string
	value float64
}

func metricValues(m model.EvaluationMetrics) []metricValue {
	return []metricValue{
		{"rmse", m.RMSE},
		{"mse", m.MSE},
		{"mae", m.MAE},
		{"mape", m.MAPE},
		{"r2", m.R2},
		{"n", float64(m.N)},
	}
}
