// Package metrics records run statistics in a private Prometheus registry and
// exports them in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

const namespace = "forecaster"

// Recorder collects per-run metrics.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	evaluation    *prometheus.GaugeVec
	datasetRows   *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

// New creates a recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Pipeline runs by outcome",
			},
			[]string{"symbol", "outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		evaluation: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "evaluation",
				Help:      "Latest evaluation metrics in original price units",
			},
			[]string{"symbol", "predictor", "partition", "metric"},
		),
		datasetRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Row and sample counts of the latest run",
			},
			[]string{"symbol", "set"},
		),
		lastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the latest completed run",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveStage records the duration of one pipeline stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordFailure counts a run that ended in an error.
func (r *Recorder) RecordFailure(symbol string) {
	r.runsTotal.WithLabelValues(symbol, "error").Inc()
}

// RecordReport stores the outcome of a successful run.
func (r *Recorder) RecordReport(rep *model.Report) {
	r.runsTotal.WithLabelValues(rep.Symbol, "ok").Inc()
	r.setEvaluation(rep, "test", rep.Test)
	r.setEvaluation(rep, "train", rep.Train)
	r.datasetRows.WithLabelValues(rep.Symbol, "frame").Set(float64(rep.FrameRows))
	r.datasetRows.WithLabelValues(rep.Symbol, "dropped").Set(float64(rep.DroppedRows))
	r.datasetRows.WithLabelValues(rep.Symbol, "train").Set(float64(rep.TrainSize))
	r.datasetRows.WithLabelValues(rep.Symbol, "test").Set(float64(rep.TestSize))
	r.lastRun.Set(float64(rep.StartedAt.Add(rep.Duration).Unix()))
}

func (r *Recorder) setEvaluation(rep *model.Report, partition string, m model.EvaluationMetrics) {
	for name, v := range map[string]float64{
		"rmse": m.RMSE,
		"mse":  m.MSE,
		"mae":  m.MAE,
		"mape": m.MAPE,
		"r2":   m.R2,
	} {
		r.evaluation.WithLabelValues(rep.Symbol, rep.Predictor, partition, name).Set(v)
	}
}

// WriteTextfile writes every collected metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
