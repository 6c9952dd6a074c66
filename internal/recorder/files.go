package recorder

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/dataset"
	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

const dateLayout = "2006-01-02"

// FileRecorder writes the CSV artifacts of each run into Dir. An empty file
// name skips that artifact. Later runs overwrite earlier files.
type FileRecorder struct {
	Dir             string
	ResultsFile     string
	PredictionsFile string
	IndicatorsFile  string
	Log             zerolog.Logger
}

func (f *FileRecorder) RecordRun(rep *model.Report) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, out := range []struct {
		name  string
		write func(io.Writer, *model.Report) error
	}{
		{f.ResultsFile, WriteResults},
		{f.PredictionsFile, WritePredictions},
		{f.IndicatorsFile, WriteIndicators},
	} {
		if out.name == "" {
			continue
		}
		path := out.name
		if !filepath.IsAbs(path) {
			path = filepath.Join(f.Dir, path)
		}
		if err := writeFile(path, rep, out.write); err != nil {
			return err
		}
		f.Log.Info().Str("path", path).Msg("artifact written")
	}
	return nil
}

func (f *FileRecorder) Close() error { return nil }

func writeFile(path string, rep *model.Report, write func(io.Writer, *model.Report) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file, rep); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// WriteResults writes the Metric,Value summary table.
func WriteResults(w io.Writer, rep *model.Report) error {
	rows := [][]string{
		{"Metric", "Value"},
		{"Prediction RMSE", formatFloat(rep.Test.RMSE)},
		{"Prediction R2 Score", formatFloat(rep.Test.R2)},
		{"Prediction MSE", formatFloat(rep.Test.MSE)},
		{"Prediction MAE", formatFloat(rep.Test.MAE)},
		{"Prediction MAPE", formatFloat(rep.Test.MAPE)},
		{"Train RMSE", formatFloat(rep.Train.RMSE)},
		{"Train R2 Score", formatFloat(rep.Train.R2)},
		{"Train Samples", strconv.Itoa(rep.TrainSize)},
		{"Test Samples", strconv.Itoa(rep.TestSize)},
		{"Average Daily Return", formatFloat(rep.Summary.AvgDailyReturn)},
		{"Daily Return Std", formatFloat(rep.Summary.StdDailyReturn)},
		{"Max Drawdown", formatFloat(rep.Summary.MaxDrawdownPct)},
		{"Volume Price Correlation", formatFloat(rep.Summary.VolumePriceCorrelation)},
	}
	return writeAll(w, rows)
}

// WritePredictions writes one Date,Actual,Predicted row per test sample.
func WritePredictions(w io.Writer, rep *model.Report) error {
	rows := make([][]string, 0, len(rep.Predictions)+1)
	rows = append(rows, []string{"Date", "Actual", "Predicted"})
	for _, p := range rep.Predictions {
		rows = append(rows, []string{p.Date.Format(dateLayout), formatFloat(p.Actual), formatFloat(p.Predicted)})
	}
	return writeAll(w, rows)
}

// WriteIndicators writes the raw bars with every indicator column. Undefined
// values are left empty.
func WriteIndicators(w io.Writer, rep *model.Report) error {
	names, cols := dataset.AllColumns(rep.Bars, rep.Indicators)
	rows := make([][]string, 0, len(rep.Bars)+1)
	rows = append(rows, append([]string{"Date"}, names...))
	for i, b := range rep.Bars {
		row := make([]string, 0, len(names)+1)
		row = append(row, b.Time.Format(dateLayout))
		for _, name := range names {
			v := cols[name][i]
			if !model.Defined(v) {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return writeAll(w, rows)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
