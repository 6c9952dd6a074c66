// Package scaler implements a reversible per-column min-max normalisation.
package scaler

import (
	"fmt"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// MinMax maps each column linearly to [0,1] using the min and max observed at
// fit time. A column with max == min is degenerate and scales to 0.
type MinMax struct {
	names []string
	min   []float64
	max   []float64
}

// Fit computes one min and one max per column over rows. names labels the
// columns for reporting and may be nil.
func Fit(rows [][]float64, names []string) (*MinMax, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: nothing to fit the scaler on", model.ErrInsufficientHistory)
	}
	width := len(rows[0])
	if names != nil && len(names) != width {
		return nil, fmt.Errorf("scaler: %d names for %d columns", len(names), width)
	}

	s := &MinMax{
		names: make([]string, width),
		min:   make([]float64, width),
		max:   make([]float64, width),
	}
	for j := 0; j < width; j++ {
		if names != nil {
			s.names[j] = names[j]
		} else {
			s.names[j] = fmt.Sprintf("col%d", j)
		}
		s.min[j] = rows[0][j]
		s.max[j] = rows[0][j]
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(row), width)
		}
		for j, v := range row {
			if !model.Defined(v) {
				return nil, fmt.Errorf("%w: column %s row %d is %v", model.ErrNumericInstability, s.names[j], i, v)
			}
			if v < s.min[j] {
				s.min[j] = v
			}
			if v > s.max[j] {
				s.max[j] = v
			}
		}
	}
	return s, nil
}

// Width returns the number of fitted columns.
func (s *MinMax) Width() int { return len(s.min) }

// Names returns the fitted column names.
func (s *MinMax) Names() []string { return append([]string(nil), s.names...) }

// Min and Max return the fitted bounds of column j.
func (s *MinMax) Min(j int) float64 { return s.min[j] }
func (s *MinMax) Max(j int) float64 { return s.max[j] }

// Degenerate returns the names of zero-range columns.
func (s *MinMax) Degenerate() []string {
	var out []string
	for j := range s.min {
		if s.max[j] == s.min[j] {
			out = append(out, s.names[j])
		}
	}
	return out
}

// ScaleValue maps one value of column j.
func (s *MinMax) ScaleValue(j int, v float64) float64 {
	span := s.max[j] - s.min[j]
	if span == 0 {
		return 0
	}
	return (v - s.min[j]) / span
}

// InverseValue maps one scaled value of column j back to original units.
func (s *MinMax) InverseValue(j int, v float64) float64 {
	return v*(s.max[j]-s.min[j]) + s.min[j]
}

// Transform returns a scaled copy of rows. Values outside the fitted range map
// outside [0,1]; they are not clipped.
func (s *MinMax) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != s.Width() {
			return nil, fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(row), s.Width())
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			if !model.Defined(v) {
				return nil, fmt.Errorf("%w: column %s row %d is %v", model.ErrNumericInstability, s.names[j], i, v)
			}
			scaled[j] = s.ScaleValue(j, v)
		}
		out[i] = scaled
	}
	return out, nil
}

// Inverse maps full scaled rows back to original units.
func (s *MinMax) Inverse(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != s.Width() {
			return nil, fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(row), s.Width())
		}
		orig := make([]float64, len(row))
		for j, v := range row {
			orig[j] = s.InverseValue(j, v)
		}
		out[i] = orig
	}
	return out, nil
}

// InverseColumn maps a scaled series of column j back to original units.
func (s *MinMax) InverseColumn(j int, values []float64) ([]float64, error) {
	if j < 0 || j >= s.Width() {
		return nil, fmt.Errorf("scaler: column %d out of range [0,%d)", j, s.Width())
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.InverseValue(j, v)
	}
	return out, nil
}

// PadRows builds full-width rows holding values at column j and zeros
// elsewhere, so a single predicted column can go through Inverse. Because the
// scaler is per-column the target column comes back exact; the padded columns
// are meaningless.
func (s *MinMax) PadRows(j int, values []float64) [][]float64 {
	rows := make([][]float64, len(values))
	for i, v := range values {
		row := make([]float64, s.Width())
		row[j] = v
		rows[i] = row
	}
	return rows
}
