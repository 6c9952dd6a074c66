package scaler

import (
	"errors"
	"math"
	"testing"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

func TestFit_BoundsMapToZeroAndOne(t *testing.T) {
	rows := [][]float64{{10.3, 5}, {27.9, 1}, {13.1, 9}}
	s, err := Fit(rows, []string{"Close", "RSI"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := s.ScaleValue(0, 10.3); got != 0 {
		t.Errorf("scale(min) = %v, want 0", got)
	}
	if got := s.ScaleValue(0, 27.9); got != 1 {
		t.Errorf("scale(max) = %v, want 1", got)
	}
	if got := s.ScaleValue(1, 1); got != 0 {
		t.Errorf("scale(min) col 1 = %v, want 0", got)
	}
	if got := s.ScaleValue(1, 9); got != 1 {
		t.Errorf("scale(max) col 1 = %v, want 1", got)
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	rows := [][]float64{{101.7, 0.2}, {99.1, -3}, {150.25, 7.5}, {120, 1}}
	s, err := Fit(rows, nil)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	scaled, err := s.Transform(rows)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	back, err := s.Inverse(scaled)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	for i := range rows {
		for j := range rows[i] {
			if scaled[i][j] < 0 || scaled[i][j] > 1 {
				t.Errorf("scaled[%d][%d] = %v outside [0,1]", i, j, scaled[i][j])
			}
			if math.Abs(back[i][j]-rows[i][j]) > 1e-9 {
				t.Errorf("round trip [%d][%d]: got %v, want %v", i, j, back[i][j], rows[i][j])
			}
		}
	}
	if rows[0][0] != 101.7 {
		t.Error("Transform modified its input")
	}
}

func TestTransform_Monotonic(t *testing.T) {
	s, err := Fit([][]float64{{1}, {5}}, nil)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	prev := math.Inf(-1)
	for _, x := range []float64{0, 1, 2.5, 3, 5, 6} {
		v := s.ScaleValue(0, x)
		if v <= prev {
			t.Fatalf("not monotonic at %v", x)
		}
		prev = v
	}
}

func TestFit_DegenerateColumn(t *testing.T) {
	rows := [][]float64{{50, 1}, {50, 2}, {50, 3}}
	s, err := Fit(rows, []string{"Close", "Volume"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if d := s.Degenerate(); len(d) != 1 || d[0] != "Close" {
		t.Fatalf("Degenerate() = %v, want [Close]", d)
	}
	scaled, err := s.Transform(rows)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	for i := range scaled {
		if scaled[i][0] != 0 {
			t.Errorf("row %d: degenerate column scaled to %v, want 0", i, scaled[i][0])
		}
	}
	inv, _ := s.InverseColumn(0, []float64{0, 0.5})
	if inv[0] != 50 || inv[1] != 50 {
		t.Errorf("degenerate inverse = %v, want [50 50]", inv)
	}
}

func TestFit_Errors(t *testing.T) {
	if _, err := Fit(nil, nil); !errors.Is(err, model.ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
	if _, err := Fit([][]float64{{1}, {math.NaN()}}, nil); !errors.Is(err, model.ErrNumericInstability) {
		t.Errorf("expected ErrNumericInstability, got %v", err)
	}
	if _, err := Fit([][]float64{{1, 2}, {3}}, nil); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := Fit([][]float64{{1, 2}}, []string{"a"}); err == nil {
		t.Error("expected error for name count mismatch")
	}
}

func TestTransform_RejectsNonFinite(t *testing.T) {
	s, _ := Fit([][]float64{{1}, {2}}, nil)
	if _, err := s.Transform([][]float64{{math.Inf(1)}}); !errors.Is(err, model.ErrNumericInstability) {
		t.Errorf("expected ErrNumericInstability, got %v", err)
	}
}

func TestPadRows_InverseMatchesInverseColumn(t *testing.T) {
	s, _ := Fit([][]float64{{10, 100, 3}, {20, 300, 9}}, nil)
	values := []float64{0, 0.25, 1, 1.5}
	padded, err := s.Inverse(s.PadRows(1, values))
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	direct, _ := s.InverseColumn(1, values)
	for i := range values {
		if padded[i][1] != direct[i] {
			t.Errorf("row %d: padded %v != direct %v", i, padded[i][1], direct[i])
		}
	}
	if direct[3] != 400 {
		t.Errorf("extrapolated inverse = %v, want 400", direct[3])
	}
}
