package model

import "time"

// Frame is the merged feature table handed to the scaler. Every column in
// Columns has len(Dates) defined values.
type Frame struct {
	Dates   []time.Time
	Names   []string
	Columns map[string][]float64
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Dates) }

// Index returns the position of a column in Names, or -1.
func (f *Frame) Index(name string) int {
	for i, n := range f.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Rows returns the frame as a row-major matrix in Names order.
func (f *Frame) Rows() [][]float64 {
	rows := make([][]float64, f.Len())
	for i := range rows {
		row := make([]float64, len(f.Names))
		for j, name := range f.Names {
			row[j] = f.Columns[name][i]
		}
		rows[i] = row
	}
	return rows
}

// Sample is one supervised example: the Lookback rows preceding Index and the
// target column value at Index.
type Sample struct {
	Index  int
	Window [][]float64
	Target float64
}

// WindowedDataset is an ordered set of samples built from one scaled matrix.
type WindowedDataset struct {
	Lookback int
	Features int
	Samples  []Sample
}

// Len returns the number of samples.
func (d *WindowedDataset) Len() int { return len(d.Samples) }

// SplitPolicy selects how samples are assigned to train and test.
type SplitPolicy string

const (
	SplitChronological SplitPolicy = "chronological"
	SplitRandom        SplitPolicy = "random"
)

// SplitDataset is a disjoint train/test partition of a WindowedDataset.
type SplitDataset struct {
	Policy SplitPolicy
	Train  []Sample
	Test   []Sample
}

// XY unpacks samples into predictor inputs.
func XY(samples []Sample) ([][][]float64, []float64) {
	x := make([][][]float64, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = s.Window
		y[i] = s.Target
	}
	return x, y
}
