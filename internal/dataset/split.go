package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Partition assigns sample positions [0, n) to train and test. The test set
// holds ceil(fraction*n) positions.
//
// Chronological keeps source order: train is the leading block and test the
// tail. Random shuffles positions with a seeded source first; overlapping
// windows then share rows across the two sets.
func Partition(n int, fraction float64, policy model.SplitPolicy, seed int64) (train, test []int, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0,1), got %v", fraction)
	}
	nTest := int(math.Ceil(fraction * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("%w: %d samples cannot be split into non-empty train and test sets at fraction %v",
			model.ErrInsufficientHistory, n, fraction)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	switch policy {
	case model.SplitChronological:
		return order[:nTrain], order[nTrain:], nil
	case model.SplitRandom:
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		return order[nTest:], order[:nTest], nil
	default:
		return nil, nil, fmt.Errorf("unknown split policy %q", policy)
	}
}

// Split partitions a windowed dataset according to policy.
func Split(ds *model.WindowedDataset, fraction float64, policy model.SplitPolicy, seed int64) (*model.SplitDataset, error) {
	train, test, err := Partition(ds.Len(), fraction, policy, seed)
	if err != nil {
		return nil, err
	}
	return Apply(ds, train, test, policy), nil
}

// Apply builds a SplitDataset from precomputed sample positions.
func Apply(ds *model.WindowedDataset, train, test []int, policy model.SplitPolicy) *model.SplitDataset {
	out := &model.SplitDataset{
		Policy: policy,
		Train:  make([]model.Sample, len(train)),
		Test:   make([]model.Sample, len(test)),
	}
	for i, k := range train {
		out.Train[i] = ds.Samples[k]
	}
	for i, k := range test {
		out.Test[i] = ds.Samples[k]
	}
	return out
}
