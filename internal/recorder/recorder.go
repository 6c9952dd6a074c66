package recorder

import (
	"errors"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/model"
)

// Recorder persists the outcome of pipeline runs.
type Recorder interface {
	RecordRun(rep *model.Report) error
	Close() error
}

// Multi fans a report out to several recorders. Every recorder is attempted;
// the errors are joined.
type Multi []Recorder

func (m Multi) RecordRun(rep *model.Report) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordRun(rep))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
