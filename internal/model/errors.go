package model

import "errors"

// Fatal error kinds surfaced by the pipeline. Callers wrap them with context
// and test them with errors.Is.
var (
	ErrMissingInput        = errors.New("missing input")
	ErrSchema              = errors.New("schema error")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrNumericInstability  = errors.New("numeric instability")
)
