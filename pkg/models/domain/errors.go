package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMissing means no spreadsheet was supplied.
	ErrInputMissing = errors.New("input missing")
	// ErrParseFailure means the spreadsheet could not be decoded or has an unexpected schema.
	ErrParseFailure = errors.New("parse failure")
	// ErrComputationFailure means the report could not be computed from the decoded rows.
	ErrComputationFailure = errors.New("computation failure")
)

// StageError records which processing stage failed.
type StageError struct {
	Stage string
	Err   error
}

func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stage returns the stage recorded in err, or an empty string.
func Stage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
