package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedStep is returned when no step definition matches a step
	ErrUndefinedStep = errors.New("step implementation missing")
	// ErrAmbiguousStep is returned when more than one step definition matches
	ErrAmbiguousStep = errors.New("multiple step implementations match")
)

// StepError ties a failure to the step it happened on
type StepError struct {
	Step IndexedStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d %q: %v", e.Step.Index, e.Step.Text, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
