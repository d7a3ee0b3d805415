package questions

import (
	"errors"
	"fmt"
)

// ErrExhausted reports that no unique follow-up question could be produced.
var ErrExhausted = errors.New("no unique follow-up question")

// ExhaustedError details a failed follow-up generation. It matches
// ErrExhausted with errors.Is.
type ExhaustedError struct {
	Attempts int

	// CapabilityErrors counts attempts where the LLM call itself failed.
	CapabilityErrors int

	// Duplicates counts attempts whose output was empty or too similar to
	// an asked question.
	Duplicates int

	// LastErr is the most recent capability error, if any.
	LastErr error
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("%s after %d attempts (%d capability errors, %d duplicates)",
		ErrExhausted, e.Attempts, e.CapabilityErrors, e.Duplicates)
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// OnlyCapabilityErrors reports whether every attempt failed at the LLM call.
func (e *ExhaustedError) OnlyCapabilityErrors() bool {
	return e.Attempts > 0 && e.CapabilityErrors == e.Attempts
}
