package interview

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned for ids without an active session.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports a rejected request. The session is unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ExternalServiceError reports that a required collaborator failed.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
