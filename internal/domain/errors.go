package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrValidation is returned when input is rejected before any side effect.
	ErrValidation = errors.New("validation failed")
	// ErrSuperseded is returned to the caller of a run whose completion arrived
	// after a newer run, a reset or a restore took over.
	ErrSuperseded = errors.New("run superseded")
)

// RemoteCallError is a transport or non-success failure of a remote operation.
type RemoteCallError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: remote returned status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// UnexpectedResponseError is a well-formed response with the wrong meaning.
type UnexpectedResponseError struct {
	Op  string
	Got string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("%s: unexpected response %q", e.Op, e.Got)
}

// RecoverableError marks a failure the engine degrades around instead of propagating.
type RecoverableError struct {
	Op  string
	Err error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RecoverableError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err carries a RecoverableError.
func IsRecoverable(err error) bool {
	var rec *RecoverableError
	return errors.As(err, &rec)
}
