package flow

import (
	"errors"
	"fmt"

	"github.com/metalagman/fitgenius/internal/model"
)

// ErrorKind classifies flow failures.
type ErrorKind string

const (
	// InvalidInput means the caller's value violates the input contract.
	InvalidInput ErrorKind = "invalid_input"
	// InvocationFailed means the model backend call failed.
	InvocationFailed ErrorKind = "invocation_failed"
	// InvalidOutput means the backend returned a value violating the output contract.
	InvalidOutput ErrorKind = "invalid_output"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvocationFailed = errors.New("invocation failed")
	ErrInvalidOutput    = errors.New("invalid output")
)

// Error is the typed failure returned by Execute.
type Error struct {
	Kind ErrorKind
	Flow string
	// Field and Reason are set for InvalidInput and InvalidOutput.
	Field  string
	Reason string
	// Invocation is set for InvocationFailed.
	Invocation model.ErrorKind
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvocationFailed:
		return fmt.Sprintf("flow %s: %s (%s): %v", e.Flow, ErrInvocationFailed, e.Invocation, e.Err)
	default:
		if e.Field == "" {
			return fmt.Sprintf("flow %s: %s: %s", e.Flow, e.sentinel(), e.Reason)
		}
		return fmt.Sprintf("flow %s: %s: field %q: %s", e.Flow, e.sentinel(), e.Field, e.Reason)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

// Retryable reports whether retrying the same call may succeed. Contract
// violations are never retryable.
func (e *Error) Retryable() bool {
	return e.Kind == InvocationFailed
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case InvalidInput:
		return ErrInvalidInput
	case InvocationFailed:
		return ErrInvocationFailed
	case InvalidOutput:
		return ErrInvalidOutput
	}
	return nil
}

// AsError returns the flow error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsRetryable reports whether err is a retryable flow failure.
func IsRetryable(err error) bool {
	fe, ok := AsError(err)
	return ok && fe.Retryable()
}
