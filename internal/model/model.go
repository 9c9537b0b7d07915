// Package model provides the adapters that execute rendered prompts against
// generative model backends.
package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/metalagman/fitgenius/internal/prompt"
	"github.com/metalagman/fitgenius/internal/schema"
)

// Invoker executes one rendered prompt and returns a candidate output value.
// The returned value is not validated; callers must check it against the
// output contract. Implementations do not retry.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (schema.Value, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, req Request) (schema.Value, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, req Request) (schema.Value, error) {
	return f(ctx, req)
}

// Request is a single model invocation.
type Request struct {
	Flow              string
	Prompt            prompt.Rendered
	OutputDescription string
	OutputSchema      map[string]any
}

// ErrorKind classifies invocation failures.
type ErrorKind string

const (
	Unavailable       ErrorKind = "unavailable"
	Timeout           ErrorKind = "timeout"
	MalformedResponse ErrorKind = "malformed_response"
	RateLimited       ErrorKind = "rate_limited"
)

// InvocationError is returned by invokers when the backend call fails.
type InvocationError struct {
	Kind ErrorKind
	Err  error
}

func (e *InvocationError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Fail wraps err as an InvocationError of the given kind.
func Fail(kind ErrorKind, err error) error {
	return &InvocationError{Kind: kind, Err: err}
}

// Failf formats a message as an InvocationError of the given kind.
func Failf(kind ErrorKind, format string, args ...any) error {
	return &InvocationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf classifies err. Errors that are not InvocationErrors are classified
// by context deadline, network timeout and HTTP status where available.
func KindOf(err error) ErrorKind {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	return Unavailable
}

// Classify wraps err in an InvocationError using KindOf. It returns nil for a
// nil error and leaves existing InvocationErrors untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ie *InvocationError
	if errors.As(err, &ie) {
		return err
	}
	return &InvocationError{Kind: KindOf(err), Err: err}
}

// KindForStatus maps an HTTP status code returned by a backend to a failure kind.
func KindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusTooManyRequests:
		return RateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return Timeout
	default:
		return Unavailable
	}
}

const outputInstructions = "Respond with a single JSON object and nothing else. " +
	"The object must contain the following fields:\n"

// Instructions returns the system instructions briefing a backend on the output shape.
func Instructions(req Request) string {
	return outputInstructions + req.OutputDescription
}
