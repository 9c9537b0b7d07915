package flow

import (
	"context"

	"github.com/metalagman/fitgenius/internal/schema"
)

// Call is a pending asynchronous flow execution.
type Call struct {
	done chan struct{}
	out  schema.Value
	err  error
}

// Go starts Execute in its own goroutine. Cancel ctx to abandon the call.
func (o *Orchestrator) Go(ctx context.Context, def *Definition, input schema.Value) *Call {
	c := &Call{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		c.out, c.err = o.Execute(ctx, def, input)
	}()
	return c
}

// Done is closed when the call has finished.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call finishes and returns its result.
func (c *Call) Wait() (schema.Value, error) {
	<-c.done
	return c.out, c.err
}
