package flow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/fitgenius/internal/model"
	"github.com/metalagman/fitgenius/internal/prompt"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/rs/zerolog/log"
)

// Record summarizes a finished call. It never carries input or output values.
type Record struct {
	ID        string
	Flow      string
	State     State
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Observer is notified after every call reaches a terminal state.
type Observer interface {
	OnComplete(ctx context.Context, rec Record)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, rec Record)

// OnComplete calls f.
func (f ObserverFunc) OnComplete(ctx context.Context, rec Record) { f(ctx, rec) }

// TraceFunc receives every state a call enters.
type TraceFunc func(callID, flow string, state State)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver adds an observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithTrace installs a state trace hook.
func WithTrace(fn TraceFunc) Option {
	return func(o *Orchestrator) { o.trace = fn }
}

// Orchestrator executes flow definitions. It holds no per-call state and is
// safe for concurrent use.
type Orchestrator struct {
	observers []Observer
	trace     TraceFunc
	now       func() time.Time
}

// New creates an orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var defaultOrchestrator = New()

// Execute runs def with the default orchestrator.
func Execute(ctx context.Context, def *Definition, input schema.Value) (schema.Value, error) {
	return defaultOrchestrator.Execute(ctx, def, input)
}

// Execute validates input, renders the prompt, invokes the model exactly once
// and validates the result. The backend is not called when input is invalid.
func (o *Orchestrator) Execute(ctx context.Context, def *Definition, input schema.Value) (schema.Value, error) {
	if def == nil {
		return nil, errors.New("flow definition is nil")
	}
	rec := Record{
		ID:        uuid.NewString(),
		Flow:      def.name,
		StartedAt: o.now(),
	}
	o.enter(rec, StateIdle)

	out, err := o.run(ctx, def, input, rec)

	rec.Duration = o.now().Sub(rec.StartedAt)
	rec.Err = err
	rec.State = StateDone
	if err != nil {
		rec.State = StateFailed
	}
	o.enter(rec, rec.State)
	o.complete(ctx, rec)
	return out, err
}

func (o *Orchestrator) run(ctx context.Context, def *Definition, input schema.Value, rec Record) (schema.Value, error) {
	o.enter(rec, StateValidating)
	in, err := def.input.Validate(input)
	if err != nil {
		return nil, contractError(InvalidInput, def.name, err)
	}

	o.enter(rec, StateRendering)
	rendered, err := def.template.Render(in)
	if err != nil {
		fe := &Error{Kind: InvalidInput, Flow: def.name, Reason: schema.ReasonInvalidFormat, Err: err}
		var me *prompt.MediaError
		if errors.As(err, &me) {
			fe.Field = me.Field
		}
		return nil, fe
	}

	o.enter(rec, StateInvoking)
	raw, err := def.invoker.Invoke(ctx, model.Request{
		Flow:              def.name,
		Prompt:            rendered,
		OutputDescription: def.output.Describe(),
		OutputSchema:      def.output.JSONSchema(),
	})
	if err != nil {
		return nil, &Error{Kind: InvocationFailed, Flow: def.name, Invocation: model.KindOf(err), Err: err}
	}

	o.enter(rec, StateValidatingOutput)
	out, err := def.output.Validate(raw)
	if err != nil {
		return nil, contractError(InvalidOutput, def.name, err)
	}
	return out, nil
}

func contractError(kind ErrorKind, flowName string, err error) *Error {
	fe := &Error{Kind: kind, Flow: flowName, Reason: err.Error(), Err: err}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		fe.Field = ve.Field
		fe.Reason = ve.Reason
	}
	return fe
}

func (o *Orchestrator) enter(rec Record, state State) {
	if o.trace != nil {
		o.trace(rec.ID, rec.Flow, state)
	}
}

func (o *Orchestrator) complete(ctx context.Context, rec Record) {
	if rec.Err != nil {
		ev := log.Warn().Err(rec.Err)
		if fe, ok := AsError(rec.Err); ok {
			ev = ev.Str("kind", string(fe.Kind))
			if fe.Field != "" {
				ev = ev.Str("field", fe.Field)
			}
			if fe.Invocation != "" {
				ev = ev.Str("invocation", string(fe.Invocation))
			}
		}
		ev.Str("call_id", rec.ID).
			Str("flow", rec.Flow).
			Dur("duration", rec.Duration).
			Msg("flow failed")
	} else {
		log.Debug().
			Str("call_id", rec.ID).
			Str("flow", rec.Flow).
			Dur("duration", rec.Duration).
			Msg("flow completed")
	}
	for _, obs := range o.observers {
		obs.OnComplete(ctx, rec)
	}
}
