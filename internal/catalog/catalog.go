// Package catalog holds the fixed set of coaching flows.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/model"
	"github.com/metalagman/fitgenius/internal/schema"
)

// ErrUnknownFlow is returned for names the catalog does not hold.
var ErrUnknownFlow = errors.New("unknown flow")

// Option configures a Catalog.
type Option func(*Catalog)

// WithOrchestrator sets the orchestrator used by Execute and the typed
// wrappers.
func WithOrchestrator(o *flow.Orchestrator) Option {
	return func(c *Catalog) {
		if o != nil {
			c.orch = o
		}
	}
}

// Catalog maps flow names to definitions. It is immutable after New.
type Catalog struct {
	flows map[string]*flow.Definition
	names []string
	orch  *flow.Orchestrator
}

// New builds every flow against inv.
func New(inv model.Invoker, opts ...Option) (*Catalog, error) {
	if inv == nil {
		return nil, errors.New("catalog: invoker is required")
	}
	params, err := definitions(inv)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c := &Catalog{
		flows: make(map[string]*flow.Definition, len(params)),
		orch:  flow.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, p := range params {
		def, err := flow.Define(p)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.flows[def.Name()] = def
		c.names = append(c.names, def.Name())
	}
	sort.Strings(c.names)
	return c, nil
}

// Get returns the named definition.
func (c *Catalog) Get(name string) (*flow.Definition, error) {
	def, ok := c.flows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlow, name)
	}
	return def, nil
}

// Names returns flow names in lexical order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Definitions returns every definition ordered by name.
func (c *Catalog) Definitions() []*flow.Definition {
	out := make([]*flow.Definition, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.flows[name])
	}
	return out
}

// Orchestrator returns the orchestrator the catalog executes with.
func (c *Catalog) Orchestrator() *flow.Orchestrator {
	return c.orch
}

// Execute runs the named flow.
func (c *Catalog) Execute(ctx context.Context, name string, input schema.Value) (schema.Value, error) {
	def, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return c.orch.Execute(ctx, def, input)
}

// Job names a flow and its input for Batch.
type Job struct {
	Flow  string       `yaml:"flow" json:"flow"`
	Input schema.Value `yaml:"input" json:"input"`
}

// Batch resolves names and runs jobs with at most limit in flight. Jobs
// naming unknown flows fail with ErrUnknownFlow without affecting the rest.
func (c *Catalog) Batch(ctx context.Context, jobs []Job, limit int) []flow.Result {
	resolved := make([]flow.Job, len(jobs))
	unknown := make(map[int]error)
	for i, j := range jobs {
		def, err := c.Get(j.Flow)
		if err != nil {
			unknown[i] = err
			continue
		}
		resolved[i] = flow.Job{Flow: def, Input: j.Input}
	}
	results := c.orch.Batch(ctx, resolved, limit)
	for i, err := range unknown {
		results[i] = flow.Result{Err: err}
	}
	return results
}
