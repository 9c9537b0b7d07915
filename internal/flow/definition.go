// Package flow binds contracts, prompt templates and model invokers into
// named request/response flows and executes them.
package flow

import (
	"fmt"
	"strings"

	"github.com/metalagman/fitgenius/internal/model"
	"github.com/metalagman/fitgenius/internal/prompt"
	"github.com/metalagman/fitgenius/internal/schema"
)

// Params describes a flow to Define.
type Params struct {
	Name        string
	Description string
	Input       *schema.Contract
	Output      *schema.Contract
	Template    string
	Invoker     model.Invoker
}

// Definition is an immutable, named flow.
type Definition struct {
	name        string
	description string
	input       *schema.Contract
	output      *schema.Contract
	template    *prompt.Template
	invoker     model.Invoker
}

// Define validates p and builds a definition. Templates referencing fields
// the input contract does not declare are rejected here rather than at call time.
func Define(p Params) (*Definition, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("flow name is required")
	}
	if p.Input == nil || p.Output == nil {
		return nil, fmt.Errorf("flow %s: input and output contracts are required", name)
	}
	if p.Invoker == nil {
		return nil, fmt.Errorf("flow %s: invoker is required", name)
	}
	tmpl, err := prompt.Parse(p.Template)
	if err != nil {
		return nil, fmt.Errorf("flow %s: parse template: %w", name, err)
	}
	if err := tmpl.Check(p.Input); err != nil {
		return nil, fmt.Errorf("flow %s: %w", name, err)
	}
	return &Definition{
		name:        name,
		description: p.Description,
		input:       p.Input,
		output:      p.Output,
		template:    tmpl,
		invoker:     p.Invoker,
	}, nil
}

// Name returns the flow name.
func (d *Definition) Name() string { return d.name }

// Description returns the human-readable flow description.
func (d *Definition) Description() string { return d.description }

// Input returns the input contract.
func (d *Definition) Input() *schema.Contract { return d.input }

// Output returns the output contract.
func (d *Definition) Output() *schema.Contract { return d.output }

// Template returns the parsed prompt template.
func (d *Definition) Template() *prompt.Template { return d.template }
