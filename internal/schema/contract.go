// Package schema describes and validates the shape of flow inputs and outputs.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Kind is the primitive kind of a contract field.
type Kind string

const (
	KindString      Kind = "string"
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindStringSlice Kind = "string[]"
)

// FormatDataURI marks a string field that must hold a base64 data URI.
const FormatDataURI = "data-uri"

// Value is the plain-mapping form of a flow input or output.
type Value = map[string]any

// Field describes one named entry of a contract.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	NonEmpty    bool
	Format      string
	Description string
}

// String returns a required string field.
func String(name, description string) Field {
	return Field{Name: name, Kind: KindString, Required: true, Description: description}
}

// Number returns a required number field.
func Number(name, description string) Field {
	return Field{Name: name, Kind: KindNumber, Required: true, Description: description}
}

// Boolean returns a required boolean field.
func Boolean(name, description string) Field {
	return Field{Name: name, Kind: KindBoolean, Required: true, Description: description}
}

// Strings returns a required sequence-of-string field.
func Strings(name, description string) Field {
	return Field{Name: name, Kind: KindStringSlice, Required: true, Description: description}
}

// Optional returns a copy of f that may be absent.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// NotEmpty returns a copy of f that rejects blank strings.
func (f Field) NotEmpty() Field {
	f.NonEmpty = true
	return f
}

// WithFormat returns a copy of f constrained to the named format.
func (f Field) WithFormat(format string) Field {
	f.Format = format
	return f
}

// Contract is an ordered, immutable set of fields.
type Contract struct {
	fields   []Field
	index    map[string]int
	document map[string]any
	compiled *gojsonschema.Schema
}

// New builds a contract from fields in declaration order.
func New(fields ...Field) (*Contract, error) {
	c := &Contract{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("contract field name is required")
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate contract field %q", name)
		}
		switch f.Kind {
		case KindString, KindNumber, KindBoolean, KindStringSlice:
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %q", name, f.Kind)
		}
		if f.Format != "" && f.Format != FormatDataURI {
			return nil, fmt.Errorf("field %q: unsupported format %q", name, f.Format)
		}
		if f.Format != "" && f.Kind != KindString {
			return nil, fmt.Errorf("field %q: format %q requires a string field", name, f.Format)
		}
		f.Name = name
		c.index[name] = len(c.fields)
		c.fields = append(c.fields, f)
	}

	c.document = buildDocument(c.fields)
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(c.document))
	if err != nil {
		return nil, fmt.Errorf("compile contract schema: %w", err)
	}
	c.compiled = compiled
	return c, nil
}

// MustNew is like New but panics on error. It is meant for package-level contracts.
func MustNew(fields ...Field) *Contract {
	c, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return c
}

// Fields returns a copy of the contract fields in declaration order.
func (c *Contract) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Field looks up a field by name.
func (c *Contract) Field(name string) (Field, bool) {
	i, ok := c.index[name]
	if !ok {
		return Field{}, false
	}
	return c.fields[i], true
}

// Has reports whether the contract declares name.
func (c *Contract) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Contract) position(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return len(c.fields)
}
