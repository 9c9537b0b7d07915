package schema

import (
	"fmt"
	"strings"
)

// Describe renders the contract as one line per field, in declaration order,
// for briefing a model about the expected shape.
func Describe(c *Contract) string {
	var b strings.Builder
	for i, f := range c.fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		presence := "required"
		if !f.Required {
			presence = "optional"
		}
		fmt.Fprintf(&b, "- %s (%s, %s)", f.Name, f.Kind, presence)
		if f.Description != "" {
			b.WriteString(": ")
			b.WriteString(f.Description)
		}
	}
	return b.String()
}

// Describe is a method form of Describe.
func (c *Contract) Describe() string {
	return Describe(c)
}
