// Package prompt renders flow prompt templates from validated input values.
//
// The template language is flat: {{field}} and {{{field}}} substitute the
// stringified field value, and {{media url=field}} attaches the data URI held
// by field as an inline media part. There are no loops or conditionals.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/metalagman/fitgenius/internal/schema"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type segmentKind int

const (
	segmentText segmentKind = iota
	segmentField
	segmentMedia
)

type segment struct {
	kind  segmentKind
	value string
}

// Template is a parsed prompt template. It is immutable and safe for concurrent use.
type Template struct {
	source   string
	segments []segment
}

// Parse parses a template source.
func Parse(source string) (*Template, error) {
	t := &Template{source: source}
	rest := source
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			t.appendText(rest)
			break
		}
		t.appendText(rest[:start])
		rest = rest[start:]

		open, closing := "{{", "}}"
		if strings.HasPrefix(rest, "{{{") {
			open, closing = "{{{", "}}}"
		}
		end := strings.Index(rest, closing)
		if end < 0 {
			return nil, fmt.Errorf("unterminated placeholder at offset %d", len(source)-len(rest))
		}
		body := strings.TrimSpace(rest[len(open):end])
		seg, err := parsePlaceholder(body)
		if err != nil {
			return nil, fmt.Errorf("placeholder %q: %w", rest[:end+len(closing)], err)
		}
		t.segments = append(t.segments, seg)
		rest = rest[end+len(closing):]
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(source string) *Template {
	t, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return t
}

func parsePlaceholder(body string) (segment, error) {
	if directive, ok := strings.CutPrefix(body, "media "); ok {
		name, ok := strings.CutPrefix(strings.TrimSpace(directive), "url=")
		if !ok || !identifier.MatchString(name) {
			return segment{}, fmt.Errorf("media directive requires url=<field>")
		}
		return segment{kind: segmentMedia, value: name}, nil
	}
	if !identifier.MatchString(body) {
		return segment{}, fmt.Errorf("invalid field name %q", body)
	}
	return segment{kind: segmentField, value: body}, nil
}

func (t *Template) appendText(s string) {
	if s == "" {
		return
	}
	t.segments = append(t.segments, segment{kind: segmentText, value: s})
}

// Source returns the unparsed template text.
func (t *Template) Source() string {
	return t.source
}

// Placeholders returns the referenced field names in first-appearance order.
func (t *Template) Placeholders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, seg := range t.segments {
		if seg.kind == segmentText || seen[seg.value] {
			continue
		}
		seen[seg.value] = true
		out = append(out, seg.value)
	}
	return out
}

// Check reports the first placeholder that does not name a field of c.
// Media directives must reference string fields.
func (t *Template) Check(c *schema.Contract) error {
	for _, seg := range t.segments {
		switch seg.kind {
		case segmentField:
			if !c.Has(seg.value) {
				return fmt.Errorf("template references undeclared field %q", seg.value)
			}
		case segmentMedia:
			f, ok := c.Field(seg.value)
			if !ok {
				return fmt.Errorf("media directive references undeclared field %q", seg.value)
			}
			if f.Kind != schema.KindString {
				return fmt.Errorf("media directive field %q must be a string", seg.value)
			}
		}
	}
	return nil
}
