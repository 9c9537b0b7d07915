package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validation failure reasons.
const (
	ReasonMissing       = "missing"
	ReasonTypeMismatch  = "type mismatch"
	ReasonEmpty         = "empty"
	ReasonInvalidFormat = "invalid format"
)

var numericString = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// ValidationError names the first field that violates a contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Validate checks value against c and returns the validated value.
// The result holds only declared fields, with numbers normalized to float64
// and sequences to []string. When several fields are invalid the error names
// the first one in declaration order.
func Validate(value Value, c *Contract) (Value, error) {
	return c.Validate(value)
}

// Validate checks value against the contract. See Validate.
func (c *Contract) Validate(value Value) (Value, error) {
	out := make(Value, len(c.fields))
	var failures []*ValidationError

	for _, f := range c.fields {
		raw, ok := value[f.Name]
		if !ok || raw == nil {
			continue
		}
		v, reason := normalize(f, raw)
		if reason != "" {
			failures = append(failures, &ValidationError{Field: f.Name, Reason: reason})
			continue
		}
		out[f.Name] = v
	}

	result, err := c.compiled.Validate(gojsonschema.NewGoLoader(out))
	if err != nil {
		return nil, fmt.Errorf("validate contract: %w", err)
	}
	if !result.Valid() {
		for _, re := range result.Errors() {
			ve := c.mapResultError(re)
			if ve.Reason == ReasonMissing && hasFailure(failures, ve.Field) {
				continue
			}
			failures = append(failures, ve)
		}
	}
	if len(failures) == 0 {
		return out, nil
	}
	return nil, c.first(failures)
}

func (c *Contract) mapResultError(re gojsonschema.ResultError) *ValidationError {
	switch re.Type() {
	case "required":
		property, _ := re.Details()["property"].(string)
		return &ValidationError{Field: property, Reason: ReasonMissing}
	case "invalid_type":
		return &ValidationError{Field: topLevel(re.Field()), Reason: ReasonTypeMismatch}
	case "pattern":
		name := topLevel(re.Field())
		if f, ok := c.Field(name); ok && f.Format == FormatDataURI {
			return &ValidationError{Field: name, Reason: ReasonInvalidFormat}
		}
		return &ValidationError{Field: name, Reason: ReasonEmpty}
	default:
		return &ValidationError{Field: topLevel(re.Field()), Reason: re.Description()}
	}
}

func (c *Contract) first(failures []*ValidationError) *ValidationError {
	best := failures[0]
	for _, f := range failures[1:] {
		if c.position(f.Field) < c.position(best.Field) {
			best = f
		}
	}
	return best
}

func hasFailure(failures []*ValidationError, field string) bool {
	for _, f := range failures {
		if f.Field == field {
			return true
		}
	}
	return false
}

func topLevel(field string) string {
	if field == "(root)" {
		return ""
	}
	name, _, _ := strings.Cut(field, ".")
	return name
}

func normalize(f Field, raw any) (any, string) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, ReasonTypeMismatch
		}
		if f.NonEmpty && strings.TrimSpace(s) == "" {
			return nil, ReasonEmpty
		}
		if f.Format == FormatDataURI {
			if _, err := ParseDataURI(s); err != nil {
				return nil, ReasonInvalidFormat
			}
		}
		return s, ""
	case KindNumber:
		n, ok := toNumber(raw)
		if !ok {
			return nil, ReasonTypeMismatch
		}
		return n, ""
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, ReasonTypeMismatch
		}
		return b, ""
	case KindStringSlice:
		ss, ok := toStrings(raw)
		if !ok {
			return nil, ReasonTypeMismatch
		}
		return ss, ""
	}
	return nil, ReasonTypeMismatch
}

func toNumber(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int8:
		n = float64(v)
	case int16:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint8:
		n = float64(v)
	case uint16:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		if !numericString.MatchString(v) {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toStrings(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
