package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/metalagman/fitgenius/internal/schema"
)

// ExtractJSON returns the first balanced JSON object found in out, skipping
// prose and markdown fences around it.
func ExtractJSON(out []byte) ([]byte, bool) {
	for start := bytes.IndexByte(out, '{'); start >= 0; {
		if end := matchObject(out[start:]); end > 0 {
			candidate := out[start : start+end]
			if json.Valid(candidate) {
				return candidate, true
			}
		}
		next := bytes.IndexByte(out[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

func matchObject(b []byte) int {
	depth := 0
	inString := false
	escaped := false
	for i, c := range b {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// DecodeOutput parses model output text into a value. Empty output and text
// without a JSON object are MalformedResponse failures.
func DecodeOutput(out []byte) (schema.Value, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, Failf(MalformedResponse, "empty model response")
	}
	var v schema.Value
	if err := json.Unmarshal(trimmed, &v); err == nil && v != nil {
		return v, nil
	}
	extracted, ok := ExtractJSON(trimmed)
	if !ok {
		return nil, Failf(MalformedResponse, "model response is not a JSON object")
	}
	if err := json.Unmarshal(extracted, &v); err != nil {
		return nil, Fail(MalformedResponse, fmt.Errorf("parse model response: %w", err))
	}
	return v, nil
}
