package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "fenced", in: "```json\n{\"a\":\"}\"}\n```", want: `{"a":"}"}`, ok: true},
		{name: "prose around", in: `Sure! {"name":"Kettlebell","tutorial":"Swing it."} Enjoy.`, want: `{"name":"Kettlebell","tutorial":"Swing it."}`, ok: true},
		{name: "skips invalid brace", in: `{oops} {"a":{"b":2}}`, want: `{"a":{"b":2}}`, ok: true},
		{name: "none", in: "no json here", ok: false},
		{name: "unbalanced", in: `{"a":1`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractJSON([]byte(tt.in))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.JSONEq(t, tt.want, string(got))
			}
		})
	}
}

func TestDecodeOutput(t *testing.T) {
	t.Parallel()

	got, err := DecodeOutput([]byte("```json\n{\"mealSuggestions\":[\"Lentil stew\"]}\n```"))
	require.NoError(t, err)
	assert.Equal(t, schema.Value{"mealSuggestions": []any{"Lentil stew"}}, got)

	for _, in := range []string{"", "   ", "null", "[1,2]", "plain text"} {
		_, err := DecodeOutput([]byte(in))
		assert.Equal(t, MalformedResponse, KindOf(err), "input %q", in)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RateLimited, KindOf(fmt.Errorf("wrapped: %w", Fail(RateLimited, errors.New("slow down")))))
	assert.Equal(t, Timeout, KindOf(fmt.Errorf("call: %w", context.DeadlineExceeded)))
	assert.Equal(t, Unavailable, KindOf(errors.New("connection refused")))

	assert.Nil(t, Classify(nil))
	assert.Equal(t, Timeout, KindOf(Classify(context.DeadlineExceeded)))

	assert.Equal(t, RateLimited, KindForStatus(429))
	assert.Equal(t, Timeout, KindForStatus(504))
	assert.Equal(t, Unavailable, KindForStatus(500))
}
