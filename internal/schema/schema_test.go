package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pixelURI = "data:image/png;base64,iVBORw0KGgo="

func mealsInput() *Contract {
	return MustNew(
		String("dietaryPreferences", "The dietary preferences of the user."),
		Number("caloricNeeds", "The daily caloric needs of the user."),
		String("macroGoals", "The macro goals of the user."),
	)
}

func TestNew_RejectsBadFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields []Field
	}{
		{name: "empty name", fields: []Field{String(" ", "")}},
		{name: "duplicate", fields: []Field{String("a", ""), Number("a", "")}},
		{name: "unknown kind", fields: []Field{{Name: "a", Kind: "object"}}},
		{name: "format on number", fields: []Field{Number("a", "").WithFormat(FormatDataURI)}},
		{name: "unknown format", fields: []Field{String("a", "").WithFormat("email")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.fields...)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	c := MustNew(
		String("query", "The user query.").NotEmpty(),
		String("personalSettings", "Settings.").Optional(),
		Number("weight", "Weight in kg.").Optional(),
		Boolean("pro", "Subscription flag.").Optional(),
		Strings("tags", "Tags.").Optional(),
	)

	tests := []struct {
		name       string
		in         Value
		want       Value
		wantField  string
		wantReason string
	}{
		{
			name: "required only",
			in:   Value{"query": "how many sets?"},
			want: Value{"query": "how many sets?"},
		},
		{
			name: "all fields with unknown extra",
			in: Value{
				"query": "q", "personalSettings": "age 30", "weight": 72,
				"pro": true, "tags": []any{"a", "b"}, "extra": 1,
			},
			want: Value{
				"query": "q", "personalSettings": "age 30", "weight": float64(72),
				"pro": true, "tags": []string{"a", "b"},
			},
		},
		{
			name: "numeric string coerced",
			in:   Value{"query": "q", "weight": "-72.5"},
			want: Value{"query": "q", "weight": -72.5},
		},
		{
			name: "null optional treated as absent",
			in:   Value{"query": "q", "personalSettings": nil},
			want: Value{"query": "q"},
		},
		{name: "missing required", in: Value{}, wantField: "query", wantReason: ReasonMissing},
		{name: "nil value", in: nil, wantField: "query", wantReason: ReasonMissing},
		{name: "blank non-empty", in: Value{"query": "   "}, wantField: "query", wantReason: ReasonEmpty},
		{name: "no-break space non-empty", in: Value{"query": "\u00a0\u2003"}, wantField: "query", wantReason: ReasonEmpty},
		{name: "wrong kind", in: Value{"query": 5}, wantField: "query", wantReason: ReasonTypeMismatch},
		{name: "non numeric string", in: Value{"query": "q", "weight": "72kg"}, wantField: "weight", wantReason: ReasonTypeMismatch},
		{name: "two decimal points", in: Value{"query": "q", "weight": "1.2.3"}, wantField: "weight", wantReason: ReasonTypeMismatch},
		{name: "string for boolean", in: Value{"query": "q", "pro": "true"}, wantField: "pro", wantReason: ReasonTypeMismatch},
		{name: "mixed sequence", in: Value{"query": "q", "tags": []any{"a", 1}}, wantField: "tags", wantReason: ReasonTypeMismatch},
		{name: "string for sequence", in: Value{"query": "q", "tags": "a"}, wantField: "tags", wantReason: ReasonTypeMismatch},
		{
			name:       "first failing field in declaration order",
			in:         Value{"weight": "heavy", "pro": "yes"},
			wantField:  "query",
			wantReason: ReasonMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Validate(tt.in, c)
			if tt.wantField != "" {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
				assert.Equal(t, tt.wantField, ve.Field)
				assert.Equal(t, tt.wantReason, ve.Reason)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("validated value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_MissingFieldsReportedInOrder(t *testing.T) {
	t.Parallel()

	c := MustNew(
		String("protein", ""),
		String("carbs", ""),
		String("fats", ""),
		String("calories", ""),
		String("notes", ""),
	)
	_, err := c.Validate(Value{"protein": "30g"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, &ValidationError{Field: "carbs", Reason: ReasonMissing}, ve)
}

func TestValidate_NumberCoercion(t *testing.T) {
	t.Parallel()

	c := mealsInput()
	base := func(n any) Value {
		return Value{"dietaryPreferences": "vegan", "caloricNeeds": n, "macroGoals": "low carb"}
	}

	accepted := map[string]any{
		"int":         2000,
		"int64":       int64(2000),
		"float32":     float32(2000),
		"json number": json.Number("2000"),
		"digits":      "2000",
		"signed":      "+2000",
		"decimal":     "2000.5",
		"leading dot": ".5",
	}
	for name, n := range accepted {
		_, err := c.Validate(base(n))
		assert.NoError(t, err, name)
	}

	rejected := map[string]any{
		"empty":      "",
		"spaces":     " 2000",
		"exponent":   "2e3",
		"hex":        "0x10",
		"sign only":  "-",
		"bool":       true,
		"units":      "2000kcal",
		"two points": "1.2.3",
	}
	for name, n := range rejected {
		_, err := c.Validate(base(n))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, name)
		assert.Equal(t, "caloricNeeds", ve.Field, name)
		assert.Equal(t, ReasonTypeMismatch, ve.Reason, name)
	}
}

func TestValidate_DataURI(t *testing.T) {
	t.Parallel()

	c := MustNew(String("photoDataUri", "A photo.").WithFormat(FormatDataURI))

	got, err := c.Validate(Value{"photoDataUri": pixelURI})
	require.NoError(t, err)
	assert.Equal(t, pixelURI, got["photoDataUri"])

	for _, bad := range []string{"", "https://example.com/a.png", "data:image/png,plain", "data:image/png;base64,@@@"} {
		_, err := c.Validate(Value{"photoDataUri": bad})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, bad)
		assert.Equal(t, ReasonInvalidFormat, ve.Reason, bad)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	c := mealsInput()
	in := Value{"dietaryPreferences": "vegan", "caloricNeeds": "2000", "macroGoals": "keto", "x": 1}
	_, err := c.Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "2000", in["caloricNeeds"])
	assert.Contains(t, in, "x")
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	c := MustNew(
		String("query", "The user query about fitness."),
		String("pastInteractions", "Summary of past interactions.").Optional(),
		Strings("mealSuggestions", ""),
	)
	want := "- query (string, required): The user query about fitness.\n" +
		"- pastInteractions (string, optional): Summary of past interactions.\n" +
		"- mealSuggestions (string[], required)"
	assert.Equal(t, want, Describe(c))
}

func TestJSONSchema(t *testing.T) {
	t.Parallel()

	c := MustNew(
		String("query", "Query.").NotEmpty(),
		Strings("tags", "").Optional(),
	)
	doc := c.JSONSchema()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"query"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "Query.", "pattern": `\S`}, props["query"])
	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"type": "string"}}, props["tags"])

	// callers get their own copy
	props["query"].(map[string]any)["type"] = "number"
	again := c.JSONSchema()["properties"].(map[string]any)["query"].(map[string]any)
	assert.Equal(t, "string", again["type"])
}

func TestParseDataURI(t *testing.T) {
	t.Parallel()

	got, err := ParseDataURI("data:image/jpeg;name=x.jpg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, []byte("hello"), got.Data)

	_, err = ParseDataURI("data:;base64,aGVsbG8=")
	assert.Error(t, err)
}
