package prompt

import (
	"testing"

	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"Hello {{name",
		"Hello {{{name}}",
		"Hello {{}}",
		"Hello {{first name}}",
		"{{media src=photo}}",
	} {
		_, err := Parse(src)
		assert.Error(t, err, src)
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	tmpl := MustParse("{{{b}}} and {{a}} then {{ b }} {{media url=photo}}")
	assert.Equal(t, []string{"b", "a", "photo"}, tmpl.Placeholders())
}

func TestCheck(t *testing.T) {
	t.Parallel()

	c := schema.MustNew(
		schema.String("a", ""),
		schema.Number("n", "").Optional(),
		schema.String("photo", "").WithFormat(schema.FormatDataURI),
	)

	require.NoError(t, MustParse("{{a}} {{n}} {{media url=photo}}").Check(c))
	assert.ErrorContains(t, MustParse("{{a}} {{missing}}").Check(c), `"missing"`)
	assert.Error(t, MustParse("{{media url=n}}").Check(c))
	assert.Error(t, MustParse("{{media url=other}}").Check(c))
}

func TestRender(t *testing.T) {
	t.Parallel()

	tmpl := MustParse("A={{a}}, B={{{b}}}.")
	out, err := tmpl.Render(schema.Value{"a": "X", "b": "Y"})
	require.NoError(t, err)
	assert.Equal(t, "A=X, B=Y.", out.Text)
	assert.Empty(t, out.Media)
}

func TestRender_AbsentOptionalIsEmpty(t *testing.T) {
	t.Parallel()

	tmpl := MustParse("Personal Settings: {{{personalSettings}}}\nUser Query: {{{query}}}")
	out, err := tmpl.Render(schema.Value{"query": "How do I squat?"})
	require.NoError(t, err)
	assert.Equal(t, "Personal Settings: \nUser Query: How do I squat?", out.Text)
	assert.NotContains(t, out.Text, "{{")
}

func TestRender_Kinds(t *testing.T) {
	t.Parallel()

	tmpl := MustParse("{{n}}|{{f}}|{{b}}|{{s}}")
	out, err := tmpl.Render(schema.Value{
		"n": float64(2000),
		"f": 72.5,
		"b": true,
		"s": []string{"dumbbells", "bench"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2000|72.5|true|dumbbells, bench", out.Text)
}

func TestRender_Media(t *testing.T) {
	t.Parallel()

	tmpl := MustParse("Identify this.\nPhoto: {{media url=photoDataUri}}")
	out, err := tmpl.Render(schema.Value{"photoDataUri": "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.Equal(t, "Identify this.\nPhoto: ", out.Text)
	require.Len(t, out.Media, 1)
	assert.Equal(t, Media{Field: "photoDataUri", ContentType: "image/png", Data: []byte("hello")}, out.Media[0])

	_, err = tmpl.Render(schema.Value{"photoDataUri": "not-a-uri"})
	var me *MediaError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "photoDataUri", me.Field)
}
