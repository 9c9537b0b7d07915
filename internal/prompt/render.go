package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metalagman/fitgenius/internal/schema"
)

// Media is an inline binary attachment referenced by a media directive.
type Media struct {
	Field       string
	ContentType string
	Data        []byte
}

// Rendered is the result of rendering a template for one call.
type Rendered struct {
	Text  string
	Media []Media
}

// MediaError reports a media directive whose value could not be decoded.
type MediaError struct {
	Field string
	Err   error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media field %q: %v", e.Field, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

// Render substitutes fields of value into the template. Absent fields render
// as the empty string. An error is returned only when a media directive
// references a value that is not a data URI.
func (t *Template) Render(value schema.Value) (Rendered, error) {
	var (
		b   strings.Builder
		out Rendered
	)
	for _, seg := range t.segments {
		switch seg.kind {
		case segmentText:
			b.WriteString(seg.value)
		case segmentField:
			b.WriteString(Stringify(value[seg.value]))
		case segmentMedia:
			raw, _ := value[seg.value].(string)
			if raw == "" {
				continue
			}
			uri, err := schema.ParseDataURI(raw)
			if err != nil {
				return Rendered{}, &MediaError{Field: seg.value, Err: err}
			}
			out.Media = append(out.Media, Media{Field: seg.value, ContentType: uri.ContentType, Data: uri.Data})
		}
	}
	out.Text = b.String()
	return out, nil
}

// Stringify formats a validated field value for substitution.
func Stringify(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	case []string:
		return strings.Join(tv, ", ")
	default:
		return fmt.Sprint(tv)
	}
}
