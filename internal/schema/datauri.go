package schema

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DataURI is a decoded base64 data URI.
type DataURI struct {
	ContentType string
	Data        []byte
}

var errNotDataURI = errors.New("not a base64 data uri")

// ParseDataURI decodes a data URI of the form data:<type>/<subtype>[;params];base64,<payload>.
func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURI{}, errNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, errNotDataURI
	}
	meta, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return DataURI{}, errNotDataURI
	}
	contentType, _, _ := strings.Cut(meta, ";")
	if !strings.Contains(contentType, "/") {
		return DataURI{}, fmt.Errorf("data uri media type %q: %w", contentType, errNotDataURI)
	}
	if payload == "" {
		return DataURI{}, fmt.Errorf("empty payload: %w", errNotDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURI{}, fmt.Errorf("decode data uri payload: %w", err)
	}
	return DataURI{ContentType: contentType, Data: data}, nil
}

// String encodes u back into base64 data URI form.
func (u DataURI) String() string {
	return "data:" + u.ContentType + ";base64," + base64.StdEncoding.EncodeToString(u.Data)
}
