package schema

import "maps"

const (
	nonBlankPattern = `\S`
	dataURIPattern  = `^data:[A-Za-z0-9.+-]+/[A-Za-z0-9.+-]+(;[A-Za-z0-9.+-]+=[A-Za-z0-9.+"-]+)*;base64,[A-Za-z0-9+/]+={0,2}$`
)

// JSONSchema returns a JSON Schema document describing the contract.
// The returned map is a fresh copy and may be modified by the caller.
func (c *Contract) JSONSchema() map[string]any {
	return cloneDocument(c.document)
}

// JSONSchema returns the JSON Schema document for c.
func JSONSchema(c *Contract) map[string]any {
	return c.JSONSchema()
}

func buildDocument(fields []Field) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]any, 0, len(fields))
	for _, f := range fields {
		properties[f.Name] = fieldDocument(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldDocument(f Field) map[string]any {
	prop := map[string]any{}
	switch f.Kind {
	case KindString:
		prop["type"] = "string"
	case KindNumber:
		prop["type"] = "number"
	case KindBoolean:
		prop["type"] = "boolean"
	case KindStringSlice:
		prop["type"] = "array"
		prop["items"] = map[string]any{"type": "string"}
	}
	if f.Description != "" {
		prop["description"] = f.Description
	}
	switch {
	case f.Format == FormatDataURI:
		prop["pattern"] = dataURIPattern
	case f.NonEmpty && f.Kind == KindString:
		prop["pattern"] = nonBlankPattern
	}
	return prop
}

func cloneDocument(doc map[string]any) map[string]any {
	out := maps.Clone(doc)
	for k, v := range out {
		switch tv := v.(type) {
		case map[string]any:
			out[k] = cloneDocument(tv)
		case []any:
			out[k] = append([]any(nil), tv...)
		}
	}
	return out
}
