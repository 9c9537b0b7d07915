package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var settingsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// ValidateSettings checks raw settings, as read by viper, against the
// embedded JSON schema. Failures are reported per key, sorted.
func ValidateSettings(settings map[string]any) error {
	s, err := settingsSchema()
	if err != nil {
		return fmt.Errorf("load config schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(settings))
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		key := re.Field()
		if key == "(root)" {
			key = "config"
		}
		problems = append(problems, key+": "+re.Description())
	}
	sort.Strings(problems)
	return fmt.Errorf("config schema validation failed: %s", strings.Join(problems, "; "))
}
