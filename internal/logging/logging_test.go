package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, true, FormatJSON)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Str("flow", "suggestMeals").Msg("flow completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "suggestMeals", entry["flow"])
	assert.Equal(t, "flow completed", entry["message"])
	assert.True(t, DebugEnabled())
}

func TestInitWriter_ConsoleSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false, FormatConsole)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, DebugEnabled())
}
