package openaiapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SendsStructuredOutputRequest(t *testing.T) {
	const envKey = "FITGENIUS_OPENAI_TEST_KEY"
	t.Setenv(envKey, "test-api-key")

	var gotAuth string
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"error": {"code": "", "message": ""},
			"output": [
				{
					"type": "message",
					"role": "assistant",
					"content": [
						{"type": "output_text", "text": "{\"response\":\"Drink water.\"}", "annotations": []}
					]
				}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Model:     "gpt-4o-mini",
		BaseURL:   srv.URL,
		APIKeyEnv: envKey,
	}, srv.Client())
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), Request{
		Instructions: "Output only JSON.",
		Prompt:       "User Query: how much water?",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"response": map[string]any{"type": "string"}},
			"required":   []any{"response"},
		},
		FormatName: "fitnessChatbot",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"response":"Drink water."}`, out)

	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "/responses", gotPath)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, "Output only JSON.", gotBody["instructions"])
	assert.Equal(t, "User Query: how much water?", gotBody["input"])

	text, ok := gotBody["text"].(map[string]any)
	require.True(t, ok, "text config missing from request: %v", gotBody)
	format, ok := text["format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "fitnessChatbot", format["name"])
}

func TestNewClient_MissingAPIKeyNamesEnv(t *testing.T) {
	const envKey = "FITGENIUS_OPENAI_MISSING_KEY"
	require.NoError(t, os.Unsetenv(envKey))

	_, err := NewClient(Config{
		Model:     "gpt-4o-mini",
		BaseURL:   "http://127.0.0.1",
		APIKeyEnv: envKey,
	}, nil)
	assert.ErrorContains(t, err, envKey)
}

func TestNewClient_RequiresModel(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k"}, nil)
	assert.ErrorContains(t, err, "model is required")
}

func TestGenerate_EmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"error": {"code": "", "message": ""},
			"output": []
		}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
		APIKey:  "test-api-key",
	}, srv.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Instructions: "Output JSON", Prompt: "{}"})
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestGenerate_DoesNotRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
		APIKey:  "test-api-key",
	}, srv.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Instructions: "x", Prompt: "y"})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	assert.Equal(t, 1, calls, "client must not retry")
}
