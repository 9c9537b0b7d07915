package openaiapi

import "time"

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultAPIKeyEnv = "OPENAI_API_KEY"
	defaultTimeout   = 60 * time.Second
	defaultFormat    = "output"
)

// Config is OpenAI API client configuration.
type Config struct {
	Model     string
	BaseURL   string
	APIKey    string
	APIKeyEnv string
	Timeout   time.Duration
}

// Request is one structured Responses API call.
type Request struct {
	Instructions string
	Prompt       string
	// Images are data URIs sent as input_image parts after the prompt.
	Images []string
	// Schema, when set, requests JSON output matching it under FormatName.
	Schema     map[string]any
	FormatName string
}
