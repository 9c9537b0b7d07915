// Package openaiapi wraps the OpenAI Responses API for single structured calls.
package openaiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// ErrEmptyOutput is returned when a response carries no output text.
var ErrEmptyOutput = errors.New("openai response did not contain output text")

// Client issues one Responses API request per Generate call. It never retries.
type Client struct {
	model  string
	client openai.Client
}

// NewClient constructs a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(orDefault(strings.TrimSpace(cfg.BaseURL), defaultBaseURL)),
		option.WithRequestTimeout(requestTimeout(cfg)),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Client{model: model, client: openai.NewClient(opts...)}, nil
}

func resolveAPIKey(cfg Config) (string, error) {
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return key, nil
	}
	env := orDefault(strings.TrimSpace(cfg.APIKeyEnv), defaultAPIKeyEnv)
	if key := strings.TrimSpace(os.Getenv(env)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("openai api key is required (set api_key or %s)", env)
}

func requestTimeout(cfg Config) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return defaultTimeout
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate executes req and returns the trimmed output text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.Responses.New(ctx, c.params(req))
	if err != nil {
		return "", fmt.Errorf("openai responses.create: %w", err)
	}
	if msg := strings.TrimSpace(resp.Error.Message); msg != "" {
		return "", fmt.Errorf("openai response failed: %s", msg)
	}
	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

func (c *Client) params(req Request) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(req.Instructions),
		Input:        input(req),
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   orDefault(req.FormatName, defaultFormat),
					Schema: req.Schema,
				},
			},
		}
	}
	return params
}

// input sends a plain string unless images are attached, in which case the
// prompt and images travel as parts of a single user message.
func input(req Request) responses.ResponseNewParamsInputUnion {
	if len(req.Images) == 0 {
		return responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)}
	}
	parts := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: req.Prompt}},
	}
	for _, uri := range req.Images {
		parts = append(parts, responses.ResponseInputContentUnionParam{
			OfInputImage: &responses.ResponseInputImageParam{
				Detail:   responses.ResponseInputImageDetailAuto,
				ImageURL: openai.String(uri),
			},
		})
	}
	return responses.ResponseNewParamsInputUnion{
		OfInputItemList: responses.ResponseInputParam{
			responses.ResponseInputItemParamOfMessage(parts, responses.EasyInputMessageRoleUser),
		},
	}
}

// StatusCode returns the HTTP status of an OpenAI API error in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
