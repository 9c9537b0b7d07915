package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultVertexLocation = "us-central1"
	defaultTimeout        = 60 * time.Second
)

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	Model    string
	APIKey   string
	Vertex   bool
	Project  string
	Location string
	BaseURL  string
	Timeout  time.Duration
}

// Gemini invokes Google Gemini models through the genai SDK with structured
// JSON output.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini constructs a Gemini invoker. httpClient may be nil.
func NewGemini(ctx context.Context, cfg GeminiConfig, httpClient *http.Client) (*Gemini, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cc := &genai.ClientConfig{
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Vertex {
		if strings.TrimSpace(cfg.Project) == "" {
			return nil, fmt.Errorf("vertex backend requires a project")
		}
		location := cfg.Location
		if location == "" {
			location = defaultVertexLocation
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = location
	} else {
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("gemini api key is required (set api_key or api_key_env)")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// Invoke implements Invoker.
func (g *Gemini) Invoke(ctx context.Context, req Request) (schema.Value, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt.Text)}
	for _, m := range req.Prompt.Media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.ContentType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(Instructions(req), genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	if req.OutputSchema != nil {
		cfg.ResponseJsonSchema = req.OutputSchema
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, classifyGemini(fmt.Errorf("gemini generate content: %w", err))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, Failf(MalformedResponse, "gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, Failf(MalformedResponse, "gemini response did not contain output text")
	}
	log.Debug().Str("flow", req.Flow).Str("model", g.model).Int("bytes", len(text)).Msg("gemini response received")
	return DecodeOutput([]byte(text))
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return Fail(KindForStatus(apiErr.Code), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return Fail(KindForStatus(apiErrPtr.Code), err)
	}
	return Classify(err)
}
