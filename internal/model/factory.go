package model

import (
	"context"
	"fmt"
	"os"

	"github.com/metalagman/fitgenius/internal/config"
	"github.com/metalagman/fitgenius/internal/model/openaiapi"
)

// New constructs the invoker selected by cfg.
func New(ctx context.Context, cfg config.ModelConfig) (Invoker, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGemini(ctx, GeminiConfig{
			Model:    cfg.Name,
			APIKey:   cfg.ResolveAPIKey(),
			Vertex:   cfg.Backend == config.BackendVertex,
			Project:  cfg.Project,
			Location: cfg.Location,
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
		}, nil)
	case config.ProviderOpenAI:
		client, err := openaiapi.NewClient(openaiapi.Config{
			Model:   cfg.Name,
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.ResolveAPIKey(),
			Timeout: cfg.Timeout,
		}, nil)
		if err != nil {
			return nil, err
		}
		return NewOpenAI(client), nil
	case config.ProviderExec:
		return NewExec(ExecConfig{
			Cmd:     cfg.Cmd,
			UseTTY:  cfg.UseTTY != nil && *cfg.UseTTY,
			Timeout: cfg.Timeout,
			Stderr:  os.Stderr,
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
