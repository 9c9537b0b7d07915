// Package config provides configuration loading and management for fitgenius.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Model providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderExec   = "exec"
)

// Gemini backends.
const (
	BackendGeminiAPI = "gemini-api"
	BackendVertex    = "vertex"
)

// Config is the root configuration. It is loaded once at startup and passed
// by value; nothing mutates it afterwards.
type Config struct {
	Model  ModelConfig  `json:"model"  mapstructure:"model"`
	Server ServerConfig `json:"server" mapstructure:"server"`
	Store  StoreConfig  `json:"store"  mapstructure:"store"`
	Log    LogConfig    `json:"log"    mapstructure:"log"`
	Batch  BatchConfig  `json:"batch"  mapstructure:"batch"`
}

// ModelConfig selects and configures the generative model backend.
type ModelConfig struct {
	Provider  string        `json:"provider"              mapstructure:"provider"`
	Name      string        `json:"name,omitempty"        mapstructure:"name"`
	APIKey    string        `json:"api_key,omitempty"     mapstructure:"api_key"`
	APIKeyEnv string        `json:"api_key_env,omitempty" mapstructure:"api_key_env"`
	Backend   string        `json:"backend,omitempty"     mapstructure:"backend"`
	Project   string        `json:"project,omitempty"     mapstructure:"project"`
	Location  string        `json:"location,omitempty"    mapstructure:"location"`
	BaseURL   string        `json:"base_url,omitempty"    mapstructure:"base_url"`
	Timeout   time.Duration `json:"timeout,omitempty"     mapstructure:"timeout"`
	Cmd       []string      `json:"cmd,omitempty"         mapstructure:"cmd"`
	UseTTY    *bool         `json:"use_tty,omitempty"     mapstructure:"use_tty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// StoreConfig configures the call history store. An empty path disables it.
type StoreConfig struct {
	Path string `json:"path,omitempty" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Debug  bool   `json:"debug"  mapstructure:"debug"`
	Format string `json:"format" mapstructure:"format"`
}

// BatchConfig configures batch execution.
type BatchConfig struct {
	Concurrency int `json:"concurrency" mapstructure:"concurrency"`
}

// APIKeyEnvCandidates returns the environment variables consulted for the
// provider's API key, in order.
func (m ModelConfig) APIKeyEnvCandidates() []string {
	if env := strings.TrimSpace(m.APIKeyEnv); env != "" {
		return []string{env}
	}
	switch m.Provider {
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	default:
		return nil
	}
}

// ResolveAPIKey returns the configured key or the first non-empty candidate
// environment variable.
func (m ModelConfig) ResolveAPIKey() string {
	if key := strings.TrimSpace(m.APIKey); key != "" {
		return key
	}
	for _, env := range m.APIKeyEnvCandidates() {
		if key := strings.TrimSpace(os.Getenv(env)); key != "" {
			return key
		}
	}
	return ""
}

// Validate performs semantic checks not expressible in the settings schema.
func (c Config) Validate() error {
	switch c.Model.Provider {
	case ProviderGemini:
		if c.Model.Backend == BackendVertex && strings.TrimSpace(c.Model.Project) == "" {
			return fmt.Errorf("model.project is required for the vertex backend")
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.Model.Name) == "" {
			return fmt.Errorf("model.name is required for the openai provider")
		}
	case ProviderExec:
		if len(c.Model.Cmd) == 0 {
			return fmt.Errorf("model.cmd is required for the exec provider")
		}
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Model.Timeout < 0 {
		return fmt.Errorf("model.timeout must be >= 0")
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be > 0")
	}
	return nil
}
