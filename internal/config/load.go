package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FITGENIUS_MODEL_PROVIDER.
const EnvPrefix = "FITGENIUS"

var envKeys = []string{
	"model.provider",
	"model.name",
	"model.api_key",
	"model.api_key_env",
	"model.backend",
	"model.project",
	"model.location",
	"model.base_url",
	"model.timeout",
	"model.cmd",
	"model.use_tty",
	"server.addr",
	"store.path",
	"log.debug",
	"log.format",
	"batch.concurrency",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.provider", ProviderGemini)
	v.SetDefault("model.backend", BackendGeminiAPI)
	v.SetDefault("model.location", "us-central1")
	v.SetDefault("model.timeout", "60s")
	v.SetDefault("server.addr", ":9002")
	v.SetDefault("log.format", "console")
	v.SetDefault("batch.concurrency", 4)
}

// Options controls where configuration is read from.
type Options struct {
	// Path is an optional config file (yaml or json). Empty means defaults and environment only.
	Path string
	// DotEnv is an optional .env file loaded before the environment is read.
	DotEnv string
}

// Load reads configuration from the config file, the .env file and
// FITGENIUS_* environment variables, validates it and returns it.
func Load(opts Options) (Config, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := ValidateSettings(v.AllSettings()); err != nil {
		return Config{}, err
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(" "),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
