package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable.
// A double underscore separates nested keys: CODESENSE_CHUNK__SIZE sets chunk.size.
const EnvPrefix = "CODESENSE_"

// DotEnvFile is loaded, when present, before environment overrides are read
const DotEnvFile = ".env"

// ErrInvalidConfig is returned when validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and CODESENSE_* environment variables,
// in increasing order of precedence. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// existing environment variables win over .env entries
	if err := godotenv.Load(DotEnvFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading %s: %w", DotEnvFile, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps CODESENSE_INDEX__DB_PATH to index.db_path
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

var validProviders = map[string]bool{
	"":       true,
	"openai": true,
	"jina":   true,
	"local":  true,
}

var validBackends = map[string]bool{
	"":       true,
	"memory": true,
	"sqlite": true,
}

// Validate checks that the configuration contains usable values
func (c *Config) Validate() error {
	if c.Chunk.Size <= 0 {
		return fmt.Errorf("%w: chunk.size must be positive, got %d", ErrInvalidConfig, c.Chunk.Size)
	}
	if c.Chunk.Overlap < 0 {
		return fmt.Errorf("%w: chunk.overlap must be non-negative, got %d", ErrInvalidConfig, c.Chunk.Overlap)
	}
	if c.Chunk.Overlap >= c.Chunk.Size {
		return fmt.Errorf("%w: chunk.overlap (%d) must be smaller than chunk.size (%d)",
			ErrInvalidConfig, c.Chunk.Overlap, c.Chunk.Size)
	}

	provider := strings.ToLower(c.Embedding.Provider)
	if !validProviders[provider] {
		return fmt.Errorf("%w: unknown embedding.provider %q: must be one of openai, jina, local",
			ErrInvalidConfig, c.Embedding.Provider)
	}
	if c.Embedding.Timeout < 0 {
		return fmt.Errorf("%w: embedding.timeout must be non-negative", ErrInvalidConfig)
	}
	if c.Embedding.MaxRetries < 0 {
		return fmt.Errorf("%w: embedding.max_retries must be non-negative", ErrInvalidConfig)
	}

	if !validBackends[strings.ToLower(c.Index.Backend)] {
		return fmt.Errorf("%w: unknown index.backend %q: must be memory or sqlite",
			ErrInvalidConfig, c.Index.Backend)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("%w: index.workers must be non-negative", ErrInvalidConfig)
	}

	if c.Catalog.MaxFileSize < 0 {
		return fmt.Errorf("%w: catalog.max_file_size must be non-negative", ErrInvalidConfig)
	}

	if c.Search.DefaultTopK < 0 {
		return fmt.Errorf("%w: search.default_top_k must be non-negative", ErrInvalidConfig)
	}

	return nil
}
