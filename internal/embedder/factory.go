package embedder

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Provider names
const (
	ProviderJina   = "jina"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Provider defaults
const (
	DefaultJinaModel   = "jina-embeddings-v3"
	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultLocalModel  = "local-token-hash"

	DefaultJinaBaseURL = "https://api.jina.ai/v1"

	JinaDimension  = 1024
	LocalDimension = 384

	MaxBatchSize = 100

	DefaultTimeout = 30 * time.Second
)

// Environment variables holding API credentials
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvJinaAPIKey   = "JINA_API_KEY"
)

// Config holds embedder configuration
type Config struct {
	Provider   string        // openai, jina or local; empty selects from available API keys
	Model      string        // empty uses the provider default
	APIKey     string        // empty falls back to the provider's environment variable
	BaseURL    string        // API root override, e.g. for an OpenAI-compatible gateway
	CacheSize  int           // 0 uses DefaultCacheSize, negative disables caching
	Timeout    time.Duration // per-request HTTP timeout
	MaxRetries int           // attempts per API call, 0 uses the default
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// New creates an embedder from configuration.
//
// A missing API key is not an error: the returned embedder reports
// Available() == false and callers degrade gracefully. Only an unknown
// provider name fails.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize >= 0 {
		cache = NewCache(cfg.CacheSize)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = DetectProvider(cfg.APIKey)
	}

	var (
		emb Embedder
		err error
	)
	switch provider {
	case ProviderOpenAI:
		emb, err = NewOpenAIProvider(cfg, cache)
	case ProviderJina:
		emb, err = NewJinaProvider(cfg, cache)
	case ProviderLocal:
		emb, err = NewLocalProvider(cache)
	case ProviderNone:
		return NewUnavailableProvider("no embedding API key configured"), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, cfg.Provider)
	}

	if errors.Is(err, ErrNoProviderEnabled) {
		log.Printf("embedder: %v, semantic search disabled", err)
		return NewUnavailableProvider(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}

	return emb, nil
}

// DetectProvider picks a provider from the available credentials.
// An explicit key is assumed to be an OpenAI key. OPENAI_API_KEY wins over
// JINA_API_KEY. With no key the result is ProviderNone.
func DetectProvider(apiKey string) string {
	if apiKey != "" || os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	if os.Getenv(EnvJinaAPIKey) != "" {
		return ProviderJina
	}
	return ProviderNone
}

func resolveAPIKey(explicit, envVar string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envVar)
}
