package embedder

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"
)

// openAIDimensions lists the output size of the known embedding models
var openAIDimensions = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// OpenAIProvider implements Embedder using the OpenAI embeddings API, or any
// API compatible with it when BaseURL is set.
type OpenAIProvider struct {
	client     *openai.Client
	httpClient *http.Client
	model      string
	cache      *Cache
	retry      RetryConfig
	dimension  atomic.Int64
}

// NewOpenAIProvider creates an OpenAI embedder. The API key falls back to OPENAI_API_KEY.
func NewOpenAIProvider(cfg Config, cache *Cache) (*OpenAIProvider, error) {
	apiKey := resolveAPIKey(cfg.APIKey, EnvOpenAIAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvOpenAIAPIKey)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	httpClient := &http.Client{Timeout: cfg.timeout()}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.HTTPClient = httpClient
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	p := &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		httpClient: httpClient,
		model:      model,
		cache:      cache,
		retry:      DefaultRetryConfig().withMaxRetries(cfg.MaxRetries),
	}
	p.dimension.Store(int64(openAIDimensions[model]))

	return p, nil
}

func (o *OpenAIProvider) Available() bool {
	return true
}

func (o *OpenAIProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	return generateViaBatch(ctx, o, o.cache, req)
}

func (o *OpenAIProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	embeddings, err := retryWithBackoff(ctx, o.retry, func() ([]*Embedding, error) {
		return o.callAPI(ctx, req.Texts, model)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	if !req.NoCache {
		o.cache.storeBatch(req.Texts, embeddings)
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   ProviderOpenAI,
		Model:      model,
	}, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string, model string) ([]*Embedding, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([]*Embedding, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", data.Index)
		}
		embeddings[data.Index] = &Embedding{
			Vector:    data.Embedding,
			Dimension: len(data.Embedding),
			Provider:  ProviderOpenAI,
			Model:     string(resp.Model),
		}
		o.dimension.CompareAndSwap(0, int64(len(data.Embedding)))
	}

	return embeddings, nil
}

func (o *OpenAIProvider) Dimension() int {
	return int(o.dimension.Load())
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
