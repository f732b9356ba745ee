package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJinaTestServer(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"nope"}`))
			return
		}

		var req jinaRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// answer in reverse order to check index handling
		var resp jinaResponse
		resp.Model = req.Model
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{Embedding: []float32{float32(i), 1}, Index: i})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestJina(t *testing.T, baseURL string) *JinaProvider {
	t.Helper()
	p, err := NewJinaProvider(Config{APIKey: "test-key", BaseURL: baseURL + "/v1"}, NewCache(10))
	require.NoError(t, err)
	p.retry = fastRetry(3)
	return p
}

func TestJinaProvider(t *testing.T) {
	t.Run("batch keeps input order", func(t *testing.T) {
		var calls atomic.Int32
		server := newJinaTestServer(t, &calls, http.StatusOK)
		defer server.Close()

		p := newTestJina(t, server.URL)
		resp, err := p.GenerateBatch(context.Background(), BatchEmbeddingRequest{Texts: []string{"a", "b", "c"}})
		require.NoError(t, err)

		require.Len(t, resp.Embeddings, 3)
		for i, emb := range resp.Embeddings {
			assert.Equal(t, float32(i), emb.Vector[0])
			assert.Equal(t, ProviderJina, emb.Provider)
		}
		assert.Equal(t, DefaultJinaModel, resp.Model)
	})

	t.Run("single embedding is cached", func(t *testing.T) {
		var calls atomic.Int32
		server := newJinaTestServer(t, &calls, http.StatusOK)
		defer server.Close()

		p := newTestJina(t, server.URL)
		ctx := context.Background()

		_, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "class Foo {}"})
		require.NoError(t, err)
		_, err = p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "class Foo {}"})
		require.NoError(t, err)

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("uncached request always calls the API", func(t *testing.T) {
		var calls atomic.Int32
		server := newJinaTestServer(t, &calls, http.StatusOK)
		defer server.Close()

		p := newTestJina(t, server.URL)
		ctx := context.Background()

		_, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "find foo", NoCache: true})
		require.NoError(t, err)
		_, err = p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "find foo", NoCache: true})
		require.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load())
		assert.Zero(t, p.cache.Size())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls atomic.Int32
		server := newJinaTestServer(t, &calls, http.StatusInternalServerError)
		defer server.Close()

		p := newTestJina(t, server.URL)
		_, err := p.GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "x"})

		assert.ErrorIs(t, err, ErrProviderFailed)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("auth errors fail fast", func(t *testing.T) {
		var calls atomic.Int32
		server := newJinaTestServer(t, &calls, http.StatusUnauthorized)
		defer server.Close()

		p := newTestJina(t, server.URL)
		_, err := p.GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "x"})

		assert.ErrorIs(t, err, ErrProviderFailed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("empty text rejected", func(t *testing.T) {
		p := newTestJina(t, "http://127.0.0.1:1")
		_, err := p.GenerateEmbedding(context.Background(), EmbeddingRequest{})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(EnvJinaAPIKey, "")
		_, err := NewJinaProvider(Config{}, nil)
		assert.ErrorIs(t, err, ErrNoProviderEnabled)
	})

	t.Run("metadata", func(t *testing.T) {
		p := newTestJina(t, "http://127.0.0.1:1")
		assert.True(t, p.Available())
		assert.Equal(t, JinaDimension, p.Dimension())
		assert.Equal(t, ProviderJina, p.Provider())
		assert.Equal(t, DefaultJinaModel, p.Model())
		assert.NoError(t, p.Close())
	})
}
