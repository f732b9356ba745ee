package embedder

import (
	"context"
	"fmt"
)

// ProviderNone names the embedder used when no provider is configured
const ProviderNone = "none"

// UnavailableProvider is the embedder used when no provider could be
// configured. It never performs network calls. Search callers check
// Available() and degrade to a sentinel result instead of failing.
type UnavailableProvider struct {
	reason string
}

// NewUnavailableProvider returns an embedder that reports itself unavailable
func NewUnavailableProvider(reason string) *UnavailableProvider {
	return &UnavailableProvider{reason: reason}
}

// Reason describes why no provider is available
func (u *UnavailableProvider) Reason() string {
	return u.reason
}

func (u *UnavailableProvider) Available() bool {
	return false
}

func (u *UnavailableProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	return nil, u.err()
}

func (u *UnavailableProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	return nil, u.err()
}

func (u *UnavailableProvider) err() error {
	if u.reason == "" {
		return ErrNoProviderEnabled
	}
	return fmt.Errorf("%w: %s", ErrNoProviderEnabled, u.reason)
}

func (u *UnavailableProvider) Dimension() int {
	return 0
}

func (u *UnavailableProvider) Provider() string {
	return ProviderNone
}

func (u *UnavailableProvider) Model() string {
	return ""
}

func (u *UnavailableProvider) Close() error {
	return nil
}
