// Package embedder turns code and queries into vectors.
//
// Three providers are supported: OpenAI (and OpenAI-compatible gateways via
// BaseURL), Jina AI, and a local token-hashing embedder that works offline.
// All of them cache vectors in an LRU keyed by the SHA-256 of the text and
// retry transient API failures with exponential backoff.
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	if !emb.Available() {
//	    // no credentials: callers degrade instead of failing
//	}
//
//	result, err := emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{
//	    Text: "public void PrintMessage() { ... }",
//	})
//
// # Provider Selection
//
// When Config.Provider is empty the provider is picked from credentials:
//
//  1. Config.APIKey or OPENAI_API_KEY selects OpenAI
//  2. JINA_API_KEY selects Jina
//  3. Otherwise the embedder is unavailable
//
// The local provider is only used when requested explicitly. A provider that
// is requested but has no key also yields an unavailable embedder rather than
// an error, so a missing key never stops the server from starting.
//
// # Retries
//
// Rate limiting (429), server errors (5xx) and transport failures are retried
// up to Config.MaxRetries times. Other client errors fail on the first attempt.
package embedder
