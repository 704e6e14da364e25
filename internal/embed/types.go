// Package embed is the boundary adapter for turning note text into vectors:
// a provider abstraction over HTTP embedding APIs, a heading-aware chunker,
// and the cosine-similarity helpers the persistence layer needs to rank
// nearest neighbors. None of this is reachable unless a caller explicitly
// configures a provider — an unconfigured vault never makes a network call.
package embed

import "context"

// Vector is a dense embedding, one float32 per dimension.
type Vector []float32

// Chunk is one heading-scoped slice of a note's body, ready to embed.
type Chunk struct {
	Index      int
	Text       string
	Breadcrumb string
	Heading    string
	Hash       string // sha256 of Text, used to skip re-embedding unchanged chunks
}

// ProviderConfig selects and configures a Provider.
type ProviderConfig struct {
	Provider       string // "openai", "ollama", "none"
	Model          string
	APIKey         string
	Endpoint       string
	Dimensions     int
	MaxConcurrency int
	BatchSize      int
}

// Provider turns text into vectors. Implementations talk to a remote
// service; callers should treat EmbedTexts as a network call with the
// latency and failure modes that implies.
type Provider interface {
	EmbedTexts(ctx context.Context, texts []string) ([]Vector, error)
	Dimensions() int
}
