package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity scoring.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Implementations may split the input into smaller batches internally, but
	// the embedding of a given text must not depend on batch composition.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryFormulator derives search query strings from a persona and task.
// Implementations must be thread-safe for concurrent use.
type QueryFormulator interface {
	// Formulate returns an ordered sequence of search queries, most
	// important first. An empty result or an error means the caller must
	// fall back to the deterministic heuristic intent; formulation failure
	// is never fatal for a run.
	Formulate(ctx context.Context, persona, task string) ([]string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// QueryFormulator instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// QueryFormulator returns the query formulation service.
	// The returned QueryFormulator is safe for concurrent use.
	QueryFormulator() QueryFormulator

	// Close releases resources held by the provider and its services.
	Close() error
}
