package storage

import (
	"context"

	"github.com/poiesic/gleanit/core"
)

// VectorEntry pairs a chunk ID with its embedding vector.
type VectorEntry struct {
	ChunkID core.ID
	Vector  []float32
}

// VectorCache stores chunk embeddings across runs, keyed by embedding
// model and chunk ID. Implementations must be thread-safe.
type VectorCache interface {
	// GetVectors returns the cached vectors for the given chunk IDs.
	// Missing IDs are simply absent from the result, never an error.
	GetVectors(ctx context.Context, model string, ids ...core.ID) (map[core.ID][]float32, error)

	// PutVectors stores the given entries under the model namespace,
	// overwriting existing entries for the same chunk IDs.
	PutVectors(ctx context.Context, model string, entries ...VectorEntry) error

	// Close closes the cache backend and releases resources.
	Close() error
}
