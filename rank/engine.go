// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/gleanit/ai"
	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/storage"
)

const (
	defaultBatchSize      = 64
	defaultPerDocumentCap = 3
	defaultMaxAttempts    = 3
	defaultBaseDelay      = 200 * time.Millisecond
)

// Engine scores chunks against intents and selects the top results.
type Engine struct {
	embedder       ai.Embedder
	cache          storage.VectorCache
	cacheModel     string
	batchSize      int
	perDocumentCap int
	maxAttempts    int
	baseDelay      time.Duration
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithBatchSize sets how many chunk texts are embedded per batch.
func WithBatchSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		e.batchSize = size
		return nil
	}
}

// WithPerDocumentCap limits how many chunks a single document may
// contribute to the selection. Zero disables the cap.
func WithPerDocumentCap(limit int) Option {
	return func(e *Engine) error {
		if limit < 0 {
			return fmt.Errorf("per-document cap must not be negative, got %d", limit)
		}
		e.perDocumentCap = limit
		return nil
	}
}

// WithRetry configures embedding retry behavior.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Engine) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		e.maxAttempts = maxAttempts
		e.baseDelay = baseDelay
		return nil
	}
}

// WithVectorCache enables caching of chunk vectors keyed by the given
// embedding model name. Intent vectors are never cached.
func WithVectorCache(cache storage.VectorCache, model string) Option {
	return func(e *Engine) error {
		if cache != nil && model == "" {
			return fmt.Errorf("cache model name must not be empty")
		}
		e.cache = cache
		e.cacheModel = model
		return nil
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// NewEngine creates a ranking engine backed by the given embedder.
func NewEngine(embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		embedder:       embedder,
		batchSize:      defaultBatchSize,
		perDocumentCap: defaultPerDocumentCap,
		maxAttempts:    defaultMaxAttempts,
		baseDelay:      defaultBaseDelay,
		logger:         slog.Default().With("component", "rank-engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Rank scores every chunk against every intent and returns at most topK
// chunks ordered by score descending, ties broken by document ID, page,
// then start offset ascending. Duplicate chunk IDs are collapsed before
// scoring. A topK of zero or less means no truncation.
//
// Each chunk is scored by its best intent; when several intents tie, the
// lowest-rank intent wins so results stay deterministic.
func (e *Engine) Rank(ctx context.Context, chunks []core.Chunk, intents []core.QueryIntent, topK int) (core.Selection, error) {
	if len(chunks) == 0 || len(intents) == 0 {
		return core.Selection{}, nil
	}

	chunks = dedupeChunks(chunks)

	intentVectors, err := e.embedIntents(ctx, intents)
	if err != nil {
		return nil, fmt.Errorf("embedding intents: %w", err)
	}

	chunkVectors, err := e.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	scored := make(core.Selection, 0, len(chunks))
	for i, chunk := range chunks {
		best := intents[0]
		bestSim := DotProduct(chunkVectors[i], intentVectors[0])
		for j := 1; j < len(intents); j++ {
			sim := DotProduct(chunkVectors[i], intentVectors[j])
			if sim > bestSim || (sim == bestSim && intents[j].Rank < best.Rank) {
				bestSim = sim
				best = intents[j]
			}
		}
		scored = append(scored, core.ScoredChunk{
			Chunk:  chunk,
			Score:  scoreFromSimilarity(bestSim),
			Intent: best,
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		ca, cb := scored[a].Chunk, scored[b].Chunk
		if ca.DocumentID != cb.DocumentID {
			return ca.DocumentID < cb.DocumentID
		}
		if ca.Page != cb.Page {
			return ca.Page < cb.Page
		}
		return ca.Start < cb.Start
	})

	scored = e.applyDocumentCap(scored)

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// dedupeChunks drops repeated chunk IDs, keeping the first occurrence.
func dedupeChunks(chunks []core.Chunk) []core.Chunk {
	seen := make(map[core.ID]struct{}, len(chunks))
	out := chunks[:0:0]
	for _, c := range chunks {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (e *Engine) applyDocumentCap(scored core.Selection) core.Selection {
	if e.perDocumentCap <= 0 {
		return scored
	}
	counts := make(map[string]int)
	out := scored[:0:0]
	for _, sc := range scored {
		if counts[sc.Chunk.DocumentID] >= e.perDocumentCap {
			continue
		}
		counts[sc.Chunk.DocumentID]++
		out = append(out, sc)
	}
	return out
}

func (e *Engine) embedIntents(ctx context.Context, intents []core.QueryIntent) ([][]float32, error) {
	texts := make([]string, len(intents))
	for i, intent := range intents {
		texts[i] = intent.Text
	}
	return e.embedBatched(ctx, texts)
}

// embedChunks returns one normalized vector per chunk, in chunk order.
// When a cache is configured, hits skip the embedder and fresh vectors
// are written back; cache failures degrade to embedding everything.
func (e *Engine) embedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	missing := make([]int, 0, len(chunks))
	if e.cache != nil {
		ids := make([]core.ID, len(chunks))
		for i, c := range chunks {
			ids[i] = c.ID
		}
		cached, err := e.cache.GetVectors(ctx, e.cacheModel, ids...)
		if err != nil {
			e.logger.Warn("vector cache read failed, embedding all chunks", "err", err)
			cached = nil
		}
		for i, c := range chunks {
			if v, ok := cached[c.ID]; ok {
				vectors[i] = v
			} else {
				missing = append(missing, i)
			}
		}
	} else {
		for i := range chunks {
			missing = append(missing, i)
		}
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	texts := make([]string, len(missing))
	for n, i := range missing {
		texts[n] = chunks[i].Text
	}

	fresh, err := e.embedBatched(ctx, texts)
	if err != nil {
		return nil, err
	}
	for n, i := range missing {
		vectors[i] = fresh[n]
	}

	if e.cache != nil {
		entries := make([]storage.VectorEntry, len(missing))
		for n, i := range missing {
			entries[n] = storage.VectorEntry{ChunkID: chunks[i].ID, Vector: fresh[n]}
		}
		if err := e.cache.PutVectors(ctx, e.cacheModel, entries...); err != nil {
			e.logger.Warn("vector cache write failed", "err", err)
		}
	}
	return vectors, nil
}

// embedBatched embeds texts in batches with retry, normalizing every
// vector so scoring can use plain dot products.
func (e *Engine) embedBatched(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var vectors [][]float32
		err := RetryWithBackoff(ctx, e.logger, func() error {
			var embedErr error
			vectors, embedErr = e.embedder.EmbedTexts(ctx, batch)
			return embedErr
		}, e.maxAttempts, e.baseDelay)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts",
				ErrEmbeddingCountMismatch, len(vectors), len(batch))
		}
		for _, v := range vectors {
			out = append(out, NormalizeVector(v))
		}
	}
	return out, nil
}
