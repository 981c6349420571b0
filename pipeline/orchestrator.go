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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/gleanit/ai"
	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/extract"
	"github.com/poiesic/gleanit/rank"
	"github.com/poiesic/gleanit/storage"
)

const (
	defaultTopK               = 5
	defaultOverallDeadline    = 10 * time.Second
	defaultFormulationTimeout = 5 * time.Second
)

// Orchestrator drives a complete analysis run.
type Orchestrator struct {
	provider    ai.Provider
	coordinator *extract.Coordinator
	engine      *rank.Engine

	topK               int
	overallDeadline    time.Duration
	formulationTimeout time.Duration
	logger             *slog.Logger

	// deferred until New so orchestrator options can feed them
	coordinatorOpts []extract.Option
	engineOpts      []rank.Option
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithTopK sets the maximum number of chunks in the final selection.
func WithTopK(k int) Option {
	return func(o *Orchestrator) error {
		if k <= 0 {
			return fmt.Errorf("top-k must be positive, got %d", k)
		}
		o.topK = k
		return nil
	}
}

// WithOverallDeadline sets the soft deadline for the extraction stage.
// After it expires, pending documents are reported as timed out and the
// run continues with whatever was extracted. Zero disables the deadline.
func WithOverallDeadline(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d < 0 {
			return fmt.Errorf("overall deadline must not be negative")
		}
		o.overallDeadline = d
		return nil
	}
}

// WithFormulationTimeout bounds the query formulation call.
func WithFormulationTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return fmt.Errorf("formulation timeout must be positive")
		}
		o.formulationTimeout = d
		return nil
	}
}

// WithPoolSize sets the extraction worker pool size.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		o.coordinatorOpts = append(o.coordinatorOpts, extract.WithPoolSize(size))
		return nil
	}
}

// WithDocumentTimeout sets the per-document extraction timeout.
func WithDocumentTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		o.coordinatorOpts = append(o.coordinatorOpts, extract.WithDocumentTimeout(d))
		return nil
	}
}

// WithChunker sets the chunker used during extraction.
func WithChunker(chunker *extract.Chunker) Option {
	return func(o *Orchestrator) error {
		o.coordinatorOpts = append(o.coordinatorOpts, extract.WithChunker(chunker))
		return nil
	}
}

// WithPerDocumentCap limits how many chunks one document may contribute
// to the selection. Zero disables the cap.
func WithPerDocumentCap(limit int) Option {
	return func(o *Orchestrator) error {
		o.engineOpts = append(o.engineOpts, rank.WithPerDocumentCap(limit))
		return nil
	}
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) Option {
	return func(o *Orchestrator) error {
		o.engineOpts = append(o.engineOpts, rank.WithBatchSize(size))
		return nil
	}
}

// WithVectorCache enables the embedding vector cache for the given model.
func WithVectorCache(cache storage.VectorCache, model string) Option {
	return func(o *Orchestrator) error {
		o.engineOpts = append(o.engineOpts, rank.WithVectorCache(cache, model))
		return nil
	}
}

// WithRetry configures embedding retry behavior.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(o *Orchestrator) error {
		o.engineOpts = append(o.engineOpts, rank.WithRetry(maxAttempts, baseDelay))
		return nil
	}
}

// WithLogger sets the logger for the orchestrator and its stages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		o.logger = logger
		o.coordinatorOpts = append(o.coordinatorOpts, extract.WithLogger(logger))
		o.engineOpts = append(o.engineOpts, rank.WithLogger(logger))
		return nil
	}
}

// New creates an orchestrator around an AI provider and a document
// extractor, building the extraction coordinator and ranking engine
// internally.
func New(provider ai.Provider, extractor extract.Extractor, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	o := &Orchestrator{
		provider:           provider,
		topK:               defaultTopK,
		overallDeadline:    defaultOverallDeadline,
		formulationTimeout: defaultFormulationTimeout,
		logger:             slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	coordinator, err := extract.NewCoordinator(extractor, o.coordinatorOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating coordinator: %w", err)
	}

	engine, err := rank.NewEngine(provider.Embedder(), o.engineOpts...)
	if err != nil {
		coordinator.Release()
		return nil, fmt.Errorf("creating ranking engine: %w", err)
	}

	o.coordinator = coordinator
	o.engine = engine
	return o, nil
}

// Run executes the pipeline for one request. The returned result is
// populated even on failure wherever partial information exists; a nil
// result is only returned for an invalid request.
func (o *Orchestrator) Run(ctx context.Context, request core.AnalysisRequest) (*core.PipelineResult, error) {
	started := time.Now()
	result := &core.PipelineResult{
		Request:   request,
		StartedAt: started,
	}

	stageStart := started
	recordStage := func(state State) {
		now := time.Now()
		result.Stages = append(result.Stages, core.StageTiming{
			Stage:   state.String(),
			Elapsed: now.Sub(stageStart),
		})
		stageStart = now
	}

	if err := core.ValidateRequest(&request); err != nil {
		o.logger.Error("request validation failed", "err", err)
		return nil, err
	}
	recordStage(StateValidating)

	intents := o.formulate(ctx, request, result)
	recordStage(StateFormulating)

	chunks := o.extractAll(ctx, request, result)
	recordStage(StateExtracting)

	if len(chunks) == 0 {
		result.Status = core.StatusFailed
		result.Elapsed = time.Since(started)
		o.logger.Error("no usable input", "documents", len(request.Documents))
		return result, ErrNoUsableInput
	}

	// Ranking runs on the parent context so a soft extraction deadline
	// never cuts off scoring of what was already extracted.
	selection, err := o.engine.Rank(ctx, chunks, intents, o.topK)
	if err != nil {
		result.Status = core.StatusFailed
		result.Elapsed = time.Since(started)
		return result, fmt.Errorf("%w: %w", ErrRanking, err)
	}
	result.Selection = selection
	recordStage(StateRanking)

	o.assemble(result)
	recordStage(StateAssembling)
	result.Elapsed = time.Since(started)

	o.logger.Info("pipeline run complete",
		"status", result.Status,
		"documents", len(result.Documents),
		"processed", result.DocumentsProcessed,
		"chunks", result.ChunksExtracted,
		"selected", len(result.Selection),
		"elapsed", result.Elapsed)
	return result, nil
}

// formulate derives search intents, degrading to the heuristic intent
// with exactly one warning when formulation fails or returns nothing.
func (o *Orchestrator) formulate(ctx context.Context, request core.AnalysisRequest, result *core.PipelineResult) []core.QueryIntent {
	fctx, cancel := context.WithTimeout(ctx, o.formulationTimeout)
	defer cancel()

	queries, err := o.provider.QueryFormulator().Formulate(fctx, request.Persona, request.Task)
	if err != nil || len(queries) == 0 {
		message := "query formulation returned no queries, using heuristic intent"
		if err != nil {
			message = fmt.Sprintf("query formulation failed, using heuristic intent: %v", err)
		}
		o.logger.Warn("formulation degraded", "err", err)
		result.Warnings = append(result.Warnings, core.Warning{Source: "formulation", Message: message})
		return []core.QueryIntent{core.FallbackIntent(request.Persona, request.Task)}
	}

	intents := make([]core.QueryIntent, len(queries))
	for i, q := range queries {
		intents[i] = core.QueryIntent{Text: q, Rank: i}
	}
	return intents
}

// extractAll runs extraction under the soft overall deadline and folds
// per-document reports into the result.
func (o *Orchestrator) extractAll(ctx context.Context, request core.AnalysisRequest, result *core.PipelineResult) []core.Chunk {
	ectx := ctx
	if o.overallDeadline > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, o.overallDeadline)
		defer cancel()
	}

	var chunks []core.Chunk
	for _, res := range o.coordinator.ExtractAll(ectx, request.Documents) {
		result.Documents = append(result.Documents, res.Report)
		if res.Report.Outcome == core.OutcomeSucceeded {
			result.DocumentsProcessed++
			result.ChunksExtracted += len(res.Chunks)
			chunks = append(chunks, res.Chunks...)
		}
	}
	return chunks
}

// assemble settles the terminal status: degraded when anything was
// recovered along the way, succeeded only on a clean run.
func (o *Orchestrator) assemble(result *core.PipelineResult) {
	result.Status = core.StatusSucceeded
	if len(result.Warnings) > 0 {
		result.Status = core.StatusDegraded
	}
	for _, report := range result.Documents {
		if report.Outcome != core.OutcomeSucceeded {
			result.Status = core.StatusDegraded
			return
		}
	}
}

// Release frees the extraction worker pool. The AI provider is owned by
// the caller and is not closed here.
func (o *Orchestrator) Release() {
	o.coordinator.Release()
}
