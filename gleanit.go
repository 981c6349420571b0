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


package gleanit

import (
	"context"
	"log/slog"

	"github.com/poiesic/gleanit/ai"
	"github.com/poiesic/gleanit/ai/openai"
	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/extract/pdf"
	"github.com/poiesic/gleanit/pipeline"
	"github.com/poiesic/gleanit/storage"
	"github.com/poiesic/gleanit/storage/badger"
)

// Analyzer bundles the AI provider, PDF extractor, vector cache and
// pipeline into one ready-to-run unit.
type Analyzer struct {
	provider     ai.Provider
	cache        storage.VectorCache
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerOptions)

type analyzerOptions struct {
	aiConfig     *ai.Config
	cacheDir     string
	pipelineOpts []pipeline.Option
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(config *ai.Config) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.aiConfig = config
	}
}

// WithCacheDir enables the on-disk embedding vector cache.
func WithCacheDir(dir string) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.cacheDir = dir
	}
}

// WithPipelineOptions forwards options to the underlying pipeline.
func WithPipelineOptions(opts ...pipeline.Option) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// NewAnalyzer creates an analyzer that reads PDF documents from docsDir.
func NewAnalyzer(docsDir string, opts ...AnalyzerOption) (*Analyzer, error) {
	options := &analyzerOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		return nil, err
	}

	pipelineOpts := options.pipelineOpts
	var cache storage.VectorCache
	if options.cacheDir != "" {
		cache, err = badger.Open(options.cacheDir)
		if err != nil {
			provider.Close()
			return nil, err
		}
		pipelineOpts = append(pipelineOpts,
			pipeline.WithVectorCache(cache, options.aiConfig.EmbeddingModel))
	}

	orchestrator, err := pipeline.New(provider, pdf.NewExtractor(docsDir), pipelineOpts...)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		provider.Close()
		return nil, err
	}

	return &Analyzer{
		provider:     provider,
		cache:        cache,
		orchestrator: orchestrator,
		logger:       slog.Default().With("component", "analyzer"),
	}, nil
}

// Analyze runs the full pipeline for one request.
func (a *Analyzer) Analyze(ctx context.Context, request core.AnalysisRequest) (*core.PipelineResult, error) {
	return a.orchestrator.Run(ctx, request)
}

// Close releases the pipeline, cache and AI provider.
func (a *Analyzer) Close() error {
	a.orchestrator.Release()

	var firstErr error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.provider.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
