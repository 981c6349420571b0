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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// FormulationHost is the base URL for the query formulation service API.
	FormulationHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// FormulationModel is the model identifier for query formulation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	FormulationModel string

	// BatchSize is the maximum number of texts per embedding API call.
	// Larger inputs are split into batches of this size. Default: 64
	BatchSize int

	// MaxQueries is the maximum number of query intents the formulator
	// may return. Default: 3
	MaxQueries int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithFormulationHost sets the query formulation service host URL.
func WithFormulationHost(host string) ConfigOption {
	return func(c *Config) {
		c.FormulationHost = host
	}
}

// WithHost sets both embedding and formulation hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.FormulationHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithFormulationModel sets the formulation model identifier.
func WithFormulationModel(model string) ConfigOption {
	return func(c *Config) {
		c.FormulationModel = model
	}
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithMaxQueries sets the maximum number of formulated queries.
func WithMaxQueries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxQueries = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Both services use the same host by default.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:    defaultHost,
		FormulationHost:  defaultHost,
		EmbeddingModel:   "all-minilm",
		FormulationModel: "qwen2.5:3b",
		BatchSize:        64,
		MaxQueries:       3,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434/v1"),
//	    ai.WithEmbeddingModel("all-minilm"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.FormulationHost != "" && !strings.HasSuffix(c.FormulationHost, "/v1") {
		c.FormulationHost = strings.TrimSuffix(c.FormulationHost, "/")
		c.FormulationHost = c.FormulationHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.FormulationHost == "" {
		return errors.New("ai config: FormulationHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.FormulationModel == "" {
		return errors.New("ai config: FormulationModel is required")
	}
	if c.BatchSize < 1 {
		return errors.New("ai config: BatchSize must be at least 1")
	}
	if c.MaxQueries < 1 {
		return errors.New("ai config: MaxQueries must be at least 1")
	}
	return nil
}
