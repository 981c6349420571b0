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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/gleanit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryFormulator implements ai.QueryFormulator using OpenAI-compatible chat APIs.
type QueryFormulator struct {
	client     llms.Model
	maxQueries int
	logger     *slog.Logger
}

// newQueryFormulator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryFormulator(config *ai.Config) (*QueryFormulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.FormulationHost),
		openai.WithToken("none"),
		openai.WithModel(config.FormulationModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryFormulator{
		client:     client,
		maxQueries: config.MaxQueries,
		logger:     slog.Default().With("component", "openai-formulator"),
	}, nil
}

// NewQueryFormulator creates a new query formulator using the provided configuration.
//
// Returns ai.QueryFormulator interface to enforce abstraction.
func NewQueryFormulator(config *ai.Config) (ai.QueryFormulator, error) {
	return newQueryFormulator(config)
}

// Formulate derives search queries from the persona and task using an LLM.
// Returns the queries in generation order, capped at the configured maximum.
// Callers must fall back to the heuristic intent on error or empty output.
func (f *QueryFormulator) Formulate(ctx context.Context, persona, task string) ([]string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildFormulationPrompt(f.maxQueries)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("Persona: %s\nTask: %s", persona, task)),
			},
		},
	}

	response, err := f.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		f.logger.Error("failed to generate queries", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		f.logger.Debug("no choices returned from model")
		return nil, nil
	}

	queries := parseQueryLines(response.Choices[0].Content, f.maxQueries)
	f.logger.Debug("formulated queries", "count", len(queries))
	return queries, nil
}

// parseQueryLines extracts query strings from the model output, one per
// line, stripping list markers the model may emit despite instructions.
func parseQueryLines(text string, max int) []string {
	lines := strings.Split(text, "\n")
	queries := make([]string, 0, max)

	for _, line := range lines {
		q := strings.TrimSpace(line)
		q = strings.TrimLeft(q, "-*0123456789.) ")
		q = strings.Trim(q, "\"")
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == max {
			break
		}
	}

	return queries
}
