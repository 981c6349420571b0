package pipeline

import "errors"

var (
	// ErrProviderRequired is returned when constructing an orchestrator without an AI provider
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrExtractorRequired is returned when constructing an orchestrator without an extractor
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrNoUsableInput is returned when every document failed or produced no text,
	// leaving nothing to rank
	ErrNoUsableInput = errors.New("no usable text extracted from any document")

	// ErrRanking is returned when relevance scoring fails after retries,
	// typically because the embedding service is unavailable
	ErrRanking = errors.New("ranking failed")
)
