package extract

import "errors"

var (
	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrNoMeaningfulText indicates a document yielded no usable chunks.
	ErrNoMeaningfulText = errors.New("no meaningful text extracted from document")
)
