package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/gleanit/core"
)

// Page is one page of extracted document text.
type Page struct {
	Number int // 1-indexed
	Text   string
}

// Extractor extracts per-page text from a document.
// Implementations must be thread-safe; the Coordinator calls Extract
// concurrently for different documents.
type Extractor interface {
	// Extract returns the document's pages in page order.
	// Errors should be (or wrap) *Error so the coordinator can record a
	// stable reason code; any other error is treated as a generic
	// processing failure.
	Extract(ctx context.Context, ref core.DocumentRef) ([]Page, error)
}

// Error is an extraction failure with a stable reason code.
type Error struct {
	Reason core.FailureReason
	Err    error
}

// NewError creates an extraction error with the given reason code.
func NewError(reason core.FailureReason, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the failure reason code from an error.
// Non-*Error values map to the generic processing-failed code.
func ReasonOf(err error) core.FailureReason {
	var exErr *Error
	if errors.As(err, &exErr) && exErr.Reason != "" {
		return exErr.Reason
	}
	return core.ReasonProcessingFailed
}
