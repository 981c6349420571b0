package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical input
// always produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentRef identifies a document within an analysis request.
type DocumentRef struct {
	ID    string // Filename or other caller-assigned identifier
	Title string // Optional human-readable title
}

// AnalysisRequest is the input to a pipeline run.
// It is immutable once validated; see ValidateRequest.
type AnalysisRequest struct {
	Persona   string            // Professional role of the user, e.g. "Travel Planner"
	Task      string            // The job to be done, e.g. "Plan a 4-day trip for 10 friends"
	Documents []DocumentRef     // Ordered document collection, at least one entry
	Metadata  map[string]string // Opaque challenge metadata, passed through untouched
}

// QueryIntent is a single derived search string.
// Rank records the order of generation; lower ranks win score ties.
type QueryIntent struct {
	Text string
	Rank int
}

// FallbackIntent builds the deterministic heuristic intent used when
// query formulation is unavailable.
func FallbackIntent(persona, task string) QueryIntent {
	return QueryIntent{Text: persona + ": " + task, Rank: 0}
}

// Chunk is a bounded unit of text extracted from one page of one document.
// Offsets are rune positions within the page text. Chunks are immutable
// after creation and are owned by the extraction stage until handed to
// the ranking engine.
type Chunk struct {
	ID         ID
	DocumentID string
	Page       int // 1-indexed page number
	Start      int // Start offset within the page, inclusive
	End        int // End offset within the page, exclusive
	Text       string
}

// NewChunk creates a chunk with a deterministic content-addressed ID.
// Re-running extraction on identical input yields identical IDs, which
// the selection deduplication invariant depends on.
func NewChunk(documentID string, page, start, end int, text string) Chunk {
	return Chunk{
		ID:         IDFromContent(fmt.Sprintf("%s|%d|%d|%d", documentID, page, start, end)),
		DocumentID: documentID,
		Page:       page,
		Start:      start,
		End:        end,
		Text:       text,
	}
}

// ScoredChunk is a chunk with its relevance score in [0,1] and the intent
// it scored highest against.
type ScoredChunk struct {
	Chunk  Chunk
	Score  float32
	Intent QueryIntent
}

// Selection is the final ordered sequence of scored chunks.
// Invariants: no two entries share a chunk ID; entries are sorted by
// score descending, ties broken by (document ID, page, start offset)
// ascending; length never exceeds the configured top-K.
type Selection []ScoredChunk

// DocumentOutcome describes how processing of a single document ended.
type DocumentOutcome int

const (
	// OutcomeSucceeded means the document produced at least one chunk.
	OutcomeSucceeded DocumentOutcome = iota + 1
	// OutcomeFailed means the extractor reported an error.
	OutcomeFailed
	// OutcomeTimedOut means the document exceeded its processing timeout.
	OutcomeTimedOut
)

// String returns the lowercase status name used in result output.
func (o DocumentOutcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// FailureReason is a stable reason code for a document-level failure.
type FailureReason string

const (
	ReasonFileNotFound      FailureReason = "E404_FILE_NOT_FOUND"
	ReasonUnsupportedFormat FailureReason = "E415_UNSUPPORTED_FORMAT"
	ReasonEncrypted         FailureReason = "E423_FILE_ENCRYPTED"
	ReasonProcessingFailed  FailureReason = "E500_PROCESSING_FAILED"
	ReasonTimeout           FailureReason = "E408_TIMEOUT"
	ReasonServiceDown       FailureReason = "E503_SERVICE_UNAVAILABLE"
)

// DocumentReport records the outcome of processing one document.
type DocumentReport struct {
	DocumentID string
	Outcome    DocumentOutcome
	Reason     FailureReason // Set only for failed or timed-out documents
	Detail     string        // Human-readable failure description
	Chunks     int           // Number of chunks extracted
	Elapsed    time.Duration
}

// Warning records a recovered, non-fatal degradation during a run,
// such as falling back to the heuristic query intent.
type Warning struct {
	Source  string // Component that degraded, e.g. "formulation"
	Message string
}

// StageTiming records wall-clock time spent in one pipeline stage.
type StageTiming struct {
	Stage   string
	Elapsed time.Duration
}

// PipelineStatus is the terminal state of a pipeline run.
type PipelineStatus int

const (
	// StatusSucceeded means every document processed cleanly.
	StatusSucceeded PipelineStatus = iota + 1
	// StatusDegraded means the run completed with recovered failures.
	StatusDegraded
	// StatusFailed means the run hit a terminal error.
	StatusFailed
)

// String returns the lowercase status name used in result output.
func (s PipelineStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PipelineResult aggregates everything a pipeline run produced.
// It is assembled once by the orchestrator and read-only afterwards.
type PipelineResult struct {
	Request            AnalysisRequest
	Status             PipelineStatus
	Selection          Selection
	Documents          []DocumentReport // One report per input document, in submission order
	Warnings           []Warning
	DocumentsProcessed int // Documents that produced chunks
	ChunksExtracted    int // Total chunks across all successful documents
	StartedAt          time.Time
	Elapsed            time.Duration
	Stages             []StageTiming
}
