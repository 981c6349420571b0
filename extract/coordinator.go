package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/gleanit/core"
)

const (
	defaultDocumentTimeout = 15 * time.Second
	maxDefaultPoolSize     = 8
)

// DocumentResult is the outcome of processing one document: a status
// report plus the chunks when extraction succeeded.
type DocumentResult struct {
	Report core.DocumentReport
	Chunks []core.Chunk
}

// Coordinator drives an Extractor across a document collection on a
// bounded worker pool, with per-document time-boxing and failure
// isolation.
type Coordinator struct {
	extractor Extractor
	chunker   *Chunker
	pool      *ants.Pool
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is the number of CPUs, capped at 8.
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}

		if c.pool != nil {
			c.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithDocumentTimeout sets the per-document processing timeout.
// Default is 15 seconds.
func WithDocumentTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) error {
		if timeout > 0 {
			c.timeout = timeout
		}
		return nil
	}
}

// WithChunker sets a custom chunker.
// Default is NewChunker(0, 0), i.e. the default sizes.
func WithChunker(chunker *Chunker) Option {
	return func(c *Coordinator) error {
		if chunker != nil {
			c.chunker = chunker
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCoordinator creates a coordinator around the given extractor.
func NewCoordinator(extractor Extractor, opts ...Option) (*Coordinator, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize > maxDefaultPoolSize {
		poolSize = maxDefaultPoolSize
	}
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		extractor: extractor,
		chunker:   NewChunker(0, 0),
		pool:      pool,
		timeout:   defaultDocumentTimeout,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	return c, nil
}

// ExtractAll processes every document concurrently and returns one result
// per document, in submission order regardless of completion order.
//
// Each document is independently time-boxed; a timeout or extractor error
// is recorded in that document's report and never aborts siblings. Once
// the parent context's deadline has passed, remaining documents are not
// dispatched and are reported as timed-out. The call returns within the
// slowest dispatched document's timeout plus scheduling overhead.
func (c *Coordinator) ExtractAll(ctx context.Context, docs []core.DocumentRef) []DocumentResult {
	results := make([]DocumentResult, len(docs))
	var wg sync.WaitGroup

	c.logger.Info("starting extraction", "documents", len(docs), "timeout", c.timeout)

	for i, doc := range docs {
		if ctx.Err() != nil {
			// Overall deadline passed before dispatch: soft-deadline
			// policy says stop starting new work, keep what we have.
			results[i] = DocumentResult{Report: core.DocumentReport{
				DocumentID: doc.ID,
				Outcome:    core.OutcomeTimedOut,
				Reason:     core.ReasonTimeout,
				Detail:     "overall deadline exceeded before dispatch",
			}}
			continue
		}

		wg.Add(1)
		idx, ref := i, doc
		err := c.pool.Submit(func() {
			defer wg.Done()
			results[idx] = c.extractOne(ctx, ref)
		})
		if err != nil {
			wg.Done()
			results[idx] = DocumentResult{Report: core.DocumentReport{
				DocumentID: ref.ID,
				Outcome:    core.OutcomeFailed,
				Reason:     core.ReasonProcessingFailed,
				Detail:     fmt.Sprintf("failed to schedule extraction: %v", err),
			}}
		}
	}

	wg.Wait()
	return results
}

type extractOutcome struct {
	pages []Page
	err   error
}

// extractOne runs a single extraction under the per-document timeout.
// The extractor call runs in its own goroutine so a hung extractor can be
// abandoned; the goroutine is left to finish on its own.
func (c *Coordinator) extractOne(ctx context.Context, ref core.DocumentRef) DocumentResult {
	start := time.Now()

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan extractOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- extractOutcome{err: fmt.Errorf("extractor panicked: %v", r)}
			}
		}()
		pages, err := c.extractor.Extract(tctx, ref)
		done <- extractOutcome{pages: pages, err: err}
	}()

	select {
	case <-tctx.Done():
		c.logger.Warn("document extraction timed out", "document", ref.ID, "timeout", c.timeout)
		return DocumentResult{Report: core.DocumentReport{
			DocumentID: ref.ID,
			Outcome:    core.OutcomeTimedOut,
			Reason:     core.ReasonTimeout,
			Detail:     fmt.Sprintf("document processing timed out after %s", c.timeout),
			Elapsed:    time.Since(start),
		}}

	case out := <-done:
		if errors.Is(out.err, context.DeadlineExceeded) {
			c.logger.Warn("document extraction timed out", "document", ref.ID, "timeout", c.timeout)
			return DocumentResult{Report: core.DocumentReport{
				DocumentID: ref.ID,
				Outcome:    core.OutcomeTimedOut,
				Reason:     core.ReasonTimeout,
				Detail:     fmt.Sprintf("document processing timed out after %s", c.timeout),
				Elapsed:    time.Since(start),
			}}
		}
		if out.err != nil {
			c.logger.Warn("document extraction failed", "document", ref.ID, "err", out.err)
			return DocumentResult{Report: core.DocumentReport{
				DocumentID: ref.ID,
				Outcome:    core.OutcomeFailed,
				Reason:     ReasonOf(out.err),
				Detail:     out.err.Error(),
				Elapsed:    time.Since(start),
			}}
		}

		chunks := c.chunker.Chunk(ref.ID, out.pages)
		if len(chunks) == 0 {
			return DocumentResult{Report: core.DocumentReport{
				DocumentID: ref.ID,
				Outcome:    core.OutcomeFailed,
				Reason:     core.ReasonProcessingFailed,
				Detail:     ErrNoMeaningfulText.Error(),
				Elapsed:    time.Since(start),
			}}
		}

		c.logger.Debug("document extracted", "document", ref.ID, "pages", len(out.pages), "chunks", len(chunks))
		return DocumentResult{
			Report: core.DocumentReport{
				DocumentID: ref.ID,
				Outcome:    core.OutcomeSucceeded,
				Chunks:     len(chunks),
				Elapsed:    time.Since(start),
			},
			Chunks: chunks,
		}
	}
}

// Release releases the worker pool.
// The coordinator should not be used after calling Release.
func (c *Coordinator) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}
