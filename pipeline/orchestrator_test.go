package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gleanit/ai"
	"github.com/poiesic/gleanit/ai/mock"
	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/extract"
)

// stubExtractor serves canned pages per document ID, with optional
// per-document errors and delays.
type stubExtractor struct {
	pages  map[string][]extract.Page
	errs   map[string]error
	delays map[string]time.Duration
}

func (s *stubExtractor) Extract(ctx context.Context, ref core.DocumentRef) ([]extract.Page, error) {
	if delay, ok := s.delays[ref.ID]; ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err, ok := s.errs[ref.ID]; ok {
		return nil, err
	}
	return s.pages[ref.ID], nil
}

func travelRequest(docs ...string) core.AnalysisRequest {
	refs := make([]core.DocumentRef, len(docs))
	for i, d := range docs {
		refs[i] = core.DocumentRef{ID: d, Title: d}
	}
	return core.AnalysisRequest{
		Persona:   "Travel Planner",
		Task:      "Plan a 4-day trip for a group of 10 college friends",
		Documents: refs,
	}
}

func pagesOf(texts ...string) []extract.Page {
	pages := make([]extract.Page, len(texts))
	for i, text := range texts {
		pages[i] = extract.Page{Number: i + 1, Text: text}
	}
	return pages
}

func newOrchestrator(t *testing.T, provider ai.Provider, extractor extract.Extractor, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(provider, extractor, opts...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o
}

func TestNew(t *testing.T) {
	t.Run("requires provider", func(t *testing.T) {
		_, err := New(nil, &stubExtractor{})
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("requires extractor", func(t *testing.T) {
		_, err := New(mock.NewMockProvider(), nil)
		assert.ErrorIs(t, err, ErrExtractorRequired)
	})

	t.Run("rejects bad top-k", func(t *testing.T) {
		_, err := New(mock.NewMockProvider(), &stubExtractor{}, WithTopK(0))
		assert.Error(t, err)
	})
}

func TestRunHappyPath(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]extract.Page{
		"A.pdf": pagesOf(
			"Coastal adventures include beach hopping along the Mediterranean and water sports for groups.",
			"Nightlife and entertainment options range from bars to clubs across the major cities.",
		),
		"B.pdf": pagesOf(
			"Culinary experiences feature cooking classes and wine tours through family vineyards.",
		),
	}}

	o := newOrchestrator(t, mock.NewMockProvider(), extractor, WithTopK(5))
	result, err := o.Run(context.Background(), travelRequest("A.pdf", "B.pdf"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, core.StatusSucceeded, result.Status)
	assert.Equal(t, 2, result.DocumentsProcessed)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Selection)
	assert.LessOrEqual(t, len(result.Selection), 5)

	// One report per input document, in submission order.
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "A.pdf", result.Documents[0].DocumentID)
	assert.Equal(t, "B.pdf", result.Documents[1].DocumentID)
	for _, report := range result.Documents {
		assert.Equal(t, core.OutcomeSucceeded, report.Outcome)
		assert.Positive(t, report.Chunks)
	}

	seen := make(map[core.ID]struct{})
	var prev float32 = 2
	for _, sc := range result.Selection {
		_, dup := seen[sc.Chunk.ID]
		assert.False(t, dup, "selection must not repeat chunk IDs")
		seen[sc.Chunk.ID] = struct{}{}
		assert.GreaterOrEqual(t, sc.Score, float32(0))
		assert.LessOrEqual(t, sc.Score, float32(1))
		assert.LessOrEqual(t, sc.Score, prev, "scores must be non-increasing")
		prev = sc.Score
	}

	stages := make([]string, len(result.Stages))
	for i, st := range result.Stages {
		stages[i] = st.Stage
	}
	assert.Equal(t, []string{"validate", "formulate", "extract", "rank", "assemble"}, stages)
}

func TestRunInvalidRequest(t *testing.T) {
	o := newOrchestrator(t, mock.NewMockProvider(), &stubExtractor{})

	t.Run("no documents", func(t *testing.T) {
		result, err := o.Run(context.Background(), travelRequest())
		assert.ErrorIs(t, err, core.ErrNoDocuments)
		assert.Nil(t, result)
	})

	t.Run("empty persona", func(t *testing.T) {
		request := travelRequest("A.pdf")
		request.Persona = ""
		result, err := o.Run(context.Background(), request)
		assert.ErrorIs(t, err, core.ErrEmptyPersona)
		assert.Nil(t, result)
	})

	t.Run("duplicate documents", func(t *testing.T) {
		result, err := o.Run(context.Background(), travelRequest("A.pdf", "A.pdf"))
		assert.ErrorIs(t, err, core.ErrDuplicateDocument)
		assert.Nil(t, result)
	})
}

func TestRunNoUsableInput(t *testing.T) {
	extractor := &stubExtractor{errs: map[string]error{
		"A.pdf": extract.NewError(core.ReasonFileNotFound, errors.New("missing")),
		"B.pdf": extract.NewError(core.ReasonEncrypted, errors.New("password protected")),
	}}

	o := newOrchestrator(t, mock.NewMockProvider(), extractor)
	result, err := o.Run(context.Background(), travelRequest("A.pdf", "B.pdf"))
	require.ErrorIs(t, err, ErrNoUsableInput)
	require.NotNil(t, result, "partial result still reports per-document failures")

	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Zero(t, result.DocumentsProcessed)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, core.ReasonFileNotFound, result.Documents[0].Reason)
	assert.Equal(t, core.ReasonEncrypted, result.Documents[1].Reason)
}

func TestRunPartialFailureDegrades(t *testing.T) {
	extractor := &stubExtractor{
		pages: map[string][]extract.Page{
			"good.pdf": pagesOf("This page has enough meaningful text to produce at least one chunk."),
		},
		errs: map[string]error{
			"bad.pdf": extract.NewError(core.ReasonUnsupportedFormat, errors.New("not a pdf")),
		},
	}

	o := newOrchestrator(t, mock.NewMockProvider(), extractor)
	result, err := o.Run(context.Background(), travelRequest("good.pdf", "bad.pdf"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusDegraded, result.Status)
	assert.Equal(t, 1, result.DocumentsProcessed)
	assert.NotEmpty(t, result.Selection)
	assert.Equal(t, core.OutcomeFailed, result.Documents[1].Outcome)
	assert.Equal(t, core.ReasonUnsupportedFormat, result.Documents[1].Reason)
}

func TestRunFormulationFallback(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]extract.Page{
		"A.pdf": pagesOf("Some meaningful text that the chunker will happily turn into a chunk."),
	}}

	t.Run("error falls back with one warning", func(t *testing.T) {
		formulator := mock.NewMockQueryFormulator()
		formulator.FormulateFunc = func(context.Context, string, string) ([]string, error) {
			return nil, errors.New("llm unavailable")
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), formulator)

		o := newOrchestrator(t, provider, extractor)
		result, err := o.Run(context.Background(), travelRequest("A.pdf"))
		require.NoError(t, err)

		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "formulation", result.Warnings[0].Source)
		assert.Equal(t, core.StatusDegraded, result.Status)
		assert.NotEmpty(t, result.Selection)
		assert.Equal(t,
			core.FallbackIntent("Travel Planner", "Plan a 4-day trip for a group of 10 college friends").Text,
			result.Selection[0].Intent.Text)
	})

	t.Run("empty result falls back with one warning", func(t *testing.T) {
		formulator := mock.NewMockQueryFormulator()
		formulator.FormulateFunc = func(context.Context, string, string) ([]string, error) {
			return nil, nil
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), formulator)

		o := newOrchestrator(t, provider, extractor)
		result, err := o.Run(context.Background(), travelRequest("A.pdf"))
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, core.StatusDegraded, result.Status)
	})
}

func TestRunAllDocumentsTimeout(t *testing.T) {
	extractor := &stubExtractor{
		pages: map[string][]extract.Page{
			"slow.pdf": pagesOf("never reached"),
		},
		delays: map[string]time.Duration{"slow.pdf": time.Second},
	}

	o := newOrchestrator(t, mock.NewMockProvider(), extractor,
		WithDocumentTimeout(20*time.Millisecond))
	result, err := o.Run(context.Background(), travelRequest("slow.pdf"))
	require.ErrorIs(t, err, ErrNoUsableInput)
	require.NotNil(t, result)

	assert.Equal(t, core.StatusFailed, result.Status)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, core.OutcomeTimedOut, result.Documents[0].Outcome)
	assert.Equal(t, core.ReasonTimeout, result.Documents[0].Reason)
}

func TestRunOverallDeadline(t *testing.T) {
	extractor := &stubExtractor{
		pages: map[string][]extract.Page{
			"fast.pdf": pagesOf("Quick document with plenty of text to rank against the task query."),
			"slow.pdf": pagesOf("never reached"),
		},
		delays: map[string]time.Duration{"slow.pdf": 500 * time.Millisecond},
	}

	o := newOrchestrator(t, mock.NewMockProvider(), extractor,
		WithOverallDeadline(100*time.Millisecond),
		WithPoolSize(2))
	result, err := o.Run(context.Background(), travelRequest("fast.pdf", "slow.pdf"))
	require.NoError(t, err, "soft deadline keeps partial results rankable")

	assert.Equal(t, core.StatusDegraded, result.Status)
	assert.Equal(t, 1, result.DocumentsProcessed)
	assert.Equal(t, core.OutcomeSucceeded, result.Documents[0].Outcome)
	assert.Equal(t, core.OutcomeTimedOut, result.Documents[1].Outcome)
	assert.NotEmpty(t, result.Selection)
}

func TestRunRankingFailure(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]extract.Page{
		"A.pdf": pagesOf("Some text that extracts fine before ranking falls over."),
	}}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockQueryFormulator())

	o := newOrchestrator(t, provider, extractor, WithRetry(1, time.Millisecond))
	result, err := o.Run(context.Background(), travelRequest("A.pdf"))
	require.ErrorIs(t, err, ErrRanking)
	require.NotNil(t, result)
	assert.Equal(t, core.StatusFailed, result.Status)
}

func TestRunDeterministic(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]extract.Page{
		"A.pdf": pagesOf(
			"Coastal adventures include beach hopping and water sports for groups of friends.",
			"Culinary experiences feature cooking classes and wine tours through the region.",
		),
	}}

	o := newOrchestrator(t, mock.NewMockProvider(), extractor)
	first, err := o.Run(context.Background(), travelRequest("A.pdf"))
	require.NoError(t, err)
	second, err := o.Run(context.Background(), travelRequest("A.pdf"))
	require.NoError(t, err)

	assert.Equal(t, first.Selection, second.Selection)
	assert.Equal(t, first.Status, second.Status)
}
