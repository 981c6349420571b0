package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker(t *testing.T) {
	t.Run("defaults on non-positive values", func(t *testing.T) {
		c := NewChunker(0, -1)
		assert.Equal(t, defaultTargetSize, c.targetSize)
		assert.Equal(t, defaultOverlap, c.overlap)
	})

	t.Run("overlap clamped below target size", func(t *testing.T) {
		c := NewChunker(100, 200)
		assert.Equal(t, 50, c.overlap)
	})
}

func TestChunk_ShortPage(t *testing.T) {
	c := NewChunker(100, 10)
	chunks := c.Chunk("doc.pdf", []Page{{Number: 1, Text: "A short page."}})

	require.Len(t, chunks, 1)
	assert.Equal(t, "A short page.", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, "doc.pdf", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 13, chunks[0].End)
}

func TestChunk_SplitsLongPage(t *testing.T) {
	c := NewChunker(50, 10)
	sentence := "Pack sunscreen and a hat for the beach days. "
	text := strings.Repeat(sentence, 10)

	chunks := c.Chunk("doc.pdf", []Page{{Number: 1, Text: text}})

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, chunk.End-chunk.Start, 50)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Text))
	}
}

func TestChunk_OverlapPreservesContext(t *testing.T) {
	c := NewChunker(40, 10)
	text := strings.Repeat("wordswords ", 12) // no sentence boundaries

	chunks := c.Chunk("doc.pdf", []Page{{Number: 1, Text: text}})
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks overlap: the next chunk starts before the
	// previous one ends.
	for i := 1; i < len(chunks); i++ {
		assert.Less(t, chunks[i].Start, chunks[i-1].End)
	}
}

func TestChunk_DropsEmptyPages(t *testing.T) {
	c := NewChunker(100, 10)
	chunks := c.Chunk("doc.pdf", []Page{
		{Number: 1, Text: "   \n\t  "},
		{Number: 2, Text: ""},
		{Number: 3, Text: "real content"},
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, 3, chunks[0].Page)
}

func TestChunk_TrimsWhitespace(t *testing.T) {
	c := NewChunker(100, 10)
	chunks := c.Chunk("doc.pdf", []Page{{Number: 1, Text: "  \n  padded text \t"}})

	require.Len(t, chunks, 1)
	assert.Equal(t, "padded text", chunks[0].Text)
	// Offsets point at the trimmed region, not the raw window.
	assert.Equal(t, 5, chunks[0].Start)
	assert.Equal(t, 16, chunks[0].End)
}

func TestChunk_Deterministic(t *testing.T) {
	c := NewChunker(60, 15)
	pages := []Page{{Number: 1, Text: strings.Repeat("Same input every time. ", 20)}}

	first := c.Chunk("doc.pdf", pages)
	second := c.Chunk("doc.pdf", pages)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestChunk_NoSentenceBoundary(t *testing.T) {
	// A single unbroken run of characters cannot be snapped; the chunker
	// must still advance and terminate.
	c := NewChunker(30, 5)
	text := strings.Repeat("x", 200)

	chunks := c.Chunk("doc.pdf", []Page{{Number: 1, Text: text}})
	require.NotEmpty(t, chunks)

	total := 0
	for _, chunk := range chunks {
		total += chunk.End - chunk.Start
	}
	assert.GreaterOrEqual(t, total, 200)
}

func TestChunk_MultiplePages(t *testing.T) {
	c := NewChunker(100, 10)
	chunks := c.Chunk("doc.pdf", []Page{
		{Number: 1, Text: "page one"},
		{Number: 2, Text: "page two"},
	})

	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[1].Page)
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
}
