package extract

import (
	"strings"
	"unicode"

	"github.com/poiesic/gleanit/core"
)

const (
	defaultTargetSize = 800
	defaultOverlap    = 120
)

// Chunker splits page text into bounded-size units with overlap so that
// context at unit boundaries is not lost. It is a pure transform: no side
// effects, no failure modes. Malformed or sparse page text degrades to
// fewer or smaller chunks, never to an error.
type Chunker struct {
	targetSize int // Target unit length in runes
	overlap    int // Runes of overlap between consecutive units
}

// NewChunker creates a chunker with the given target size and overlap,
// both in runes. Non-positive values fall back to the defaults (800/120);
// an overlap at or above the target size is clamped to half of it so the
// window always advances.
func NewChunker(targetSize, overlap int) *Chunker {
	if targetSize <= 0 {
		targetSize = defaultTargetSize
	}
	if overlap <= 0 {
		overlap = defaultOverlap
	}
	if overlap >= targetSize {
		overlap = targetSize / 2
	}
	return &Chunker{targetSize: targetSize, overlap: overlap}
}

// Chunk splits the pages of a document into chunks with stable provenance.
// Offsets are rune positions within each page. Units that are empty after
// whitespace trimming are dropped. Chunk IDs are content-addressed, so
// identical input always yields identical IDs.
func (c *Chunker) Chunk(documentID string, pages []Page) []core.Chunk {
	var chunks []core.Chunk
	for _, page := range pages {
		chunks = append(chunks, c.chunkPage(documentID, page)...)
	}
	return chunks
}

func (c *Chunker) chunkPage(documentID string, page Page) []core.Chunk {
	runes := []rune(page.Text)
	if len(strings.TrimSpace(page.Text)) == 0 {
		return nil
	}

	var chunks []core.Chunk
	start := 0
	for start < len(runes) {
		end := start + c.targetSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = snapToBoundary(runes, start, end)
		}

		if chunk, ok := trimmedChunk(documentID, page.Number, runes, start, end); ok {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// snapToBoundary moves the cut point backwards to the nearest sentence or
// whitespace boundary, searching at most a quarter of the window. A cut
// with no boundary in range stays where it is.
func snapToBoundary(runes []rune, start, end int) int {
	limit := end - (end-start)/4
	if limit <= start {
		limit = start + 1
	}

	// Prefer a sentence end followed by whitespace.
	for i := end - 1; i >= limit; i-- {
		if isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}
	// Fall back to any whitespace.
	for i := end - 1; i >= limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// trimmedChunk builds a chunk for runes[start:end] with surrounding
// whitespace stripped and offsets adjusted to the trimmed region.
// Returns false if nothing remains after trimming.
func trimmedChunk(documentID string, pageNumber int, runes []rune, start, end int) (core.Chunk, bool) {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	if start == end {
		return core.Chunk{}, false
	}
	return core.NewChunk(documentID, pageNumber, start, end, string(runes[start:end])), true
}
