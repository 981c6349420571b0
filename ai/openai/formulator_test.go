package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryLines(t *testing.T) {
	t.Run("plain lines", func(t *testing.T) {
		queries := parseQueryLines("first query\nsecond query\nthird query", 3)
		assert.Equal(t, []string{"first query", "second query", "third query"}, queries)
	})

	t.Run("strips list markers", func(t *testing.T) {
		queries := parseQueryLines("1. budget hotels\n- group dining\n* nightlife spots", 3)
		assert.Equal(t, []string{"budget hotels", "group dining", "nightlife spots"}, queries)
	})

	t.Run("skips blank lines", func(t *testing.T) {
		queries := parseQueryLines("\nfirst\n\n\nsecond\n", 3)
		assert.Equal(t, []string{"first", "second"}, queries)
	})

	t.Run("caps at max", func(t *testing.T) {
		queries := parseQueryLines("a\nb\nc\nd\ne", 2)
		assert.Equal(t, []string{"a", "b"}, queries)
	})

	t.Run("strips surrounding quotes", func(t *testing.T) {
		queries := parseQueryLines("\"quoted query\"", 3)
		assert.Equal(t, []string{"quoted query"}, queries)
	})

	t.Run("empty output", func(t *testing.T) {
		assert.Empty(t, parseQueryLines("", 3))
	})
}
