package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FileNotFound(t *testing.T) {
	e := NewExtractor(t.TempDir())

	_, err := e.Extract(context.Background(), core.DocumentRef{ID: "missing.pdf"})
	require.Error(t, err)

	var exErr *extract.Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, core.ReasonFileNotFound, exErr.Reason)
}

func TestExtract_NotAPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0644))

	e := NewExtractor(dir)
	_, err := e.Extract(context.Background(), core.DocumentRef{ID: "fake.pdf"})
	require.Error(t, err)

	var exErr *extract.Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, core.ReasonUnsupportedFormat, exErr.Reason)
}

func TestExtract_TruncatedPDF(t *testing.T) {
	// Valid magic but garbage body: parser must fail without panicking
	// through to the caller.
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7\ngarbage"), 0644))

	e := NewExtractor(dir)
	_, err := e.Extract(context.Background(), core.DocumentRef{ID: "broken.pdf"})
	require.Error(t, err)

	var exErr *extract.Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, core.ReasonUnsupportedFormat, exErr.Reason)
}

func TestExtract_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	e := NewExtractor(dir)
	_, err := e.Extract(context.Background(), core.DocumentRef{ID: "empty.pdf"})
	require.Error(t, err)

	var exErr *extract.Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, core.ReasonUnsupportedFormat, exErr.Reason)
}
