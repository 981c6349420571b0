package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/extract"
)

var pdfMagic = []byte("%PDF-")

// Extractor reads PDF files from a base directory, resolving each
// document reference's ID as a filename.
type Extractor struct {
	basePath string
	logger   *slog.Logger
}

// NewExtractor creates a PDF extractor rooted at the given directory.
//
// Returns extract.Extractor interface to enforce abstraction.
func NewExtractor(basePath string) extract.Extractor {
	return &Extractor{
		basePath: basePath,
		logger:   slog.Default().With("component", "pdf-extractor"),
	}
}

// Extract returns the per-page plain text of the referenced PDF.
func (e *Extractor) Extract(ctx context.Context, ref core.DocumentRef) (pages []extract.Page, err error) {
	path := filepath.Join(e.basePath, ref.ID)

	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, extract.NewError(core.ReasonFileNotFound, statErr)
		}
		return nil, extract.NewError(core.ReasonProcessingFailed, statErr)
	}

	if magicErr := checkMagic(path); magicErr != nil {
		return nil, magicErr
	}

	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf parser panicked", "document", ref.ID, "panic", r)
			pages = nil
			err = extract.NewError(core.ReasonUnsupportedFormat, fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	file, reader, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, classifyOpenError(openErr)
	}
	defer file.Close()

	total := reader.NumPage()
	pages = make([]extract.Page, 0, total)
	for number := 1; number <= total; number++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}

		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			// A single unreadable page degrades to a missing page, not a
			// failed document.
			e.logger.Debug("skipping unreadable page", "document", ref.ID, "page", number, "err", textErr)
			continue
		}

		pages = append(pages, extract.Page{Number: number, Text: text})
	}

	e.logger.Debug("extracted pdf", "document", ref.ID, "pages", len(pages))
	return pages, nil
}

// checkMagic verifies the file starts with the PDF header.
func checkMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return extract.NewError(core.ReasonProcessingFailed, err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil {
		return extract.NewError(core.ReasonUnsupportedFormat, fmt.Errorf("file too short to be a pdf"))
	}
	if string(header) != string(pdfMagic) {
		return extract.NewError(core.ReasonUnsupportedFormat, fmt.Errorf("missing %%PDF header"))
	}
	return nil
}

// classifyOpenError maps parser open errors to reason codes.
func classifyOpenError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "encrypted") {
		return extract.NewError(core.ReasonEncrypted, err)
	}
	return extract.NewError(core.ReasonUnsupportedFormat, err)
}
