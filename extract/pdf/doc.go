// Package pdf implements extract.Extractor for PDF files on the local
// filesystem.
//
// Failures map to the stable reason codes the pipeline reports: a missing
// file, a non-PDF payload, an encrypted document, and everything else as a
// generic processing failure. The underlying parser is known to panic on
// some malformed files; Extract recovers those and reports them as
// unsupported-format failures rather than crashing a worker.
package pdf
