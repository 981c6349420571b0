// Package core defines the domain model for the gleanit pipeline.
//
// The central types follow the data flow of a single analysis run:
//
//   - AnalysisRequest: the validated input (persona, task, documents)
//   - QueryIntent: a derived search string with its generation rank
//   - Chunk: a provenance-tagged unit of extracted document text
//   - ScoredChunk: a chunk with its relevance score and originating intent
//   - Selection: the final deduplicated, ranked set of excerpts
//   - PipelineResult: everything a run produced, including per-document
//     outcomes and timing
//
// All types are plain values with no behavior beyond construction and
// validation. They are created once during a run and never mutated after
// handoff to the next pipeline stage.
package core
