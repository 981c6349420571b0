// Package rank scores extracted chunks against search intents using
// embedding similarity and selects the most relevant ones.
//
// Chunks and intents are embedded with the same model, vectors are
// normalized to unit length, and each chunk receives the maximum
// similarity across all intents mapped into [0, 1]. Selection applies
// a per-document cap before top-K truncation so a single long document
// cannot crowd out the rest.
package rank
