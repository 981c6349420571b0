// Package mock provides test doubles for the ai service interfaces.
//
// The doubles are deterministic by default: MockEmbedder derives a stable
// pseudo-random unit vector from each input text, so similarity scores are
// reproducible across test runs without a model. Behavior can be overridden
// per-test via the function fields.
package mock
