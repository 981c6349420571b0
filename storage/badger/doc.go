// Package badger provides a BadgerDB-backed implementation of the
// storage.VectorCache interface. Vectors are keyed by embedding model
// and chunk ID, so switching models never serves stale vectors.
package badger
