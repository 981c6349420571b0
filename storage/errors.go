package storage

import "errors"

var (
	// ErrClosed is returned when the cache is used after Close.
	ErrClosed = errors.New("cache is closed")

	// ErrCorruptEntry indicates a cache value failed to deserialize.
	ErrCorruptEntry = errors.New("corrupt cache entry")
)
