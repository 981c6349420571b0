// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/storage"
)

// Cache implements storage.VectorCache on BadgerDB.
type Cache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorCache = (*Cache)(nil)

// Open opens a vector cache at the given directory path.
//
// Returns storage.VectorCache interface to enforce abstraction.
func Open(path string) (storage.VectorCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newCache(backend), nil
}

// OpenMemory opens an in-memory vector cache, intended for tests.
func OpenMemory() (storage.VectorCache, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newCache(backend), nil
}

func newCache(backend *Backend) *Cache {
	return &Cache{
		backend: backend,
		logger:  slog.Default().With("component", "vector-cache"),
	}
}

// GetVectors returns cached vectors for the given chunk IDs.
// Missing and corrupt entries are skipped; a corrupt entry is logged
// because it will be re-embedded and overwritten anyway.
func (c *Cache) GetVectors(ctx context.Context, model string, ids ...core.ID) (map[core.ID][]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := make(map[core.ID][]float32, len(ids))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeVectorKey(model, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			vector, err := storage.UnmarshalVector(value)
			if err != nil {
				c.logger.Warn("skipping corrupt cache entry", "model", model, "chunk", id, "err", err)
				continue
			}
			found[id] = vector
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return found, nil
}

// PutVectors stores the given entries, overwriting existing ones.
func (c *Cache) PutVectors(ctx context.Context, model string, entries ...storage.VectorEntry) error {
	if c.backend.IsClosed() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeVectorKey(model, entry.ChunkID)
			if err := tx.Set(key, storage.MarshalVector(entry.Vector)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// Close closes the cache backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}
