package badger

import (
	"encoding/binary"

	"github.com/poiesic/gleanit/core"
)

// Key prefix for cached embedding vectors
const vectorPrefix = "vec"

// makeVectorKey generates a key for a cached vector.
// Format: prefix:model:id, with the ID in BigEndian order so iteration
// within a model namespace is deterministic.
func makeVectorKey(model string, id core.ID) []byte {
	prefix := vectorPrefix + ":" + model + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
