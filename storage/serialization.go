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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MarshalVector serializes an embedding vector to bytes: a varint length
// followed by fixed-size float32 elements.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	for _, v := range vector {
		size += raw.Float32.Size(v)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vector), buf)
	for _, v := range vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrCorruptEntry, length)
	}
	// Each element occupies exactly 4 bytes, so the declared length is a
	// lie unless the remaining payload can hold it. Checked before
	// allocating so a corrupt entry cannot demand gigabytes.
	if remaining := len(data) - n; length > remaining/4 {
		return nil, fmt.Errorf("%w: declared length %d exceeds payload of %d bytes",
			ErrCorruptEntry, length, remaining)
	}

	vector := make([]float32, length)
	for i := 0; i < length; i++ {
		v, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
		}
		vector[i] = v
		n += m
	}
	return vector, nil
}
