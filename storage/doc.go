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


// Package storage defines the embedding cache abstraction.
//
// The pipeline holds no persistent search index; every run scores every
// chunk of the current collection. What the cache amortizes is the
// embedding cost: chunk IDs are content-addressed, so a chunk seen in a
// previous run maps to the same vector and does not need another trip to
// the embedding model. Entries are namespaced by model identifier because
// vectors from different models are not comparable.
//
// Public constructors return the VectorCache interface so the ranking
// engine never couples to a concrete backend; storage/badger provides the
// BadgerDB implementation, including an in-memory mode for tests.
package storage
