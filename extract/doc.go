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


// Package extract turns documents into chunks.
//
// The Extractor interface hides document parsing behind a single
// operation that yields per-page text. The Chunker is a pure transform
// that splits page text into bounded, overlapping units with stable
// provenance. The Coordinator drives an Extractor across a whole
// collection concurrently on a bounded worker pool.
//
// Partial-failure isolation is the central design property of the
// Coordinator: a document that fails or exceeds its timeout is recorded
// and abandoned without disturbing sibling documents or the overall run.
// Results always come back in submission order regardless of completion
// order, so downstream processing is deterministic.
package extract
