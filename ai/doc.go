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


// Package ai provides abstractions for the AI services used in gleanit.
//
// Two services participate in a pipeline run:
//
//   - Embedder: generates vector embeddings from text for similarity scoring
//   - QueryFormulator: turns a persona and task into search query intents
//
// Both are defined as interfaces so the ranking engine and orchestrator
// depend on abstractions rather than a concrete backend. The ai/openai
// sub-package implements them against OpenAI-compatible APIs; ai/mock
// provides deterministic test doubles.
//
// Public constructors in implementation packages return interface types to
// enforce abstraction. Mock constructors return concrete types so tests
// can inject behavior and assert on call counts.
//
// The embedding service is shared read-only across all scoring calls in a
// process: create one Provider at startup and pass it by reference. A
// failure to construct the Provider is fatal for the process, unlike
// per-document extraction failures which are always recovered.
package ai
