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


// Package pipeline orchestrates a full analysis run: request validation,
// query formulation, parallel document extraction, relevance ranking,
// and result assembly.
//
// A run moves through a fixed sequence of stages. Formulation failure
// degrades to a deterministic heuristic intent; individual document
// failures are isolated and reported. Only an invalid request, a run
// that yields no usable text, or an unreachable embedding service is
// fatal.
package pipeline
