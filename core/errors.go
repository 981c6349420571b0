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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRequest indicates an AnalysisRequest failed validation.
	ErrInvalidRequest = errors.New("invalid analysis request")

	// ErrEmptyPersona indicates the persona role is empty.
	ErrEmptyPersona = errors.New("persona role cannot be empty")

	// ErrEmptyTask indicates the task description is empty.
	ErrEmptyTask = errors.New("task description cannot be empty")

	// ErrNoDocuments indicates the request contains no document references.
	ErrNoDocuments = errors.New("at least one document is required")

	// ErrTooManyDocuments indicates the request exceeds the document limit.
	ErrTooManyDocuments = errors.New("too many documents")

	// ErrDuplicateDocument indicates two document references share an ID.
	ErrDuplicateDocument = errors.New("duplicate document id")

	// ErrEmptyDocumentID indicates a document reference has no ID.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")
)
