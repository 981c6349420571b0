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

import (
	"fmt"
	"strings"
)

// MaxDocuments is the upper bound on documents per request.
const MaxDocuments = 100

// ValidateRequest validates an AnalysisRequest according to domain rules.
//
// Validation rules:
//   - Persona and Task must be non-empty after trimming
//   - At least one and at most MaxDocuments document references
//   - Every document reference has a non-empty, unique ID
//
// NOT validated:
//   - Metadata (opaque passthrough)
//   - Document titles (optional)
func ValidateRequest(req *AnalysisRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if strings.TrimSpace(req.Persona) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyPersona)
	}

	if strings.TrimSpace(req.Task) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyTask)
	}

	if len(req.Documents) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNoDocuments)
	}

	if len(req.Documents) > MaxDocuments {
		return fmt.Errorf("%w: %w (max %d)", ErrInvalidRequest, ErrTooManyDocuments, MaxDocuments)
	}

	seen := make(map[string]bool, len(req.Documents))
	for _, doc := range req.Documents {
		if doc.ID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyDocumentID)
		}
		if seen[doc.ID] {
			return fmt.Errorf("%w: %w: %s", ErrInvalidRequest, ErrDuplicateDocument, doc.ID)
		}
		seen[doc.ID] = true
	}

	return nil
}
