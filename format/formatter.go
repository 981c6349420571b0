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


package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/gleanit/core"
)

// maxPreviewLength bounds text_preview; longer text is cut to 147 runes
// plus an ellipsis marker.
const maxPreviewLength = 150

// ErrSchema is returned when a result cannot be rendered into a valid response.
var ErrSchema = errors.New("response schema violation")

// Response is the top-level JSON output document.
type Response struct {
	Metadata          ResponseMetadata   `json:"metadata"`
	ExtractedSections []ExtractedSection `json:"extracted_sections"`
}

// ResponseMetadata describes the run that produced the response.
type ResponseMetadata struct {
	InputDocuments          []string     `json:"input_documents"`
	Persona                 string       `json:"persona"`
	JobToBeDone             string       `json:"job_to_be_done"`
	ProcessingTimestamp     time.Time    `json:"processing_timestamp"`
	TotalDocumentsProcessed int          `json:"total_documents_processed"`
	TotalChunksExtracted    int          `json:"total_chunks_extracted"`
	ProcessingTimeSeconds   float64      `json:"processing_time_seconds"`
	Errors                  []ErrorEntry `json:"errors,omitempty"`
}

// ErrorEntry records one failed document.
type ErrorEntry struct {
	Document  string    `json:"document"`
	ErrorCode string    `json:"error_code"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// ExtractedSection is one ranked selection entry.
type ExtractedSection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	TextPreview    string  `json:"text_preview"`
	RelevanceScore float32 `json:"relevance_score"`
	PageNumber     int     `json:"page_number"`
	Rank           int     `json:"rank"`
}

// Format renders a pipeline result into the response schema.
func Format(result *core.PipelineResult) (*Response, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: nil result", ErrSchema)
	}
	if result.Request.Persona == "" {
		return nil, fmt.Errorf("%w: persona is required", ErrSchema)
	}
	if result.Request.Task == "" {
		return nil, fmt.Errorf("%w: job_to_be_done is required", ErrSchema)
	}

	inputDocs := make([]string, len(result.Request.Documents))
	for i, ref := range result.Request.Documents {
		inputDocs[i] = ref.ID
	}

	finishedAt := result.StartedAt.Add(result.Elapsed)
	var errorEntries []ErrorEntry
	for _, report := range result.Documents {
		if report.Outcome == core.OutcomeSucceeded {
			continue
		}
		errorEntries = append(errorEntries, ErrorEntry{
			Document:  report.DocumentID,
			ErrorCode: string(report.Reason),
			Reason:    report.Detail,
			Timestamp: finishedAt.UTC(),
		})
	}

	sections := make([]ExtractedSection, len(result.Selection))
	for i, sc := range result.Selection {
		if sc.Score < 0 || sc.Score > 1 {
			return nil, fmt.Errorf("%w: relevance score %g out of range", ErrSchema, sc.Score)
		}
		if sc.Chunk.Page < 1 {
			return nil, fmt.Errorf("%w: page number %d out of range", ErrSchema, sc.Chunk.Page)
		}
		sections[i] = ExtractedSection{
			Document:       sc.Chunk.DocumentID,
			SectionTitle:   fmt.Sprintf("Page %d", sc.Chunk.Page),
			TextPreview:    truncatePreview(sc.Chunk.Text),
			RelevanceScore: sc.Score,
			PageNumber:     sc.Chunk.Page,
			Rank:           i + 1,
		}
	}

	return &Response{
		Metadata: ResponseMetadata{
			InputDocuments:          inputDocs,
			Persona:                 result.Request.Persona,
			JobToBeDone:             result.Request.Task,
			ProcessingTimestamp:     result.StartedAt.UTC(),
			TotalDocumentsProcessed: result.DocumentsProcessed,
			TotalChunksExtracted:    result.ChunksExtracted,
			ProcessingTimeSeconds:   result.Elapsed.Seconds(),
			Errors:                  errorEntries,
		},
		ExtractedSections: sections,
	}, nil
}

// Marshal renders a result straight to indented JSON.
func Marshal(result *core.PipelineResult) ([]byte, error) {
	response, err := Format(result)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return data, nil
}

// truncatePreview bounds the preview, rune-safe so multibyte text never
// splits mid-character.
func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= maxPreviewLength {
		return text
	}
	return string(runes[:maxPreviewLength-3]) + "..."
}
