package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/gleanit/core"
)

// requestFile mirrors the input request JSON document.
type requestFile struct {
	ChallengeInfo map[string]string `json:"challenge_info"`
	Documents     []struct {
		Filename string `json:"filename"`
		Title    string `json:"title"`
	} `json:"documents"`
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

// loadRequest parses an analysis request from a JSON file. Structural
// validation happens here; semantic validation is the pipeline's job.
func loadRequest(path string) (core.AnalysisRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.AnalysisRequest{}, fmt.Errorf("reading request file: %w", err)
	}

	var file requestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return core.AnalysisRequest{}, fmt.Errorf("parsing request file: %w", err)
	}

	request := core.AnalysisRequest{
		Persona:  strings.TrimSpace(file.Persona.Role),
		Task:     strings.TrimSpace(file.JobToBeDone.Task),
		Metadata: file.ChallengeInfo,
	}
	for _, doc := range file.Documents {
		request.Documents = append(request.Documents, core.DocumentRef{
			ID:    strings.TrimSpace(doc.Filename),
			Title: strings.TrimSpace(doc.Title),
		})
	}
	return request, nil
}
