package openai

import "fmt"

const formulationPromptTemplate = `You turn a user persona and their task into search queries for finding
relevant passages in a document collection.

Rules:
- Produce at most %d queries, one per line, most important first.
- Each query is a short phrase capturing one facet of what the persona
  needs to accomplish the task.
- Use concrete nouns from the task; do not invent requirements.
- Output ONLY the queries. No numbering, no bullets, no preamble, no
  explanation.

Example:
Persona: Travel Planner
Task: Plan a 4-day trip for a group of 10 college friends
Output:
group itinerary and day trips for young adults
budget accommodation and restaurants for groups
nightlife activities and entertainment`

// buildFormulationPrompt renders the system prompt for query formulation.
func buildFormulationPrompt(maxQueries int) string {
	return fmt.Sprintf(formulationPromptTemplate, maxQueries)
}
