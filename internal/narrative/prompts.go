package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
)

// PromptVersion is folded into cache keys. Bump it whenever the prompt text
// or the expected answer shape changes.
const PromptVersion = "v1"

// MaxPromptRows caps the CSV rows sent to the model.
const MaxPromptRows = 400

const systemPrompt = `You are a timesheet data analyst.
You receive an aggregated summary of a timesheet as JSON, followed by the raw entries as CSV with the columns person, project, date, hours.

Identify the major, distinct work activities. For each activity state its overall time commitment, then list its sub-activities as concise bullet points.

You must output ONLY a JSON object with these fields:
- headline: one sentence describing where the time went
- activities_summary: markdown, a numbered list where each item is
  "**Activity**: hours spent" followed by indented "- sub-activity" bullets

CRITICAL RULES:
1. Use only people, projects and hour totals that appear in the input
2. Hour totals in the summary JSON are authoritative; do not recompute them
3. Output ONLY the JSON object, no markdown fences, no commentary`

// promptSummary is the part of a Summary the model sees. Allocations and the
// daily series are left out to keep prompts short.
type promptSummary struct {
	TotalHours  domain.Hours    `json:"total_hours"`
	RecordCount int             `json:"record_count"`
	FirstDate   string          `json:"first_date,omitempty"`
	LastDate    string          `json:"last_date,omitempty"`
	People      []domain.Bucket `json:"people"`
	Projects    []domain.Bucket `json:"projects"`
}

func buildUserPrompt(in Input) (string, error) {
	ps := promptSummary{
		TotalHours:  in.Summary.Total,
		RecordCount: in.Summary.RecordCount,
		People:      in.Summary.People,
		Projects:    in.Summary.Projects,
	}
	if in.Summary.FirstDate != nil {
		ps.FirstDate = in.Summary.FirstDate.Format(domain.DateLayout)
	}
	if in.Summary.LastDate != nil {
		ps.LastDate = in.Summary.LastDate.Format(domain.DateLayout)
	}
	summaryJSON, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}

	var b strings.Builder
	if in.Filename != "" {
		fmt.Fprintf(&b, "File: %s\n\n", in.Filename)
	}
	b.WriteString("Summary:\n")
	b.Write(summaryJSON)
	b.WriteString("\n\nEntries (CSV):\n")
	b.WriteString(importer.CanonicalCSV(in.Table, MaxPromptRows))
	if n := in.Table.Len(); n > MaxPromptRows {
		fmt.Fprintf(&b, "\n(%d further entries omitted; the summary covers all of them)\n", n-MaxPromptRows)
	}
	return b.String(), nil
}

// answer is the JSON shape the model returns.
type answer struct {
	Headline          string `json:"headline"`
	ActivitiesSummary string `json:"activities_summary"`
}

func validateAnswer(a answer) error {
	if strings.TrimSpace(a.ActivitiesSummary) == "" {
		return ErrEmptyNarrative
	}
	return nil
}
