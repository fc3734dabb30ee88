package domain

import "time"

// NarrativeReport is LLM-written prose describing a summary.
type NarrativeReport struct {
	Headline    string    `json:"headline"`
	Markdown    string    `json:"markdown"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	ContextKey  string    `json:"context_key"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}
