package app

import (
	"time"

	"github.com/alexanderramin/tally/internal/domain"
)

// ReportRequest is one upload to report on.
type ReportRequest struct {
	Filename string
	Data     []byte
	Narrate  bool           // ask for a narrative when one is configured
	Filter   *FilterRequest // optional drill-down
}

// NewReportRequest returns a request with narration on.
func NewReportRequest(filename string, data []byte) ReportRequest {
	return ReportRequest{
		Filename: filename,
		Data:     data,
		Narrate:  true,
	}
}

// FilterRequest selects the records where Dimension equals Value.
type FilterRequest struct {
	Dimension domain.Dimension
	Value     string
}

type WarningCode string

const (
	WarnNarrativeFailed   WarningCode = "NARRATIVE_FAILED"
	WarnNarrativeDisabled WarningCode = "NARRATIVE_DISABLED"
	WarnFilterNoMatch     WarningCode = "FILTER_NO_MATCH"
)

// Warning is a non-fatal problem shown alongside the report.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// ReportResponse is everything a presentation layer renders.
type ReportResponse struct {
	ID             string                        `json:"id"`
	Filename       string                        `json:"filename"`
	GeneratedAt    time.Time                     `json:"generated_at"`
	Summary        domain.Summary                `json:"summary"`
	FilterValues   map[domain.Dimension][]string `json:"filter_values"`
	Selection      *domain.Selection             `json:"selection,omitempty"`
	Narrative      *domain.NarrativeReport       `json:"narrative,omitempty"`
	NarrativeState domain.NarrativeState         `json:"narrative_state"`
	Warnings       []Warning                     `json:"warnings,omitempty"`
	Empty          bool                          `json:"empty"`
}

// HasWarning reports whether the response carries a warning with code.
func (r *ReportResponse) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
