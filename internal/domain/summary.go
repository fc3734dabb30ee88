package domain

import "time"

// Bucket is an aggregated total for one identifier.
type Bucket struct {
	Key   string  `json:"key"`
	Hours Hours   `json:"hours"`
	Share float64 `json:"share"` // fraction of the grand total, 0..1
}

// Percent returns the share as a percentage.
func (b Bucket) Percent() float64 {
	return b.Share * 100
}

// Allocation is one person's time split across projects.
type Allocation struct {
	Person   string   `json:"person"`
	Hours    Hours    `json:"hours"`
	Projects []Bucket `json:"projects"` // Share is relative to the person's hours
}

// Summary is the aggregated view of a table.
type Summary struct {
	Total       Hours        `json:"total_hours"`
	RecordCount int          `json:"record_count"`
	People      []Bucket     `json:"people"`
	Projects    []Bucket     `json:"projects"`
	Allocations []Allocation `json:"allocations"`
	Days        []Bucket     `json:"days"`
	FirstDate   *time.Time   `json:"first_date,omitempty"`
	LastDate    *time.Time   `json:"last_date,omitempty"`
	Empty       bool         `json:"empty"`
}

// Selection is the slice of a table matching one dimension value.
type Selection struct {
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
	Hours     Hours     `json:"hours"`
	Share     float64   `json:"share"`
	Records   []Record  `json:"-"`
	Days      []Bucket  `json:"days"`
}
