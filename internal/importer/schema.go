package importer

import (
	"strings"
	"unicode"
)

// Canonical column names.
const (
	ColumnPerson  = "person"
	ColumnProject = "project"
	ColumnDate    = "date"
	ColumnHours   = "hours"
)

// RequiredColumns lists the canonical columns every timesheet must carry,
// in the order they are reported when missing.
var RequiredColumns = []string{ColumnPerson, ColumnProject, ColumnDate, ColumnHours}

// headerAliases maps a normalized header cell to its canonical column.
var headerAliases = map[string]string{
	"person":   ColumnPerson,
	"name":     ColumnPerson,
	"employee": ColumnPerson,
	"user":     ColumnPerson,
	"member":   ColumnPerson,
	"resource": ColumnPerson,

	"project":        ColumnProject,
	"project_name":   ColumnProject,
	"project_id":     ColumnProject,
	"client_project": ColumnProject,

	"date":       ColumnDate,
	"day":        ColumnDate,
	"work_date":  ColumnDate,
	"entry_date": ColumnDate,

	"hours":          ColumnHours,
	"hrs":            ColumnHours,
	"hours_worked":   ColumnHours,
	"time_spent":     ColumnHours,
	"duration_hours": ColumnHours,
}

// NormalizeHeader lower-cases a header cell, trims it, and collapses runs of
// spaces, '-', '_' and '.' into a single '_'.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	sep := false
	for _, r := range h {
		if unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// CanonicalColumn returns the canonical column a header cell maps to.
func CanonicalColumn(header string) (string, bool) {
	c, ok := headerAliases[NormalizeHeader(header)]
	return c, ok
}

// columnIndex records where each canonical column lives in a row.
type columnIndex map[string]int

// mapHeader resolves the header row. Violations are reported against row 1.
func mapHeader(header []string, vs *violations) columnIndex {
	idx := make(columnIndex, len(RequiredColumns))
	for i, h := range header {
		canon, ok := CanonicalColumn(h)
		if !ok {
			continue
		}
		if prev, dup := idx[canon]; dup {
			vs.add(1, canon, RuleDuplicateColumn,
				"columns %q and %q both map to %q", header[prev], h, canon)
			continue
		}
		idx[canon] = i
	}
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			vs.add(1, c, RuleMissingColumn, "required column %q not found in header", c)
		}
	}
	return idx
}
