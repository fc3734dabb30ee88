package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
)

// validateRow applies the row rules and reports every violation it finds.
// The returned record is only meaningful when ok is true.
func validateRow(line int, row, header []string, idx columnIndex, vs *violations) (domain.Record, bool) {
	rec := domain.Record{Line: line}
	ok := true

	for _, c := range RequiredColumns {
		if idx[c] >= len(row) {
			vs.add(line, "", RuleShortRow, "row has %d fields, header has %d", len(row), len(header))
			return rec, false
		}
	}
	cell := func(column string) string {
		return strings.TrimSpace(row[idx[column]])
	}

	person := cell(ColumnPerson)
	if person == "" {
		vs.add(line, ColumnPerson, RuleEmptyField, "person is empty")
		ok = false
	}
	rec.Person = person

	project := cell(ColumnProject)
	if project == "" {
		vs.add(line, ColumnProject, RuleEmptyField, "project is empty")
		ok = false
	}
	rec.Project = project

	dateStr := cell(ColumnDate)
	if dateStr == "" {
		vs.add(line, ColumnDate, RuleEmptyField, "date is empty")
		ok = false
	} else if d, err := time.Parse(domain.DateLayout, dateStr); err != nil {
		vs.add(line, ColumnDate, RuleBadDate, "invalid date %q (expected YYYY-MM-DD)", dateStr)
		ok = false
	} else {
		rec.Date = d
	}

	hoursStr := cell(ColumnHours)
	if hoursStr == "" {
		vs.add(line, ColumnHours, RuleEmptyField, "hours is empty")
		ok = false
	} else if h, err := domain.ParseHours(hoursStr); err != nil {
		vs.add(line, ColumnHours, RuleBadNumber, "invalid hours: %v", err)
		ok = false
	} else if h < 0 || negativeLiteral(hoursStr) {
		vs.add(line, ColumnHours, RuleNegativeHours, "hours must not be negative (got %s)", hoursStr)
		ok = false
	} else {
		rec.Hours = h
	}

	return rec, ok
}

// negativeLiteral catches values like "-0.0000001" that round to zero but
// were still written as negative.
func negativeLiteral(s string) bool {
	return strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") != ""
}
