package importer

import (
	"fmt"
	"strings"
)

// Rule identifies which validation rule a row or header violated.
type Rule string

const (
	RuleSyntax          Rule = "syntax"
	RuleEmptyFile       Rule = "empty_file"
	RuleMissingColumn   Rule = "missing_column"
	RuleDuplicateColumn Rule = "duplicate_column"
	RuleShortRow        Rule = "short_row"
	RuleEmptyField      Rule = "empty_field"
	RuleBadDate         Rule = "bad_date"
	RuleBadNumber       Rule = "bad_number"
	RuleNegativeHours   Rule = "negative_hours"
	RuleTotalOverflow   Rule = "total_overflow"
)

// MaxViolations caps how many violations a MalformedInputError lists.
const MaxViolations = 50

// Violation is one broken rule at a specific row and column.
type Violation struct {
	Row    int    `json:"row"` // 1-based line number; 1 is the header
	Column string `json:"column,omitempty"`
	Rule   Rule   `json:"rule"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	if v.Column == "" {
		return fmt.Sprintf("row %d: %s", v.Row, v.Detail)
	}
	return fmt.Sprintf("row %d, column %q: %s", v.Row, v.Column, v.Detail)
}

// MalformedInputError reports a CSV upload that cannot be turned into a table.
// Row, Column and Rule describe the first violation; Violations lists all of
// them up to MaxViolations.
type MalformedInputError struct {
	Row        int
	Column     string
	Rule       Rule
	Violations []Violation
	Truncated  int // violations dropped beyond MaxViolations
}

func newMalformedInputError(violations []Violation, truncated int) *MalformedInputError {
	first := violations[0]
	return &MalformedInputError{
		Row:        first.Row,
		Column:     first.Column,
		Rule:       first.Rule,
		Violations: violations,
		Truncated:  truncated,
	}
}

func (e *MalformedInputError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("malformed timesheet: row %d: %s", e.Row, e.Rule)
	}
	if len(e.Violations) == 1 && e.Truncated == 0 {
		return "malformed timesheet: " + e.Violations[0].String()
	}
	n := len(e.Violations) + e.Truncated
	return fmt.Sprintf("malformed timesheet: %d problems, first: %s", n, e.Violations[0].String())
}

// Details renders every violation on its own line.
func (e *MalformedInputError) Details() string {
	var b strings.Builder
	for _, v := range e.Violations {
		b.WriteString("  - ")
		b.WriteString(v.String())
		b.WriteString("\n")
	}
	if e.Truncated > 0 {
		fmt.Fprintf(&b, "  ... and %d more\n", e.Truncated)
	}
	return b.String()
}

// violations accumulates rule failures up to MaxViolations.
type violations struct {
	list      []Violation
	truncated int
}

func (vs *violations) add(row int, column string, rule Rule, format string, args ...any) {
	if len(vs.list) >= MaxViolations {
		vs.truncated++
		return
	}
	vs.list = append(vs.list, Violation{
		Row:    row,
		Column: column,
		Rule:   rule,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (vs *violations) err() error {
	if len(vs.list) == 0 {
		return nil
	}
	return newMalformedInputError(vs.list, vs.truncated)
}
