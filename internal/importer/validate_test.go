package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Person", "person"},
		{"  HOURS ", "hours"},
		{"Project Name", "project_name"},
		{"time-spent", "time_spent"},
		{"Work__Date", "work_date"},
		{"hours.worked", "hours_worked"},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.in), "input %q", tt.in)
	}
}

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Employee", ColumnPerson, true},
		{"Project ID", ColumnProject, true},
		{"Day", ColumnDate, true},
		{"Time Spent", ColumnHours, true},
		{"Notes", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalColumn(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestParse_RowRules(t *testing.T) {
	tests := []struct {
		name       string
		row        string
		wantRule   Rule
		wantColumn string
	}{
		{"empty person", " ,p1,2024-01-01,4", RuleEmptyField, ColumnPerson},
		{"empty project", "alice,  ,2024-01-01,4", RuleEmptyField, ColumnProject},
		{"empty date", "alice,p1,,4", RuleEmptyField, ColumnDate},
		{"bad date", "alice,p1,01/02/2024,4", RuleBadDate, ColumnDate},
		{"impossible date", "alice,p1,2024-02-30,4", RuleBadDate, ColumnDate},
		{"empty hours", "alice,p1,2024-01-01,", RuleEmptyField, ColumnHours},
		{"non numeric hours", "alice,p1,2024-01-01,four", RuleBadNumber, ColumnHours},
		{"negative hours", "alice,p1,2024-01-01,-2", RuleNegativeHours, ColumnHours},
		{"tiny negative hours", "alice,p1,2024-01-01,-0.0000001", RuleNegativeHours, ColumnHours},
		{"short row", "alice,p1", RuleShortRow, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte("person,project,date,hours\n" + tt.row + "\n"))

			var mErr *MalformedInputError
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, tt.wantRule, mErr.Rule)
			assert.Equal(t, tt.wantColumn, mErr.Column)
			assert.Equal(t, 2, mErr.Row)
		})
	}
}

func TestParse_CollectsEveryViolation(t *testing.T) {
	csv := "person,project,date,hours\n" +
		"alice,p1,2024-01-01,4\n" +
		",p1,2024-01-01,-1\n" +
		"bob,p2,yesterday,3\n"

	_, err := Parse([]byte(csv))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	require.Len(t, mErr.Violations, 3)
	assert.Equal(t, Violation{Row: 3, Column: ColumnPerson, Rule: RuleEmptyField, Detail: "person is empty"}, mErr.Violations[0])
	assert.Equal(t, RuleNegativeHours, mErr.Violations[1].Rule)
	assert.Equal(t, 4, mErr.Violations[2].Row)
	assert.Contains(t, mErr.Error(), "3 problems")
	assert.Contains(t, mErr.Details(), `row 4, column "date"`)
}

func TestParse_TruncatesViolations(t *testing.T) {
	csv := "person,project,date,hours\n"
	for i := 0; i < MaxViolations+7; i++ {
		csv += "alice,p1,2024-01-01,-1\n"
	}

	_, err := Parse([]byte(csv))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Len(t, mErr.Violations, MaxViolations)
	assert.Equal(t, 7, mErr.Truncated)
	assert.Contains(t, mErr.Details(), "and 7 more")
}

func TestParse_RejectsTotalOverflow(t *testing.T) {
	// 1e9 hours per row is accepted on its own; about 9,223 such rows
	// exceed what Hours can hold.
	const rows = 9300
	csv := "person,project,date,hours\n" + strings.Repeat("a,p,2024-01-01,1000000000\n", rows)

	_, err := Parse([]byte(csv))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	require.Len(t, mErr.Violations, 1)
	v := mErr.Violations[0]
	assert.Equal(t, RuleTotalOverflow, v.Rule)
	assert.Equal(t, ColumnHours, v.Column)
	assert.Equal(t, 9224+1, v.Row, "first row whose hours no longer fit, counting the header")
}

func TestParse_LargeTotalWithinRange(t *testing.T) {
	csv := "person,project,date,hours\n" + strings.Repeat("a,p,2024-01-01,1000000000\n", 9000)

	table, err := Parse([]byte(csv))
	require.NoError(t, err)
	assert.Len(t, table.Records, 9000)
}
