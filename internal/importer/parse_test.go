package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleCSV = `person,project,date,hours
alice,proj1,2024-01-01,4
alice,proj2,2024-01-01,4
bob,proj1,2024-01-01,8
`

func TestParse_Example(t *testing.T) {
	table, err := Parse([]byte(exampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"person", "project", "date", "hours"}, table.Columns)

	first := table.Records[0]
	assert.Equal(t, "alice", first.Person)
	assert.Equal(t, "proj1", first.Project)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, domain.HoursFromFloat(4), first.Hours)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, domain.HoursFromFloat(16), table.TotalHours())
}

func TestParse_HeaderVariantsAndExtraColumns(t *testing.T) {
	csv := "\xEF\xBB\xBF Employee ,Notes,Project Name,Work Date,Time-Spent\n" +
		"  alice , wrote docs, docs ,2024-03-04, 1.5\n"

	table, err := Parse([]byte(csv))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	r := table.Records[0]
	assert.Equal(t, "alice", r.Person)
	assert.Equal(t, "docs", r.Project)
	assert.Equal(t, domain.HoursFromFloat(1.5), r.Hours)
	assert.Len(t, table.Columns, 5)
}

func TestParse_MissingHoursColumn(t *testing.T) {
	_, err := Parse([]byte("person,project,date\nalice,p1,2024-01-01\n"))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, ColumnHours, mErr.Column)
	assert.Equal(t, RuleMissingColumn, mErr.Rule)
	assert.Equal(t, 1, mErr.Row)
	assert.Contains(t, err.Error(), `"hours"`)
}

func TestParse_MissingSeveralColumns(t *testing.T) {
	_, err := Parse([]byte("who,what\nalice,p1\n"))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	require.Len(t, mErr.Violations, 4)
	for i, c := range RequiredColumns {
		assert.Equal(t, c, mErr.Violations[i].Column)
	}
}

func TestParse_DuplicateColumn(t *testing.T) {
	_, err := Parse([]byte("person,employee,project,date,hours\n"))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, RuleDuplicateColumn, mErr.Rule)
	assert.Equal(t, ColumnPerson, mErr.Column)
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := Parse(nil)

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, RuleEmptyFile, mErr.Rule)
}

func TestParse_HeaderOnlyIsEmptyTable(t *testing.T) {
	table, err := Parse([]byte("person,project,date,hours\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, domain.Hours(0), table.TotalHours())
}

func TestParse_SkipsBlankRows(t *testing.T) {
	csv := "person,project,date,hours\n\nalice,p1,2024-01-01,2\n,,,\n"

	table, err := Parse([]byte(csv))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 3, table.Records[0].Line)
}

func TestParse_SyntaxError(t *testing.T) {
	csv := "person,project,date,hours\nalice,\"p1,2024-01-01,2\n"

	_, err := Parse([]byte(csv))

	var mErr *MalformedInputError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, RuleSyntax, mErr.Rule)
}

func TestParseWithOptions_Semicolon(t *testing.T) {
	csv := "person;project;date;hours\nalice;p1;2024-01-01;2.25\n"

	table, err := ParseWithOptions([]byte(csv), Options{Comma: ';'})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, domain.HoursFromFloat(2.25), table.Records[0].Hours)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timesheet.csv")
	require.NoError(t, os.WriteFile(path, []byte(exampleCSV), 0o644))

	table, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCanonicalCSV(t *testing.T) {
	table, err := Parse([]byte("Employee,Project,Day,Hrs,Notes\nalice,p1,2024-01-01,1.50,x\nbob,p2,2024-01-02,3,y\n"))
	require.NoError(t, err)

	assert.Equal(t, "person,project,date,hours\nalice,p1,2024-01-01,1.5\nbob,p2,2024-01-02,3\n", CanonicalCSV(table, 0))
	assert.Equal(t, "person,project,date,hours\nalice,p1,2024-01-01,1.5\n", CanonicalCSV(table, 1))
}
