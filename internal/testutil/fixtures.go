package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
)

// ExampleCSV is a small well-formed timesheet: 16 hours, two people, two
// projects, one day.
const ExampleCSV = `person,project,date,hours
alice,proj1,2024-01-01,4
alice,proj2,2024-01-01,4
bob,proj1,2024-01-01,8
`

// WeekCSV spans several days and uses header aliases.
const WeekCSV = `Employee,Project Name,Work Date,Hours Worked,Notes
Alice,Apollo,2024-03-04,6.5,design review
Bob,Apollo,2024-03-04,8,
Alice,Gemini,2024-03-05,1.5,standup
Carol,Gemini,2024-03-05,7,
Bob,Mercury,2024-03-06,4,
Carol,Apollo,2024-03-07,3,
`

// MalformedCSV has a non-numeric hours value on line 3 and a bad date on
// line 4.
const MalformedCSV = `person,project,date,hours
alice,proj1,2024-01-01,4
bob,proj1,2024-01-01,eight
carol,proj2,01/02/2024,2
`

// HeaderOnlyCSV has columns but no entries.
const HeaderOnlyCSV = "person,project,date,hours\n"

// WriteFile writes content to name inside a per-test temp dir and returns
// its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// ExampleTable parses ExampleCSV.
func ExampleTable(t *testing.T) *domain.Table {
	t.Helper()
	return MustParse(t, ExampleCSV)
}

// MustParse parses raw or fails the test.
func MustParse(t *testing.T, raw string) *domain.Table {
	t.Helper()
	table, err := importer.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return table
}

// Record builds a record, failing the test on a bad date.
func Record(t *testing.T, person, project, date string, hours float64) domain.Record {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		t.Fatalf("fixture date %q: %v", date, err)
	}
	return domain.Record{Person: person, Project: project, Date: d, Hours: domain.HoursFromFloat(hours)}
}
