package domain

import "time"

// DateLayout is the only accepted calendar date format in timesheet files.
const DateLayout = "2006-01-02"

// Record is one validated timesheet row.
type Record struct {
	Person  string
	Project string
	Date    time.Time
	Hours   Hours
	Line    int // 1-based line in the source file
}

// Value returns the record's value for the given dimension.
func (r Record) Value(dim Dimension) string {
	switch dim {
	case DimensionPerson:
		return r.Person
	case DimensionProject:
		return r.Project
	case DimensionDate:
		return r.Date.Format(DateLayout)
	default:
		return ""
	}
}

// Table is a validated sequence of records in file order.
type Table struct {
	Columns []string // header cells as they appeared in the file
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// TotalHours sums hours over every record.
func (t *Table) TotalHours() Hours {
	var total Hours
	if t == nil {
		return total
	}
	for _, r := range t.Records {
		total += r.Hours
	}
	return total
}
