package importer

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/alexanderramin/tally/internal/domain"
)

// WriteCSV writes records in canonical form: a person,project,date,hours
// header followed by at most limit rows (limit <= 0 writes all).
func WriteCSV(w io.Writer, records []domain.Record, limit int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RequiredColumns); err != nil {
		return err
	}
	for i, r := range records {
		if limit > 0 && i >= limit {
			break
		}
		row := []string{r.Person, r.Project, r.Date.Format(domain.DateLayout), r.Hours.String()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CanonicalCSV returns the table in canonical form.
func CanonicalCSV(t *domain.Table, limit int) string {
	var buf bytes.Buffer
	if t == nil {
		_ = WriteCSV(&buf, nil, limit)
		return buf.String()
	}
	_ = WriteCSV(&buf, t.Records, limit)
	return buf.String()
}
