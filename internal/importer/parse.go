package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options tunes CSV reading. The zero value reads comma-separated files.
type Options struct {
	Comma rune
}

// Parse turns raw CSV bytes into a validated table. Any violation rejects the
// whole file with a *MalformedInputError listing every problem found.
func Parse(raw []byte) (*domain.Table, error) {
	return ParseWithOptions(raw, Options{})
}

// ParseWithOptions is Parse with a custom delimiter.
func ParseWithOptions(raw []byte, opts Options) (*domain.Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var vs violations

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		vs.add(1, "", RuleEmptyFile, "file is empty (expected a header row)")
		return nil, vs.err()
	}
	if err != nil {
		addSyntaxViolation(&vs, err)
		return nil, vs.err()
	}

	idx := mapHeader(header, &vs)
	if err := vs.err(); err != nil {
		return nil, err
	}

	table := &domain.Table{Columns: append([]string(nil), header...)}
	// Every bucket is bounded by the total, so checking the total is enough.
	var total domain.Hours
	overflowed := false
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			addSyntaxViolation(&vs, err)
			break
		}
		if blankRow(row) {
			continue
		}
		line, _ := r.FieldPos(0)
		rec, ok := validateRow(line, row, header, idx, &vs)
		if !ok {
			continue
		}
		if !overflowed && total > math.MaxInt64-rec.Hours {
			vs.add(line, ColumnHours, RuleTotalOverflow, "total hours exceed %s", domain.Hours(math.MaxInt64))
			overflowed = true
		}
		total += rec.Hours
		table.Records = append(table.Records, rec)
	}

	if err := vs.err(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseFile reads and parses a timesheet from disk.
func ParseFile(path string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func addSyntaxViolation(vs *violations, err error) {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		vs.add(pe.StartLine, "", RuleSyntax, "%v", pe.Err)
		return
	}
	vs.add(0, "", RuleSyntax, "%v", err)
}

// blankRow reports rows whose cells are all empty, as spreadsheet exports
// often trail with ",,,".
func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
