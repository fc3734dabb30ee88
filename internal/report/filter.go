package report

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/tally/internal/domain"
)

// Filter selects the records whose dimension equals value and reports their
// hours, share of the grand total, and daily series. An empty table (or one
// with zero hours) yields ErrNoData.
func Filter(table *domain.Table, dim domain.Dimension, value string) (domain.Selection, error) {
	if _, err := domain.ParseDimension(string(dim)); err != nil {
		return domain.Selection{}, fmt.Errorf("%w: %v", ErrUnknownDimension, err)
	}

	sel := domain.Selection{Dimension: dim, Value: value}
	total := table.TotalHours()
	if total == 0 {
		return sel, ErrNoData
	}

	days := make(map[string]domain.Hours)
	for _, r := range table.Records {
		if r.Value(dim) != value {
			continue
		}
		sel.Records = append(sel.Records, r)
		sel.Hours += r.Hours
		days[r.Date.Format(domain.DateLayout)] += r.Hours
	}

	sel.Share, _ = Share(sel.Hours, total)
	sel.Days = buckets(days, sel.Hours)
	ChronologicalSort(sel.Days)
	return sel, nil
}

// Values lists the distinct values of a dimension in ascending order.
func Values(table *domain.Table, dim domain.Dimension) []string {
	if table == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range table.Records {
		seen[r.Value(dim)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
