package report

import (
	"github.com/alexanderramin/tally/internal/domain"
)

// Share returns part/total as a fraction. A zero total yields ErrNoData.
func Share(part, total domain.Hours) (float64, error) {
	if total == 0 {
		return 0, ErrNoData
	}
	return float64(part) / float64(total), nil
}

// Summarize aggregates a table by person, by project, by person×project, and
// by day. The result depends only on the multiset of records, never on their
// order. A table with no hours yields a Summary with Empty set and zero shares.
func Summarize(table *domain.Table) domain.Summary {
	var records []domain.Record
	if table != nil {
		records = table.Records
	}

	people := make(map[string]domain.Hours)
	projects := make(map[string]domain.Hours)
	days := make(map[string]domain.Hours)
	alloc := make(map[string]map[string]domain.Hours)

	s := domain.Summary{RecordCount: len(records)}
	for _, r := range records {
		s.Total += r.Hours
		people[r.Person] += r.Hours
		projects[r.Project] += r.Hours
		days[r.Date.Format(domain.DateLayout)] += r.Hours

		byProject, ok := alloc[r.Person]
		if !ok {
			byProject = make(map[string]domain.Hours)
			alloc[r.Person] = byProject
		}
		byProject[r.Project] += r.Hours

		if s.FirstDate == nil || r.Date.Before(*s.FirstDate) {
			d := r.Date
			s.FirstDate = &d
		}
		if s.LastDate == nil || r.Date.After(*s.LastDate) {
			d := r.Date
			s.LastDate = &d
		}
	}

	s.People = buckets(people, s.Total)
	s.Projects = buckets(projects, s.Total)
	s.Days = buckets(days, s.Total)
	ChronologicalSort(s.Days)

	s.Allocations = make([]domain.Allocation, 0, len(s.People))
	for _, p := range s.People {
		s.Allocations = append(s.Allocations, domain.Allocation{
			Person:   p.Key,
			Hours:    p.Hours,
			Projects: buckets(alloc[p.Key], p.Hours),
		})
	}

	if _, err := Share(0, s.Total); err != nil {
		s.Empty = true
	}
	return s
}

// buckets converts grouped totals into canonically sorted buckets with shares
// of total. Shares stay zero when total is zero.
func buckets(groups map[string]domain.Hours, total domain.Hours) []domain.Bucket {
	out := make([]domain.Bucket, 0, len(groups))
	for k, h := range groups {
		share, _ := Share(h, total)
		out = append(out, domain.Bucket{Key: k, Hours: h, Share: share})
	}
	CanonicalSort(out)
	return out
}
