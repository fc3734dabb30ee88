package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
)

// FormatMarkdown renders a report as GitHub-flavoured markdown, suitable
// for pasting into a ticket or wiki page.
func FormatMarkdown(resp *contract.ReportResponse) string {
	var b strings.Builder
	s := resp.Summary

	fmt.Fprintf(&b, "# Timesheet report: %s\n\n", resp.Filename)
	if resp.Empty {
		b.WriteString("No hours logged in this file.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- **Total:** %s hours over %d entries\n", s.Total, s.RecordCount)
	fmt.Fprintf(&b, "- **Period:** %s\n", mdPeriod(s))
	fmt.Fprintf(&b, "- **People:** %d, **projects:** %d\n", len(s.People), len(s.Projects))

	for _, w := range resp.Warnings {
		fmt.Fprintf(&b, "\n> **Warning:** %s\n", w.Message)
	}

	if n := resp.Narrative; n != nil {
		b.WriteString("\n## Summary\n\n")
		if n.Headline != "" {
			fmt.Fprintf(&b, "**%s**\n\n", n.Headline)
		}
		b.WriteString(strings.TrimSpace(n.Markdown) + "\n")
	}

	b.WriteString("\n## Hours by person\n\n")
	mdBuckets(&b, "Person", s.People)
	b.WriteString("\n## Hours by project\n\n")
	mdBuckets(&b, "Project", s.Projects)

	b.WriteString("\n## Who worked on what\n\n")
	b.WriteString("| Person | Project | Hours | Of their time |\n|---|---|---:|---:|\n")
	for _, a := range s.Allocations {
		for _, p := range a.Projects {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", mdEscape(a.Person), mdEscape(p.Key), p.Hours, FormatPercent(p.Share))
		}
	}

	b.WriteString("\n## Hours per day\n\n")
	mdBuckets(&b, "Date", s.Days)

	if sel := resp.Selection; sel != nil {
		fmt.Fprintf(&b, "\n## %s = %s\n\n", sel.Dimension, mdEscape(sel.Value))
		fmt.Fprintf(&b, "%s hours, %s of the total.\n", sel.Hours, FormatPercent(sel.Share))
		if len(sel.Days) > 0 {
			b.WriteString("\n")
			mdBuckets(&b, "Date", sel.Days)
		}
	}
	return b.String()
}

func mdBuckets(b *strings.Builder, keyHeader string, buckets []domain.Bucket) {
	fmt.Fprintf(b, "| %s | Hours | Share |\n|---|---:|---:|\n", keyHeader)
	for _, bk := range buckets {
		fmt.Fprintf(b, "| %s | %s | %s |\n", mdEscape(bk.Key), bk.Hours, FormatPercent(bk.Share))
	}
}

func mdPeriod(s domain.Summary) string {
	if s.FirstDate == nil || s.LastDate == nil {
		return "--"
	}
	if s.FirstDate.Equal(*s.LastDate) {
		return s.FirstDate.Format(domain.DateLayout)
	}
	return s.FirstDate.Format(domain.DateLayout) + " to " + s.LastDate.Format(domain.DateLayout)
}

var mdReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
