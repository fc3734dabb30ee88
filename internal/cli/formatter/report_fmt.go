package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
	"github.com/charmbracelet/glamour"
)

const (
	reportBarWidth  = 20
	defaultWrapCols = 80
)

// ReportOptions controls the text rendering of a report.
type ReportOptions struct {
	// Width is the terminal width used to wrap the narrative. Zero means 80.
	Width int
}

// FormatReport formats a ReportResponse as a styled terminal report.
func FormatReport(resp *contract.ReportResponse, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString(RenderBox(resp.Filename, formatOverview(resp)))
	b.WriteString("\n")

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(Warning(w.Message) + "\n")
		}
	}

	if resp.Empty {
		b.WriteString("\n" + Dim("No hours logged in this file.") + "\n")
		return b.String()
	}

	if n := resp.Narrative; n != nil {
		b.WriteString("\n" + Header("Summary") + "\n")
		b.WriteString(FormatNarrative(n, opts.Width))
	}

	b.WriteString("\n" + Header("Hours by person") + "\n")
	b.WriteString(FormatBuckets("PERSON", resp.Summary.People))

	b.WriteString("\n" + Header("Hours by project") + "\n")
	b.WriteString(FormatBuckets("PROJECT", resp.Summary.Projects))

	b.WriteString("\n" + Header("Who worked on what") + "\n")
	b.WriteString(FormatAllocations(resp.Summary.Allocations))

	b.WriteString("\n" + Header("Hours per day") + "\n")
	b.WriteString(FormatBuckets("DATE", resp.Summary.Days))

	if resp.Selection != nil {
		b.WriteString("\n" + FormatSelection(resp.Selection))
	}

	return b.String()
}

func formatOverview(resp *contract.ReportResponse) string {
	s := resp.Summary
	lines := []string{
		fmt.Sprintf("%s  %s", Dim("Total  "), Bold(FormatHours(s.Total))),
		fmt.Sprintf("%s  %d", Dim("Entries"), s.RecordCount),
		fmt.Sprintf("%s  %d people, %d projects", Dim("Scope  "), len(s.People), len(s.Projects)),
		fmt.Sprintf("%s  %s", Dim("Period "), FormatPeriod(s.FirstDate, s.LastDate)),
		fmt.Sprintf("%s  %s", Dim("Summary"), NarrativeIndicator(resp.NarrativeState)),
	}
	return strings.Join(lines, "\n")
}

// FormatBuckets renders a key/hours/share table with share bars.
func FormatBuckets(keyHeader string, buckets []domain.Bucket) string {
	rows := make([][]string, 0, len(buckets))
	for _, bk := range buckets {
		rows = append(rows, []string{
			bk.Key,
			FormatHours(bk.Hours),
			RenderShareBar(bk.Share, reportBarWidth),
		})
	}
	return RenderTable([]string{keyHeader, "HOURS", "SHARE"}, rows, 1)
}

// FormatAllocations renders the person × project breakdown. Shares are
// relative to each person's own hours.
func FormatAllocations(allocs []domain.Allocation) string {
	var rows [][]string
	for _, a := range allocs {
		for i, p := range a.Projects {
			person := ""
			if i == 0 {
				person = Bold(a.Person)
			}
			rows = append(rows, []string{
				person,
				p.Key,
				FormatHours(p.Hours),
				FormatPercent(p.Share),
				RenderCompactBar(p.Share, 10, false),
			})
		}
	}
	return RenderTable([]string{"PERSON", "PROJECT", "HOURS", "OF THEIR TIME", ""}, rows, 2, 3)
}

// FormatSelection renders a drill-down: total hours, share of the grand
// total, and a per-day breakdown.
func FormatSelection(sel *domain.Selection) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s = %s", sel.Dimension, sel.Value)) + "\n")
	b.WriteString(fmt.Sprintf("%s of the total  %s\n", Bold(FormatHours(sel.Hours)), RenderShareBar(sel.Share, reportBarWidth)))
	if len(sel.Days) == 0 {
		b.WriteString(Dim("No entries match.") + "\n")
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(FormatBuckets("DATE", sel.Days))
	return b.String()
}

// FormatNarrative renders the narrative headline and its markdown body for
// the terminal. The markdown is printed as-is when it cannot be rendered.
func FormatNarrative(n *domain.NarrativeReport, width int) string {
	return FormatNarrativeStyled(n, width, "")
}

// FormatNarrativeStyled is FormatNarrative with an explicit glamour style.
func FormatNarrativeStyled(n *domain.NarrativeReport, width int, style string) string {
	var b strings.Builder
	if n.Headline != "" {
		b.WriteString(StylePurple.Render(n.Headline) + "\n")
	}
	b.WriteString(RenderMarkdownStyled(n.Markdown, width, style))
	source := fmt.Sprintf("written by %s/%s", n.Provider, n.Model)
	if n.Cached {
		source += ", cached"
	}
	b.WriteString(Dim(source) + "\n")
	return b.String()
}

// RenderMarkdown renders markdown with glamour, wrapped to width columns,
// picking a style from the terminal.
func RenderMarkdown(md string, width int) string {
	return RenderMarkdownStyled(md, width, "")
}

// RenderMarkdownStyled renders markdown with the named glamour style
// ("dark", "light", "notty", ...). An empty style is detected from the
// terminal, which must not happen while a bubbletea program owns stdin.
// The markdown is returned as-is when it cannot be rendered.
func RenderMarkdownStyled(md string, width int, style string) string {
	if width <= 0 {
		width = defaultWrapCols
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

// FormatViolations lists every problem found in a malformed upload. It
// returns "" for any other error.
func FormatViolations(err error) string {
	var malformed *importer.MalformedInputError
	if !errors.As(err, &malformed) {
		return ""
	}

	rows := make([][]string, 0, len(malformed.Violations))
	for _, v := range malformed.Violations {
		col := v.Column
		if col == "" {
			col = "--"
		}
		rows = append(rows, []string{fmt.Sprintf("%d", v.Row), col, string(v.Rule), v.Detail})
	}

	var b strings.Builder
	b.WriteString(StyleRed.Render("The file was rejected; nothing was imported.") + "\n\n")
	b.WriteString(RenderTable([]string{"ROW", "COLUMN", "RULE", "PROBLEM"}, rows, 0))
	if malformed.Truncated > 0 {
		b.WriteString(Dim(fmt.Sprintf("... and %d more", malformed.Truncated)) + "\n")
	}
	return b.String()
}
