package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type dashTab int

const (
	tabPeople dashTab = iota
	tabProjects
	tabAllocations
	tabDays
	tabSummary
	tabSelection // only present while drilled down
)

var tabTitles = map[dashTab]string{
	tabPeople:      "People",
	tabProjects:    "Projects",
	tabAllocations: "Who worked on what",
	tabDays:        "Days",
	tabSummary:     "Summary",
	tabSelection:   "Drill-down",
}

type dashMode int

const (
	modeBrowse dashMode = iota
	modeOpen
	modeFilterDimension
	modeFilterValue
)

// chromeLines is the number of rows the header, overview, tab bar and help
// line take around the table.
const chromeLines = 9

type reportLoadedMsg struct {
	resp *contract.ReportResponse
	err  error
}

// dashModel is the bubbletea model behind `tally dash`. It uses a pointer
// receiver so huh form bindings stay valid across updates.
type dashModel struct {
	app     *App
	ctx     context.Context
	path    string
	narrate bool
	filter  *contract.FilterRequest
	mdStyle string

	resp    *contract.ReportResponse
	err     error
	loading bool

	tab  dashTab
	mode dashMode
	form *huh.Form

	formPath  string
	formDim   string
	formValue string

	table     table.Model
	narrative viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      dashKeyMap

	width, height int
	quitting      bool
}

type dashOptions struct {
	path    string
	narrate bool
	// mdStyle is the glamour style for the summary tab; it must be set
	// before the program starts since detection reads the terminal.
	mdStyle string
}

func newDashModel(ctx context.Context, app *App, opts dashOptions) *dashModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.mdStyle == "" {
		opts.mdStyle = "dark"
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Foreground(formatter.ColorHeader).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(formatter.ColorFg).
		Background(lipgloss.Color("#504945")).
		Bold(false)

	t := table.New(table.WithFocused(true), table.WithHeight(10), table.WithStyles(styles))

	vp := viewport.New(80, 10)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(formatter.StylePurple),
	)

	return &dashModel{
		app:       app,
		ctx:       ctx,
		path:      opts.path,
		narrate:   opts.narrate,
		mdStyle:   opts.mdStyle,
		table:     t,
		narrative: vp,
		spinner:   sp,
		help:      help.New(),
		keys:      defaultDashKeys(),
		width:     80,
		height:    24,
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m *dashModel) Init() tea.Cmd {
	if m.path == "" {
		return m.startOpen()
	}
	return m.startLoad()
}

func (m *dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.form != nil {
			form, cmd := m.form.Update(msg)
			m.setForm(form)
			return m, cmd
		}
		return m, nil

	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.resp = msg.resp
			if m.tab == tabSelection && m.resp.Selection == nil {
				m.tab = tabPeople
			}
			m.refreshContent()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.mode != modeBrowse {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *dashModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch {
	case m.mode != modeBrowse && m.form != nil:
		sections = append(sections, "", m.form.View())
	case m.loading:
		sections = append(sections, "", "  "+m.spinner.View()+" "+formatter.Dim("Building report…"))
	case m.err != nil:
		sections = append(sections, "", m.renderError())
	case m.resp != nil:
		sections = append(sections, m.renderReport())
	}

	sections = append(sections, "", m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

// ── state transitions ────────────────────────────────────────────────────────

func (m *dashModel) startLoad() tea.Cmd {
	m.loading = true
	m.err = nil
	return tea.Batch(m.load(), m.spinner.Tick)
}

// load reads the file and runs the report pipeline off the update loop.
func (m *dashModel) load() tea.Cmd {
	ctx, reports := m.ctx, m.app.Reports
	path, narrate := m.path, m.narrate
	var filter *contract.FilterRequest
	if m.filter != nil {
		f := *m.filter
		filter = &f
	}

	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return reportLoadedMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}
		req := contract.NewReportRequest(filepath.Base(path), data)
		req.Narrate = narrate
		req.Filter = filter
		resp, err := reports.Build(ctx, req)
		return reportLoadedMsg{resp: resp, err: err}
	}
}

func (m *dashModel) startOpen() tea.Cmd {
	m.mode = modeOpen
	m.formPath = m.path
	m.form = openFileForm(&m.formPath)
	return m.form.Init()
}

func (m *dashModel) startFilter() tea.Cmd {
	m.mode = modeFilterDimension
	m.formDim = string(domain.DimensionPerson)
	if m.filter != nil {
		m.formDim = string(m.filter.Dimension)
	}
	m.form = dimensionForm(&m.formDim)
	return m.form.Init()
}

func (m *dashModel) setForm(model tea.Model) {
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
}

func (m *dashModel) closeForm() {
	m.mode = modeBrowse
	m.form = nil
}

func (m *dashModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.cancelForm()
	}

	form, cmd := m.form.Update(msg)
	m.setForm(form)

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.completeForm()
	case huh.StateAborted:
		return m.cancelForm()
	}
	return m, cmd
}

func (m *dashModel) cancelForm() (tea.Model, tea.Cmd) {
	opening := m.mode == modeOpen
	m.closeForm()
	if opening && m.resp == nil && m.err == nil && !m.loading {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *dashModel) completeForm() tea.Cmd {
	switch m.mode {
	case modeOpen:
		m.closeForm()
		m.path = strings.TrimSpace(m.formPath)
		m.filter = nil
		m.tab = tabPeople
		return m.startLoad()

	case modeFilterDimension:
		values := m.resp.FilterValues[domain.Dimension(m.formDim)]
		if len(values) == 0 {
			m.closeForm()
			return nil
		}
		m.mode = modeFilterValue
		m.formValue = values[0]
		if m.filter != nil && string(m.filter.Dimension) == m.formDim {
			m.formValue = m.filter.Value
		}
		m.form = valueForm(m.formDim, values, &m.formValue)
		return m.form.Init()

	case modeFilterValue:
		m.closeForm()
		m.filter = &contract.FilterRequest{Dimension: domain.Dimension(m.formDim), Value: m.formValue}
		m.tab = tabSelection
		return m.startLoad()
	}
	m.closeForm()
	return nil
}

func (m *dashModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m, m.startOpen()

	case m.loading:
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad()
	}

	if m.resp == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		if m.resp.Empty {
			return m, nil
		}
		return m, m.startFilter()

	case key.Matches(msg, m.keys.Clear):
		if m.filter == nil {
			return m, nil
		}
		m.filter = nil
		return m, m.startLoad()

	case key.Matches(msg, m.keys.Narrate):
		if !m.app.NarrativeEnabled || m.narrate {
			return m, nil
		}
		m.narrate = true
		m.tab = tabSummary
		return m, m.startLoad()
	}

	var cmd tea.Cmd
	if m.tab == tabSummary {
		m.narrative, cmd = m.narrative.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// ── content ──────────────────────────────────────────────────────────────────

func (m *dashModel) tabs() []dashTab {
	tabs := []dashTab{tabPeople, tabProjects, tabAllocations, tabDays, tabSummary}
	if m.resp != nil && m.resp.Selection != nil {
		tabs = append(tabs, tabSelection)
	}
	return tabs
}

func (m *dashModel) switchTab(delta int) {
	tabs := m.tabs()
	idx := 0
	for i, t := range tabs {
		if t == m.tab {
			idx = i
		}
	}
	m.tab = tabs[(idx+delta+len(tabs))%len(tabs)]
	m.refreshContent()
}

func (m *dashModel) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w

	helpLines := 1
	if m.help.ShowAll {
		helpLines = 4
	}
	bodyHeight := max(h-chromeLines-helpLines-m.warningLines(), 3)
	m.table.SetWidth(w)
	m.table.SetHeight(bodyHeight)
	m.narrative.Width = w
	m.narrative.Height = bodyHeight
	m.refreshContent()
}

func (m *dashModel) warningLines() int {
	if m.resp == nil {
		return 0
	}
	return len(m.resp.Warnings)
}

// refreshContent loads the active tab's data into the table or viewport.
func (m *dashModel) refreshContent() {
	if m.resp == nil {
		return
	}
	s := m.resp.Summary

	switch m.tab {
	case tabPeople:
		m.setTable(bucketColumns("Person", m.width), bucketRows(s.People, m.barWidth()))
	case tabProjects:
		m.setTable(bucketColumns("Project", m.width), bucketRows(s.Projects, m.barWidth()))
	case tabDays:
		m.setTable(bucketColumns("Date", m.width), bucketRows(s.Days, m.barWidth()))
	case tabAllocations:
		m.setTable(allocationColumns(m.width), allocationRows(s.Allocations))
	case tabSelection:
		if sel := m.resp.Selection; sel != nil {
			m.setTable(bucketColumns("Date", m.width), bucketRows(sel.Days, m.barWidth()))
		}
	case tabSummary:
		m.narrative.SetContent(m.summaryContent())
		m.narrative.GotoTop()
	}
}

func (m *dashModel) setTable(cols []table.Column, rows []table.Row) {
	// Rows must be cleared first: the table renders existing rows against
	// the new columns.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *dashModel) barWidth() int {
	return max(min(m.width/4, 30), 10)
}

func (m *dashModel) summaryContent() string {
	r := m.resp
	if r.Narrative != nil {
		return formatter.FormatNarrativeStyled(r.Narrative, max(m.width-4, 20), m.mdStyle)
	}
	switch r.NarrativeState {
	case domain.NarrativeDisabled:
		return formatter.Dim("Written summaries are off: no language model is configured.")
	case domain.NarrativeFailed:
		return formatter.StyleRed.Render("The summary could not be written.") + "\n" +
			formatter.Dim("The report above is complete. Press r to try again.")
	default:
		if m.app.NarrativeEnabled {
			return formatter.Dim("No summary requested. Press n to write one.")
		}
		return formatter.Dim("No summary for this report.")
	}
}

func bucketColumns(keyTitle string, width int) []table.Column {
	keyWidth := max(min(width/3, 32), 12)
	barWidth := max(min(width/4, 30), 10)
	return []table.Column{
		{Title: keyTitle, Width: keyWidth},
		{Title: "Hours", Width: 10},
		{Title: "Share", Width: 7},
		{Title: "", Width: barWidth},
	}
}

func bucketRows(buckets []domain.Bucket, barWidth int) []table.Row {
	rows := make([]table.Row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, table.Row{
			b.Key,
			formatter.FormatHours(b.Hours),
			formatter.FormatPercent(b.Share),
			formatter.RenderCompactBar(b.Share, barWidth, true),
		})
	}
	return rows
}

func allocationColumns(width int) []table.Column {
	nameWidth := max(min(width/4, 24), 10)
	return []table.Column{
		{Title: "Person", Width: nameWidth},
		{Title: "Project", Width: nameWidth},
		{Title: "Hours", Width: 10},
		{Title: "Of their time", Width: 14},
	}
}

func allocationRows(allocs []domain.Allocation) []table.Row {
	var rows []table.Row
	for _, a := range allocs {
		for i, p := range a.Projects {
			person := ""
			if i == 0 {
				person = a.Person
			}
			rows = append(rows, table.Row{
				person,
				p.Key,
				formatter.FormatHours(p.Hours),
				formatter.FormatPercent(p.Share),
			})
		}
	}
	return rows
}

// ── rendering ────────────────────────────────────────────────────────────────

func (m *dashModel) renderHeader() string {
	title := formatter.StylePurple.Render("tally")
	if m.resp != nil {
		title += " " + formatter.Dim("›") + " " + formatter.Bold(m.resp.Filename)
	} else if m.path != "" {
		title += " " + formatter.Dim("›") + " " + formatter.Dim(filepath.Base(m.path))
	}
	if m.filter != nil {
		title += "  " + formatter.Dim("[") +
			formatter.StyleGreen.Render(fmt.Sprintf("%s = %s", m.filter.Dimension, m.filter.Value)) +
			formatter.Dim("]")
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return title + "\n" + sep
}

func (m *dashModel) renderReport() string {
	r := m.resp
	s := r.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n",
		formatter.Bold(formatter.FormatHours(s.Total)),
		formatter.Dim(fmt.Sprintf("%d entries", s.RecordCount)),
		formatter.Dim(fmt.Sprintf("%d people · %d projects", len(s.People), len(s.Projects))),
		formatter.Dim(formatter.FormatPeriod(s.FirstDate, s.LastDate)),
		formatter.NarrativeIndicator(r.NarrativeState),
	)
	if sel := r.Selection; sel != nil {
		fmt.Fprintf(&b, "%s %s %s\n",
			formatter.StyleGreen.Render(fmt.Sprintf("%s = %s:", sel.Dimension, sel.Value)),
			formatter.Bold(formatter.FormatHours(sel.Hours)),
			formatter.Dim("("+formatter.FormatPercent(sel.Share)+" of the total)"),
		)
	}
	for _, w := range r.Warnings {
		b.WriteString(formatter.Warning(w.Message) + "\n")
	}

	if r.Empty {
		b.WriteString("\n" + formatter.Dim("No hours logged in this file. Press o to open another.") + "\n")
		return b.String()
	}

	b.WriteString("\n" + m.renderTabs() + "\n\n")
	if m.tab == tabSummary {
		b.WriteString(m.narrative.View())
	} else {
		b.WriteString(m.table.View())
	}
	return b.String()
}

func (m *dashModel) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true).Underline(true)
	var parts []string
	for _, t := range m.tabs() {
		if t == m.tab {
			parts = append(parts, active.Render(tabTitles[t]))
		} else {
			parts = append(parts, formatter.Dim(tabTitles[t]))
		}
	}
	return strings.Join(parts, formatter.Dim("  │  "))
}

func (m *dashModel) renderError() string {
	var b strings.Builder
	b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	if list := formatter.FormatViolations(m.err); list != "" {
		b.WriteString("\n" + list)
	}
	b.WriteString("\n" + formatter.Dim("Fix the file and press r to reload, or o to open another."))
	return b.String()
}

var _ tea.Model = (*dashModel)(nil)
