package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
	"github.com/alexanderramin/tally/internal/narrative"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNarrator struct {
	calls int
	err   error
}

func (n *stubNarrator) Narrate(_ context.Context, in narrative.Input) (*domain.NarrativeReport, error) {
	n.calls++
	if n.err != nil {
		return nil, n.err
	}
	return &domain.NarrativeReport{
		Headline: "Quiet day in " + in.Filename,
		Markdown: "Most of the time went to **proj1**.",
		Provider: "ollama",
		Model:    "llama3.2",
	}, nil
}

// testApp wires an App around the real report pipeline. A nil narrator
// leaves summaries disabled.
func testApp(t *testing.T, narrator service.Narrator) *App {
	t.Helper()
	return &App{
		Reports: service.NewReportService(narrator, service.ReportOptions{
			Now: func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) },
		}),
		NarrativeEnabled: narrator != nil,
		Config:           config.DefaultConfig(),
		Version:          "test",
		IsInteractive:    func() bool { return false },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	output, err := executeCmd(t, testApp(t, nil))
	require.NoError(t, err)
	assert.Contains(t, output, "tally")
	assert.Contains(t, output, "serve")
	assert.Contains(t, output, "report")
	assert.Contains(t, output, "dash")
}

func TestRootCmd_Version(t *testing.T) {
	output, err := executeCmd(t, testApp(t, nil), "--version")
	require.NoError(t, err)
	assert.Contains(t, output, "test")
}

// --- report ---

func TestReportCmd_Text(t *testing.T) {
	path := testutil.WriteFile(t, "example.csv", testutil.ExampleCSV)

	output, err := executeCmd(t, testApp(t, nil), "report", path)
	require.NoError(t, err)

	out := stripANSI(output)
	assert.Contains(t, out, "EXAMPLE.CSV")
	assert.Contains(t, out, "16h")
	assert.Contains(t, out, "HOURS BY PERSON")
	assert.Contains(t, out, "75.0%")
}

func TestReportCmd_JSON(t *testing.T) {
	path := testutil.WriteFile(t, "week.csv", testutil.WeekCSV)

	output, err := executeCmd(t, testApp(t, nil), "report", path, "--format", "json", "--by", "Project", "--value", "Apollo")
	require.NoError(t, err)

	var resp struct {
		Filename string `json:"filename"`
		Summary  struct {
			Total float64 `json:"total_hours"`
		} `json:"summary"`
		Selection struct {
			Dimension string  `json:"dimension"`
			Hours     float64 `json:"hours"`
		} `json:"selection"`
		NarrativeState string `json:"narrative_state"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp), output)
	assert.Equal(t, "week.csv", resp.Filename)
	assert.InDelta(t, 30.0, resp.Summary.Total, 1e-9)
	assert.Equal(t, "project", resp.Selection.Dimension)
	assert.InDelta(t, 17.5, resp.Selection.Hours, 1e-9)
	assert.Equal(t, "skipped", resp.NarrativeState)
}

func TestReportCmd_Markdown(t *testing.T) {
	path := testutil.WriteFile(t, "example.csv", testutil.ExampleCSV)

	output, err := executeCmd(t, testApp(t, nil), "report", path, "-f", "md")
	require.NoError(t, err)
	assert.Contains(t, output, "# Timesheet report: example.csv")
	assert.Contains(t, output, "| proj1 | 12 | 75.0% |")
}

func TestReportCmd_Narrate(t *testing.T) {
	narrator := &stubNarrator{}
	app := testApp(t, narrator)
	path := testutil.WriteFile(t, "example.csv", testutil.ExampleCSV)

	output, err := executeCmd(t, app, "report", path, "--narrate")
	require.NoError(t, err)
	assert.Equal(t, 1, narrator.calls)
	assert.Contains(t, stripANSI(output), "Quiet day in example.csv")

	narrator.calls = 0
	_, err = executeCmd(t, app, "report", path)
	require.NoError(t, err)
	assert.Zero(t, narrator.calls, "no summary unless asked for")
}

func TestReportCmd_NarrateDisabledWarns(t *testing.T) {
	path := testutil.WriteFile(t, "example.csv", testutil.ExampleCSV)

	output, err := executeCmd(t, testApp(t, nil), "report", path, "--narrate")
	require.NoError(t, err)
	assert.Contains(t, stripANSI(output), "WARNING")
}

func TestReportCmd_Malformed(t *testing.T) {
	path := testutil.WriteFile(t, "bad.csv", testutil.MalformedCSV)

	output, err := executeCmd(t, testApp(t, nil), "report", path)
	require.Error(t, err)

	var malformed *importer.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
	out := stripANSI(output)
	assert.Contains(t, out, "nothing was imported")
	assert.Contains(t, out, "bad_number")
	assert.Contains(t, out, "bad_date")
}

func TestReportCmd_Errors(t *testing.T) {
	path := testutil.WriteFile(t, "example.csv", testutil.ExampleCSV)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"report", "/nonexistent/timesheet.csv"}, "reading /nonexistent/timesheet.csv"},
		{"no file", []string{"report"}, "accepts 1 arg"},
		{"by without value", []string{"report", path, "--by", "person"}, "--by and --value must be given together"},
		{"value without by", []string{"report", path, "--value", "alice"}, "--by and --value must be given together"},
		{"unknown dimension", []string{"report", path, "--by", "client", "--value", "x"}, "unknown dimension"},
		{"unknown format", []string{"report", path, "--format", "xml"}, "unknown format"},
		{"watch with json", []string{"report", path, "--watch", "--format", "json"}, "--watch only supports the text format"},
		{"empty file", []string{"report", testutil.WriteFile(t, "empty.csv", "")}, "empty upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, testApp(t, nil), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// --- dash ---

func TestDashCmd_RequiresTerminal(t *testing.T) {
	_, err := executeCmd(t, testApp(t, nil), "dash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

// --- serve ---

func TestServeCmd_StopsWhenContextDone(t *testing.T) {
	root := NewRootCmd(testApp(t, nil))
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"serve", "--port", "0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeCmd_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"port", []string{"serve", "--port", "70000"}, "--port 70000 out of range"},
		{"upload", []string{"serve", "--max-upload-mb", "0"}, "--max-upload-mb must be positive"},
		{"args", []string{"serve", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, testApp(t, nil), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
