package cli

import (
	"io"

	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds what the commands need: the report pipeline plus the settings
// the serve command starts the dashboard with.
type App struct {
	Reports          service.ReportService
	NarrativeEnabled bool
	Config           *config.Config
	Logger           *zap.Logger
	Version          string

	// IsInteractive reports whether stdin is a terminal. dash refuses to
	// start without one.
	IsInteractive func() bool
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		return config.DefaultConfig()
	}
	return a.Config
}

// NewRootCmd creates the top-level "tally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "tally",
		Short:        "Timesheet reports: hours by person and project, with an optional written summary",
		Version:      app.Version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newReportCmd(app),
		newDashCmd(app),
	)

	return root
}

// isTerminal reports whether w is a terminal. Buffers and pipes are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
