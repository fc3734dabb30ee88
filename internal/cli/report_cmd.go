package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/contract"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const watchDebounce = 250 * time.Millisecond

type reportOptions struct {
	path    string
	format  outputFormat
	narrate bool
	by      dimensionValue
	value   string
	width   int
}

func (o *reportOptions) filter() (*contract.FilterRequest, error) {
	switch {
	case o.by.dim == "" && o.value == "":
		return nil, nil
	case o.by.dim == "" || o.value == "":
		return nil, errors.New("--by and --value must be given together")
	default:
		return &contract.FilterRequest{Dimension: o.by.dim, Value: o.value}, nil
	}
}

func newReportCmd(app *App) *cobra.Command {
	opts := reportOptions{format: formatText}
	format := formatValue{format: formatText}
	var watch bool

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Summarise a timesheet CSV in the terminal",
		Long: `Summarise a timesheet CSV: total hours, hours and share by person and by
project, who worked on what, and hours per day. With --by and --value the
report also drills into one person, project or date.`,
		Example: `  tally report timesheet.csv
  tally report timesheet.csv --by project --value Apollo
  tally report timesheet.csv --format markdown > report.md
  tally report timesheet.csv --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.path = args[0]
			opts.format = format.format
			if _, err := opts.filter(); err != nil {
				return err
			}
			if watch && opts.format != formatText {
				return errors.New("--watch only supports the text format")
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if !watch {
				return runReport(cmd.Context(), app, out, errOut, opts)
			}
			return watchReport(cmd.Context(), app, out, errOut, opts)
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&opts.narrate, "narrate", false, "Ask the language model for a written summary")
	cmd.Flags().Var(&opts.by, "by", "Drill down by person, project or date")
	cmd.Flags().StringVar(&opts.value, "value", "", "Value to drill down to (with --by)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render whenever the file changes")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Wrap the summary at this many columns (default 80)")
	_ = cmd.RegisterFlagCompletionFunc("by", completeDimensions)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runReport builds and prints one report. Malformed files get their
// violation list on errOut before the error is returned.
func runReport(ctx context.Context, app *App, out, errOut io.Writer, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(opts.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.path, err)
	}

	req := contract.NewReportRequest(filepath.Base(opts.path), data)
	req.Narrate = opts.narrate
	req.Filter, _ = opts.filter()

	var stop func()
	if opts.narrate && app.NarrativeEnabled && isTerminal(errOut) {
		stop = formatter.StartSpinner(errOut, "writing summary...")
	}
	resp, err := app.Reports.Build(ctx, req)
	if stop != nil {
		stop()
	}
	if err != nil {
		if list := formatter.FormatViolations(err); list != "" {
			fmt.Fprint(errOut, list)
		}
		return err
	}

	switch opts.format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case formatMarkdown:
		_, err = fmt.Fprint(out, formatter.FormatMarkdown(resp))
		return err
	default:
		_, err = fmt.Fprint(out, formatter.FormatReport(resp, formatter.ReportOptions{Width: opts.width}))
		return err
	}
}

// watchReport prints the report, then prints it again each time the file
// changes. Errors from a half-saved file are shown and watching continues.
func watchReport(ctx context.Context, app *App, out, errOut io.Writer, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	render := func() {
		if isTerminal(out) {
			fmt.Fprint(out, "\033[H\033[2J")
		}
		if err := runReport(ctx, app, out, errOut, opts); err != nil {
			fmt.Fprintln(errOut, formatter.StyleRed.Render("Error: "+err.Error()))
		}
		fmt.Fprintln(errOut, formatter.Dim(fmt.Sprintf("watching %s for changes (ctrl+c to stop)", opts.path)))
	}

	render()
	return watchFile(ctx, opts.path, watchDebounce, render, func(err error) {
		app.logger().Warn("file watcher error", zap.String("path", opts.path), zap.Error(err))
	})
}
