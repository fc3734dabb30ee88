package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tallyHuhTheme returns a huh theme matching the formatter palette.
func tallyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateCSVPath accepts a path to an existing regular file.
func validateCSVPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("enter a file path")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot open %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

func openFileForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Timesheet CSV").
				Description("Path to a CSV with person, project, date and hours columns").
				Placeholder("timesheet.csv").
				Value(path).
				Validate(validateCSVPath),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)
}

func dimensionForm(dim *string) *huh.Form {
	opts := make([]huh.Option[string], len(domain.Dimensions))
	for i, d := range domain.Dimensions {
		opts[i] = huh.NewOption(string(d), string(d))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Drill down by").
				Options(opts...).
				Value(dim),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)
}

func valueForm(dim string, values []string, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which " + dim + "?").
				Options(huh.NewOptions(values...)...).
				Height(min(len(values)+2, 12)).
				Value(value),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)
}
