package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// dimensionValue is a pflag.Value accepting person, project or date.
type dimensionValue struct {
	dim domain.Dimension
}

func (d *dimensionValue) String() string { return string(d.dim) }
func (d *dimensionValue) Type() string   { return "dimension" }

func (d *dimensionValue) Set(s string) error {
	dim, err := domain.ParseDimension(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	d.dim = dim
	return nil
}

type outputFormat string

const (
	formatText     outputFormat = "text"
	formatJSON     outputFormat = "json"
	formatMarkdown outputFormat = "markdown"
)

var outputFormats = []string{string(formatText), string(formatJSON), string(formatMarkdown)}

// formatValue is a pflag.Value for --format.
type formatValue struct {
	format outputFormat
}

func (f *formatValue) String() string { return string(f.format) }
func (f *formatValue) Type() string   { return "format" }

func (f *formatValue) Set(s string) error {
	switch v := outputFormat(strings.ToLower(strings.TrimSpace(s))); v {
	case formatText, formatJSON, formatMarkdown:
		f.format = v
		return nil
	case "md":
		f.format = formatMarkdown
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected %s)", s, strings.Join(outputFormats, ", "))
	}
}

var (
	_ pflag.Value = (*dimensionValue)(nil)
	_ pflag.Value = (*formatValue)(nil)
)

func completeDimensions(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(domain.Dimensions))
	for i, d := range domain.Dimensions {
		out[i] = string(d)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return outputFormats, cobra.ShellCompDirectiveNoFileComp
}
