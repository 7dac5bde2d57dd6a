package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// outputFormat selects how a command prints its result.
type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

var outputFormats = []outputFormat{formatText, formatJSON, formatYAML}

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string {
	if *f == "" {
		return string(formatText)
	}
	return string(*f)
}

func (f *outputFormat) Set(s string) error {
	for _, v := range outputFormats {
		if strings.EqualFold(s, string(v)) {
			*f = v
			return nil
		}
	}
	if strings.EqualFold(s, "yml") {
		*f = formatYAML
		return nil
	}
	return fmt.Errorf("must be one of text, json, yaml")
}

func (f *outputFormat) Type() string { return "format" }

// addFormatFlag registers --format/-f on cmd with shell completion.
func addFormatFlag(cmd *cobra.Command, f *outputFormat) {
	*f = formatText
	cmd.Flags().VarP(f, "format", "f", "output format: text, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, len(outputFormats))
		for i, v := range outputFormats {
			out[i] = string(v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// emit encodes v as JSON or YAML. It must not be called with formatText.
func emit(w io.Writer, f outputFormat, v any) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("emit: unsupported format %q", f)
	}
}
