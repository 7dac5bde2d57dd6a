package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// catalogCommand prints or exports the active catalog.
func (c *CLI) catalogCommand() *cobra.Command {
	var format outputFormat
	var export suite.Format
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the suite catalog",
		Long: `Show the suites of the active catalog in processing order.

With --export the catalog is written as a loadable catalog file, which is a
convenient starting point for a custom catalog.`,
		Example: `  cornerstone catalog
  cornerstone catalog --catalog toy -f json
  cornerstone catalog --export toml -o my-suites.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			if export != suite.FormatAuto {
				data, err := suite.Marshal(cat, export)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd.OutOrStdout(), data, output); err != nil {
					return fmt.Errorf("write catalog: %w", err)
				}
				if output != "" {
					p := newPrinter(cmd.OutOrStdout())
					p.success("Exported %d suites", cat.Len())
					p.file(output)
				}
				return nil
			}
			if output != "" {
				return errors.New(errors.ErrCodeInvalidInput, "--output requires --export")
			}

			if format != formatText {
				return emit(cmd.OutOrStdout(), format, cat.Suites())
			}
			printCatalog(newPrinter(cmd.OutOrStdout()), cat)
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().Var(&export, "export", "write the catalog as a catalog file: toml, yaml, jsonc")
	cmd.Flags().StringVarP(&output, "output", "o", "", "export file (stdout if empty)")

	return cmd
}

func printCatalog(p *printer, cat *suite.Catalog) {
	rows := make([][]string, cat.Len())
	for i, s := range cat.Suites() {
		rows[i] = []string{
			fmt.Sprint(i),
			s.Name,
			fmt.Sprint(s.CornerstoneLen),
			fmt.Sprint(s.EntrypointLen),
		}
	}
	p.title(fmt.Sprintf("Catalog (%d suites)", cat.Len()))
	p.table([]string{"#", "Suite", "Cornerstone", "Entrypoint"}, rows)
	p.keyValue("Exclusive", fmt.Sprintf("%d bytes", cat.TotalCornerstoneLen()))
	p.keyValue("Fingerprint", cat.Fingerprint()[:16])
}

// parseSuiteArgs accepts suites as separate arguments, comma-separated
// lists, or a mix of both.
func parseSuiteArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "name at least one suite")
	}
	var names []string
	for _, arg := range args {
		parts, err := errors.SplitSuiteList(arg)
		if err != nil {
			return nil, err
		}
		names = append(names, parts...)
	}
	return names, nil
}

// completeSuites offers suite names from the active catalog.
func (c *CLI) completeSuites(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	used := make(map[string]bool)
	for _, a := range args {
		for _, n := range strings.Split(a, ",") {
			used[strings.TrimSpace(n)] = true
		}
	}
	var out []string
	for _, name := range cat.Names() {
		if !used[name] && strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
