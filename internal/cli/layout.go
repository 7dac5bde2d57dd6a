package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/layout"
)

// layoutCommand shows the header layout produced by a placement.
func (c *CLI) layoutCommand() *cobra.Command {
	var format outputFormat
	var interactive, raw bool

	cmd := &cobra.Command{
		Use:   "layout [suites...]",
		Short: "Show the header layout for a subset of suites",
		Long: `Place the named suites and show the resulting header: each cornerstone
with its entrypoint size, the free gaps between cornerstones, and the
length of the cornerstone prefix.`,
		Example: `  cornerstone layout b c d e f
  cornerstone layout a,d --raw`,
		ValidArgsFunction: c.completeSuites,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			names, err := c.resolveSuites(cmd, cat, args, interactive)
			if err != nil || names == nil {
				return err
			}

			runner := c.uncachedRunner()
			h, err := runner.Layout(cmd.Context(), cat, names)
			if err != nil {
				return err
			}

			switch {
			case format != formatText:
				return emit(cmd.OutOrStdout(), format, h)
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), h.Layout().String())
				return err
			}
			printHeader(newPrinter(cmd.OutOrStdout()), h)
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick suites interactively")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reservation map, one region per line")

	return cmd
}

func printHeader(p *printer, h *layout.Header) {
	regions := append(h.Layout().Regions(), h.Free...)
	sortRegions(regions)

	entry := make(map[string]int, len(h.Cornerstones))
	for _, cs := range h.Cornerstones {
		entry[cs.Suite] = cs.EntrypointLen
	}

	rows := make([][]string, len(regions))
	for i, r := range regions {
		ep := "-"
		if n, ok := entry[r.Label]; ok {
			ep = fmt.Sprint(n)
		}
		rows[i] = []string{fmt.Sprint(r.Start), fmt.Sprint(r.End), r.Label, ep}
	}

	p.title("Header layout")
	p.table([]string{"Start", "End", "Region", "Entrypoint"}, rows)
	p.keyValue("Length", fmt.Sprintf("%d bytes", h.Length))
	p.keyValue("Free", fmt.Sprintf("%d bytes in %d gaps", h.Slack(), len(h.Free)))
}

func sortRegions(rs []layout.Region) {
	slices.SortFunc(rs, func(a, b layout.Region) int { return cmp.Compare(a.Start, b.Start) })
}
