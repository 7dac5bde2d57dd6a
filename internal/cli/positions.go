package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// positionsCommand prints the allowed offsets of every suite.
func (c *CLI) positionsCommand() *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show the allowed cornerstone offsets of each suite",
		Long: `Show the allowed cornerstone offsets of each suite, first per suite and
then per offset. The exclusive offset of each suite is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			runner := c.uncachedRunner()
			alloc := runner.Allocate(cat)
			if format != formatText {
				return emit(cmd.OutOrStdout(), format, alloc)
			}
			printPositions(newPrinter(cmd.OutOrStdout()), cat, alloc)
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func printPositions(p *printer, cat *suite.Catalog, alloc *placement.Allocation) {
	p.title("Per suite")
	rows := make([][]string, 0, cat.Len())
	for _, s := range cat.Suites() {
		offsets := alloc.Positions[s.Name]
		cells := make([]string, len(offsets))
		for i, off := range offsets {
			cells[i] = fmt.Sprint(off)
			if off == alloc.Exclusive[s.Name] {
				cells[i] += "*"
			}
		}
		rows = append(rows, []string{s.Name, fmt.Sprint(s.CornerstoneLen), strings.Join(cells, " ")})
	}
	p.table([]string{"Suite", "Length", "Offsets"}, rows)

	p.newline()
	p.title("Per offset")
	groups := alloc.ByOffset()
	rows = make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{fmt.Sprint(g.Offset), strings.Join(g.Suites, " ")}
	}
	p.table([]string{"Offset", "Suites"}, rows)
}
