package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// placeCommand places a subset of suites.
func (c *CLI) placeCommand() *cobra.Command {
	var format outputFormat
	var interactive bool

	cmd := &cobra.Command{
		Use:   "place [suites...]",
		Short: "Assign non-overlapping cornerstone ranges to a subset of suites",
		Long: `Assign every named suite one of its allowed offsets so that no two
cornerstones overlap. Suites are placed in catalog order regardless of the
order they are named in.`,
		Example: `  cornerstone place a d
  cornerstone place b,c,d,e,f -f json
  cornerstone place --interactive`,
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
			p, err := runner.Place(cmd.Context(), cat, names)
			if err != nil {
				return err
			}
			if format != formatText {
				return emit(cmd.OutOrStdout(), format, p)
			}
			printPlacement(newPrinter(cmd.OutOrStdout()), cat, p)
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick suites interactively")

	return cmd
}

// resolveSuites returns the suites named on the command line, or the
// picker's selection with --interactive. A nil result without error means
// the picker was dismissed.
func (c *CLI) resolveSuites(cmd *cobra.Command, cat *suite.Catalog, args []string, interactive bool) ([]string, error) {
	if !interactive {
		return parseSuiteArgs(args)
	}
	if len(args) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--interactive takes no suite arguments")
	}
	names, err := pickSuites(cmd.Context(), cat, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		newPrinter(cmd.OutOrStdout()).info("Nothing selected")
		return nil, nil
	}
	return names, nil
}

func printPlacement(p *printer, cat *suite.Catalog, pl placement.Placement) {
	slots := pl.Slots()
	rows := make([][]string, len(slots))
	for i, s := range slots {
		rows[i] = []string{s.Suite, fmt.Sprint(s.Interval.Start), fmt.Sprint(s.Interval.End), fmt.Sprint(s.Interval.Len())}
	}
	p.success("Placed %d suites", len(slots))
	p.table([]string{"Suite", "Start", "End", "Length"}, rows)
	p.keyValue("Header end", fmt.Sprintf("%d bytes", pl.End()))
	if used := usedBytes(pl); used < pl.End() {
		p.detail("%d of %d bytes unused below the end", pl.End()-used, pl.End())
	}
}

func usedBytes(pl placement.Placement) int {
	n := 0
	for _, iv := range pl {
		n += iv.Len()
	}
	return n
}
