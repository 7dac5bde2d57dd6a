package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/engine"
	"github.com/matzehuels/cornerstone/pkg/report"
)

// verifyCommand runs the feasibility sweep over the catalog.
func (c *CLI) verifyCommand() *cobra.Command {
	var format outputFormat
	var opts engine.VerifyOptions
	var show bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every subset of suites can be placed",
		Long: `Place every subset of two or more suites using the catalog's allowed
offsets, smallest subsets first. The sweep stops at the first subset that
cannot be placed and the command exits non-zero.

Run this whenever a catalog changes. Reports are cached per catalog
fingerprint and size range; --refresh recomputes.`,
		Example: `  cornerstone verify
  cornerstone verify --catalog suites.yaml --max 3
  cornerstone verify --show -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			cfg := c.settings()
			if !cmd.Flags().Changed("min") {
				opts.MinSize = cfg.Verify.MinSize
			}
			if !cmd.Flags().Changed("max") {
				opts.MaxSize = cfg.Verify.MaxSize
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			var spin *Spinner
			if format == formatText {
				spin = newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Placing subsets of %d suites", cat.Len()))
				spin.w = cmd.ErrOrStderr()
				spin.Start()
			}
			rep, cached, verr := runner.Verify(cmd.Context(), cat, opts)
			if spin != nil {
				spin.Stop()
			}
			if rep == nil {
				return verr
			}
			prog.done(fmt.Sprintf("Checked %d subsets", rep.Checked))

			if format != formatText {
				if err := emit(cmd.OutOrStdout(), format, rep); err != nil {
					return err
				}
				return verr
			}
			printReport(newPrinter(cmd.OutOrStdout()), rep, cached, show)
			return verr
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().IntVar(&opts.MinSize, "min", 0, "smallest subset size to check (default 2)")
	cmd.Flags().IntVar(&opts.MaxSize, "max", 0, "largest subset size to check (default: all suites)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore a cached report")
	cmd.Flags().BoolVar(&show, "show", false, "list the placement of every subset")

	return cmd
}

func printReport(p *printer, rep *report.Report, cached, show bool) {
	if show && len(rep.Results) > 0 {
		rows := make([][]string, len(rep.Results))
		for i, res := range rep.Results {
			rows[i] = []string{strings.Join(res.Suites, ","), res.Placement.String()}
		}
		p.table([]string{"Subset", "Placement"}, rows)
	}

	sizes := fmt.Sprintf("sizes %d..%d", rep.MinSize, rep.MaxSize)
	if rep.OK() {
		p.success("All %d subsets can be placed", rep.Checked)
		p.stats(cached, sizes, fmt.Sprintf("%d suites", len(rep.Catalog)))
		return
	}
	p.fail("Subset {%s} cannot be placed", strings.Join(rep.Failure, ", "))
	p.stats(cached, sizes, fmt.Sprintf("%d checked", rep.Checked))
	p.nextStep("Inspect its candidates", "cornerstone positions")
}
