package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/render"
)

// renderOpts holds the flags shared by the render subcommands.
type renderOpts struct {
	output string // output file path, stdout if empty
	format string // dot, svg or png
}

func (o *renderOpts) validate() error {
	if !slices.Contains(render.Formats, o.format) {
		return errors.New(errors.ErrCodeInvalidFormat, "render format must be one of %s, got %q",
			strings.Join(render.Formats, ", "), o.format)
	}
	return nil
}

// renderCommand draws positions or a header layout with Graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{format: render.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw positions or a header layout as a diagram",
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.PersistentFlags().StringVarP(&opts.format, "type", "t", render.FormatSVG, "diagram format: dot, svg, png")
	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(render.Formats, cobra.ShellCompDirectiveNoFileComp))

	cmd.AddCommand(c.renderPositionsCommand(opts))
	cmd.AddCommand(c.renderLayoutCommand(opts))

	return cmd
}

func (c *CLI) renderPositionsCommand(opts *renderOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Draw every suite's candidate offsets and their overlaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			dot := render.PositionsDOT(cat, c.uncachedRunner().Allocate(cat))
			return c.writeDiagram(cmd, dot, opts, "positions")
		},
	}
}

func (c *CLI) renderLayoutCommand(opts *renderOpts) *cobra.Command {
	return &cobra.Command{
		Use:               "layout [suites...]",
		Short:             "Draw the header layout of a subset of suites",
		ValidArgsFunction: c.completeSuites,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			names, err := parseSuiteArgs(args)
			if err != nil {
				return err
			}
			h, err := c.uncachedRunner().Layout(cmd.Context(), cat, names)
			if err != nil {
				return err
			}
			return c.writeDiagram(cmd, render.PlacementDOT(h), opts, "layout")
		},
	}
}

func (c *CLI) writeDiagram(cmd *cobra.Command, dot string, opts *renderOpts, what string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.output == "" && opts.format == render.FormatPNG {
		return errors.New(errors.ErrCodeInvalidInput, "png output needs --output")
	}
	data, err := render.Render(ctx, dot, opts.format)
	if err != nil {
		return fmt.Errorf("render %s: %w", what, err)
	}
	if err := writeOutput(cmd.OutOrStdout(), data, opts.output); err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	if opts.output != "" {
		p := newPrinter(cmd.OutOrStdout())
		p.success("Rendered %s as %s", what, opts.format)
		p.file(opts.output)
	}
	return nil
}
