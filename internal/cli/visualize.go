package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
)

// visualizeCommand creates the visualize command for rendering from a
// computed layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output string
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "visualize [table] [layout.json]",
		Short: "Render a table from a computed layout",
		Long: `Render a table from a computed layout.

The visualize command takes a table and a layout.json (produced by 'layout')
and renders it without recomputing widths. Pass the same --measurer used for
the layout so text cells map to the right number of terminal columns.

Use 'render' as a shortcut to go directly from a table to output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], args[1], flags.resolve(cmd, c.Config), output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVar(&flags.opts.Measurer, "measurer", "", "measurer the layout was computed with")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	flags.registerRender(cmd, true)

	return cmd
}

// runVisualize loads the table and layout and renders them.
func (c *CLI) runVisualize(ctx context.Context, input, layoutPath string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	t, err := tableio.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load table %s: %w", input, err)
	}
	l, err := tableio.ReadLayoutFile(layoutPath)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", layoutPath, err)
	}
	if l.RowCount() != t.RowCount() {
		c.Logger.Warn("layout does not match table", "layout_rows", l.RowCount(), "table_rows", t.RowCount())
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, t, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
}
