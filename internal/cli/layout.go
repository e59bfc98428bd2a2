package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
)

// layoutCommand creates the layout command for computing column layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [table]",
		Short: "Compute the column layout of a table",
		Long: `Compute the column layout of a table.

The layout command reads a table document (.json, .toml, .yaml, .csv, .tsv)
and computes column widths, row offsets, and the content size against the
given available width. The result is written as <table>.layout.json and can
be rendered with 'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags.resolve(cmd, c.Config), output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.registerLayout(cmd)
	flags.registerCache(cmd)

	return cmd
}

// runLayout loads the table, computes the layout, and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	t, err := tableio.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load table %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("computed layout", "columns", l.ColumnCount(), "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := tableio.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(t.RowCount(), l.ColumnCount(), l.ContentWidth, cacheHit)
	if l.Viewport.ScrollX || l.Viewport.ScrollY {
		printWarning("Content exceeds the viewport (%.1f x %.1f)", l.Viewport.Width, l.Viewport.Height)
	}
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s visualize %s %s", appName, input, outputPath))

	return nil
}
