package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
)

// renderCommand creates the render command, a shortcut for layout followed
// by visualize.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "render [table]",
		Short: "Lay out and render a table",
		Long: `Lay out and render a table in one step.

Text output goes to stdout unless --output is given; other formats are
written next to the input as <table>.svg and <table>.json. Use -o - to
print every format to stdout.

When text is requested without --width and stdout is a terminal, the
available width is the terminal width.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags.resolve(cmd, c.Config), output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	flags.registerLayout(cmd)
	flags.registerCache(cmd)
	flags.registerRender(cmd, true)

	return cmd
}

// runRender loads the table and runs the whole pipeline.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	t, err := tableio.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load table %s: %w", input, err)
	}

	if opts.Width == 0 && slices.Contains(opts.Formats, pipeline.FormatText) {
		if cols, ok := terminalWidth(); ok {
			opts.Width = float64(cols) * opts.CellWidth
			c.Logger.Debug("using terminal width", "cols", cols, "width", opts.Width)
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// terminalWidth returns the width of stdout in cells if it is a terminal.
func terminalWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return 0, false
	}
	return cols, true
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes rendered formats to stdout or to files derived from
// the input and output paths.
func writeArtifacts(p artifactWriteParams) error {
	toStdout := p.output == "-" ||
		(p.output == "" && len(p.formats) == 1 && p.formats[0] == pipeline.FormatText)
	if toStdout {
		for _, format := range p.formats {
			data := p.artifacts[format]
			if !bytes.HasSuffix(data, []byte("\n")) {
				data = append(bytes.Clone(data), '\n')
			}
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
		}
		return nil
	}

	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := p.output
		if len(p.formats) > 1 || path == "" {
			path = basePath(p.output, p.input) + "." + artifactExt(format)
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d artifact(s)", len(paths))
	for _, path := range paths {
		printFile(path)
	}
	status := labelFresh
	if p.cacheHit {
		status = labelCached
	}
	printDetail("%s", status)
	return nil
}
