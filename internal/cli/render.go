package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mnrl/pkg/pipeline"
)

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw an MNRL network as a node-link diagram",
		Long: `Draw an MNRL network as a node-link diagram.

Nodes are shaped by type: states are ellipses, counters boxes, gates
trapezia. Reporting nodes get a double outline and start nodes are filled.
With --ports every node becomes a record with one field per port and edges
attach to the fields they connect.

Defaults for format, direction and ports come from the [render] section of
the config file. Results are cached by document content and options.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			c.applyRenderDefaults(cmd, &opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, args[0], output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "", "layout direction: LR, TB")
	cmd.Flags().BoolVar(&opts.Ports, "ports", false, "draw ports as record fields")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show typed fields and attributes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	return cmd
}

// applyRenderDefaults fills options the user did not set from the config.
func (c *CLI) applyRenderDefaults(cmd *cobra.Command, opts *pipeline.Options) {
	r := c.Config.Render
	if !cmd.Flags().Changed("format") {
		opts.Format = r.Format
	}
	if !cmd.Flags().Changed("direction") {
		opts.Direction = r.Direction
	}
	if !cmd.Flags().Changed("ports") {
		opts.Ports = r.Ports
	}
	if !cmd.Flags().Changed("detailed") {
		opts.Detailed = r.Detailed
	}
}

// runRender renders input and writes the artifact.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input, output string, opts pipeline.Options, noCache bool) error {
	data, err := readDocument(cmd, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	errOut := cmd.ErrOrStderr()
	spinner := newSpinnerWithContext(ctx, errOut, fmt.Sprintf("Rendering %s...", opts.Format))
	spinner.Start()

	out, cacheHit, err := runner.RenderWithCacheInfo(ctx, input, data, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := renderOutputPath(input, output, opts.Format)
	if err := writeOutput(cmd, outputPath, out); err != nil {
		return err
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess(errOut, "Rendered %s", input)
	printFile(errOut, outputPath)
	printCacheStatus(errOut, cacheHit)
	if opts.Format == pipeline.FormatDOT {
		printNextStep(errOut, "Render with Graphviz", "dot -Tpdf "+outputPath)
	}
	return nil
}

// renderOutputPath derives the output path: explicit output wins, standard
// input goes to standard output, otherwise the input extension is replaced.
func renderOutputPath(input, output, format string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
