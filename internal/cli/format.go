package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// fmtCommand creates the fmt command for canonical re-serialization.
func (c *CLI) fmtCommand() *cobra.Command {
	var (
		output  string
		write   bool
		check   bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite an MNRL document in canonical form",
		Long: `Rewrite an MNRL document in canonical form.

The document is loaded and saved again: nodes keep their order, typed
attributes come first in a fixed order, pass-through attributes are sorted
and every output port lists its activations. Formatting a formatted document
is a no-op.

Results are cached by document content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && args[0] == "-" {
				return merrors.New(merrors.ErrCodeInvalidInput, "--write needs a file, not standard input")
			}
			if write {
				output = args[0]
			}
			return c.runFmt(cmd.Context(), cmd, args[0], output, check, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the input file in place")
	cmd.Flags().BoolVar(&check, "check", false, "fail if the document is not in canonical form")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.MarkFlagsMutuallyExclusive("output", "write", "check")

	return cmd
}

// runFmt normalizes input and writes the result.
func (c *CLI) runFmt(ctx context.Context, cmd *cobra.Command, input, output string, check, noCache, refresh bool) error {
	data, err := readDocument(cmd, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	out, cached, err := runner.NormalizeWithCacheInfo(ctx, input, data, refresh)
	if err != nil {
		return err
	}

	if check {
		if !bytes.Equal(out, data) {
			return merrors.New(merrors.ErrCodeInvalidInput, "%s is not in canonical form", input).WithSubject(input)
		}
		printSuccess(cmd.ErrOrStderr(), "%s is canonical", input)
		return nil
	}

	if err := writeOutput(cmd, output, out); err != nil {
		return err
	}
	if output != "" && output != "-" {
		errOut := cmd.ErrOrStderr()
		printSuccess(errOut, "Formatted %s", input)
		printFile(errOut, output)
		printCacheStatus(errOut, cached)
	}
	return nil
}
