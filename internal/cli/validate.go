package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/pipeline"
)

// validationResult is the outcome for one document, also the --json shape.
type validationResult struct {
	File        string `json:"file"`
	Valid       bool   `json:"valid"`
	Nodes       int    `json:"nodes,omitempty"`
	Connections int    `json:"connections,omitempty"`
	Code        string `json:"code,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message,omitempty"`
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check MNRL documents against the schema and the network model",
		Long: `Check MNRL documents against the schema and the network model.

Each document is validated against the MNRL schema and then reconstructed
into a network, which catches what the schema cannot: unknown enum values,
duplicate ids and activations of missing nodes or ports. Use "-" to read
standard input.

The command fails if any document is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), cmd, args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON lines")

	return cmd
}

// runValidate validates every file and reports each result.
func (c *CLI) runValidate(ctx context.Context, cmd *cobra.Command, files []string, asJSON bool) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)

	invalid := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := validateOne(ctx, cmd, runner, file)
		if !res.Valid {
			invalid++
		}

		if asJSON {
			if err := enc.Encode(res); err != nil {
				return err
			}
			continue
		}
		if res.Valid {
			printSuccess(out, "%s", file)
			printDetail(out, "%d nodes · %d connections", res.Nodes, res.Connections)
			continue
		}
		printError(out, "%s %s", file, formatCode(res.Code, res.Subject))
		printDetail(out, "%s", res.Message)
	}

	prog.done(fmt.Sprintf("Validated %d documents", len(files)))
	if invalid > 0 {
		return merrors.New(merrors.ErrCodeInvalidInput, "%d of %d documents invalid", invalid, len(files))
	}
	return nil
}

func validateOne(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, file string) validationResult {
	res := validationResult{File: file}
	data, err := readDocument(cmd, file)
	if err == nil {
		net, lerr := runner.Load(ctx, file, data)
		if lerr == nil {
			res.Valid = true
			res.Nodes = net.NodeCount()
			res.Connections = net.ConnectionCount()
			return res
		}
		err = lerr
	}

	res.Code = string(merrors.GetCode(err))
	if res.Code == "" {
		res.Code = string(merrors.ErrCodeInternal)
	}
	res.Subject = merrors.GetSubject(err)
	res.Message = err.Error()
	return res
}
