package cli

import (
	"bytes"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
	mnrlio "github.com/matzehuels/mnrl/pkg/io"
	"github.com/matzehuels/mnrl/pkg/network"
)

// newCommand creates the new command, which writes an empty network.
func (c *CLI) newCommand() *cobra.Command {
	var (
		id     string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write an empty MNRL network",
		Long: `Write an empty MNRL network.

The network id defaults to a random UUID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			if output != "" && output != "-" && !force {
				if _, err := os.Stat(output); err == nil {
					return merrors.New(merrors.ErrCodeInvalidInput, "%s exists (use --force to overwrite)", output).WithSubject(output)
				}
			}

			var buf bytes.Buffer
			if err := mnrlio.WriteJSON(network.New(id), &buf); err != nil {
				return err
			}
			if err := writeOutput(cmd, output, buf.Bytes()); err != nil {
				return err
			}
			if output != "" && output != "-" {
				errOut := cmd.ErrOrStderr()
				printSuccess(errOut, "Created network %s", id)
				printFile(errOut, output)
				printNextStep(errOut, "Validate", appName+" validate "+output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "network id (default: random UUID)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")

	return cmd
}
