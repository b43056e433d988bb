package commands

import (
	"github.com/spf13/cobra"

	"github.com/nestedlab/vlabctl/cmd/vlabctl/handlers"
)

// Validate returns the command for checking a deployment document
// without touching any infrastructure.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the deployment document",
		Long: `Validate a deployment document offline.

Parses the document, applies defaults and runs every structural check
that does not require a connection to the outer control plane. Probe-time
facts, such as the endpoint type or datastore kind, are resolved during
deploy, not here.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "vlab.yaml", "Path to the deployment document")

	return cmd
}
