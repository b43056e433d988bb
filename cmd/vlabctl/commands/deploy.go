package commands

import (
	"github.com/spf13/cobra"

	"github.com/nestedlab/vlabctl/cmd/vlabctl/handlers"
)

// Deploy returns the command for deploying a lab.
//
// Flags:
//
//	--config, -c: Path to the deployment YAML file (default: vlab.yaml)
//	--yes, -y:    Skip the confirmation prompt
//	--log:        Run log file path (default: vlabctl-deploy.log)
//	--skip-phase: Phase name to skip, repeatable (for re-runs after a
//	              partial failure; the run is forward-only and never
//	              rolls back)
func Deploy() *cobra.Command {
	opts := handlers.DeployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the lab described by the configuration file",
		Long: `Deploy a nested virtualization lab.

Reads the deployment document, probes the outer control plane, shows the
resolved plan and, once confirmed, provisions the whole lab: cluster
nodes, hyper-converged storage, the management appliance and optionally
an overlay network manager.

Examples:
  # Deploy using vlab.yaml in the current directory
  vlabctl deploy

  # Deploy a specific document without the confirmation prompt
  vlabctl deploy -c lab-production.yaml --yes

  # Re-run after a failure, skipping already completed node deployment
  vlabctl deploy --skip-phase deploy-cluster-nodes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "vlab.yaml", "Path to the deployment document")
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&opts.LogPath, "log", "vlabctl-deploy.log", "Run log file path")
	cmd.Flags().StringArrayVar(&opts.SkipPhases, "skip-phase", nil, "Phase to skip (repeatable)")

	return cmd
}
