package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd builds incidentctl with every subcommand.
func NewRootCmd(version string) *cobra.Command {
	opts := &Options{}
	rootCmd := &cobra.Command{
		Use:   "incidentctl",
		Short: "AI-assisted deployment incident analysis",
		Long: `incidentctl sends raw deployment logs to an OpenAI-compatible model,
stores the structured incident it derives, and lets you browse and prune them.`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	opts.AddFlags(rootCmd)

	rootCmd.AddCommand(
		NewAnalyzeCmd(opts),
		NewListCmd(opts),
		NewShowCmd(opts),
		NewDeleteCmd(opts),
		newVersionCmd(version),
	)
	return rootCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "incidentctl %s\n", version)
		},
	}
}
