package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/config"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "ghlens <username>",
		Short: "Look up, compare and analyze GitHub profiles",
		Long: `A CLI tool for exploring GitHub users: profile and repository
metrics, side-by-side comparison, written profile analysis, and personal
notes on users and their repositories.

Set GITHUB_TOKEN for a higher GitHub rate limit and ANTHROPIC_API_KEY to
enable model-based analysis. A .env file in the working directory is read
on startup.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runProfile(cmd, args[0], opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add profile flags to root command so `ghlens <user>` and `ghlens profile <user>` work identically
	addProfileFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdProfile(opts))
	rootCmd.AddCommand(NewCmdCompare(opts))
	rootCmd.AddCommand(NewCmdAnalyze(opts))
	rootCmd.AddCommand(NewCmdNotes(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
