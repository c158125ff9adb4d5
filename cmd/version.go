package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, injected with -ldflags "-X".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo overrides the build metadata; empty values are ignored.
func SetVersionInfo(v, c, d string) {
	for dst, src := range map[*string]string{&version: v, &commit: c, &date: d} {
		if src != "" {
			*dst = src
		}
	}
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "ghlens %s\n  commit: %s\n  built:  %s\n  go:     %s\n", version, commit, date, runtime.Version())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
