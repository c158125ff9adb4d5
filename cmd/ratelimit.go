package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/internal/log"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long: `Display current GitHub API rate limit status including remaining quota and reset time.

Without GITHUB_TOKEN the unauthenticated limit applies.`,
		RunE: runRateLimitStatus,
	}
}

func runRateLimitStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log.Initialize(log.LevelQuiet, os.Stderr)

	cfg, settings, err := loadSettings()
	if err != nil {
		return err
	}

	client, err := newGitHubClient(ctx, cfg, settings)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.GetGitHubToken() == "" {
		fmt.Fprintln(out, "GitHub API Rate Limits (unauthenticated):")
	} else {
		fmt.Fprintln(out, "GitHub API Rate Limits:")
	}
	fmt.Fprintln(out)

	printRate(out, "Core API:  ", limits.Core, time.Now())
	printRate(out, "Search API:", limits.Search, time.Now())
	printRate(out, "GraphQL:   ", limits.GraphQL, time.Now())

	return nil
}

func printRate(w io.Writer, label string, r *gh.Rate, now time.Time) {
	if r == nil {
		return
	}
	resetIn := r.Reset.Time.Sub(now).Round(time.Second)
	if resetIn < 0 {
		resetIn = 0
	}
	fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", label, r.Remaining, r.Limit, resetIn)
}
