package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/internal/ghclient"
	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/output"
	"github.com/spiffcs/ghlens/internal/service"
	"github.com/spiffcs/ghlens/internal/tui"
)

// NewCmdCompare creates the compare command.
func NewCmdCompare(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <username> <username>",
		Short: "Compare two GitHub profiles",
		Long: `Fetches both profiles in parallel, computes their metrics, and
shows which user comes out ahead on each one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], opts)
		},
	}

	addOutputFlags(cmd, opts)
	return cmd
}

func runCompare(cmd *cobra.Command, first, second string, opts *Options) error {
	ctx := cmd.Context()
	rt := newRuntime(opts)

	cfg, settings, err := loadSettings()
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts, cfg)
	if err != nil {
		return err
	}

	client, err := newGitHubClient(ctx, cfg, settings)
	if err != nil {
		return err
	}

	rt.startTUI(tui.WithTasks(tui.CompareTasks(first, second)))
	defer rt.close()

	comparison := compareProfiles(ctx, rt, client, first, second, time.Now())
	if comparison.Failed() {
		return comparisonError(comparison)
	}

	rt.close()
	return output.NewFormatter(format).FormatComparison(*comparison.Result, cmd.OutOrStdout())
}

// compareProfiles loads both sides, advancing each side's progress bar as
// its two fetches complete.
func compareProfiles(ctx context.Context, rt *cmdRuntime, client *ghclient.Client, first, second string, now time.Time) *service.Comparison {
	rt.sendEvent(tui.TaskFirstUser, tui.StatusRunning)
	rt.sendEvent(tui.TaskSecondUser, tui.StatusRunning)

	var mu sync.Mutex
	steps := make(map[service.Side]int)
	tasks := map[service.Side]tui.TaskID{
		service.SideFirst:  tui.TaskFirstUser,
		service.SideSecond: tui.TaskSecondUser,
	}

	svc := newProfileService(client, func(p service.Progress) {
		if p.Err != nil {
			log.Debug("comparison fetch failed", "user", p.Username, "step", p.Step, "error", p.Err)
			return
		}
		task, ok := tasks[p.Side]
		if !ok {
			return
		}

		mu.Lock()
		steps[p.Side]++
		done := steps[p.Side]
		mu.Unlock()

		rt.sendEvent(task, tui.StatusRunning, tui.WithProgress(float64(done)/2))
	})

	log.Progress("Comparing @%s and @%s...", first, second)
	comparison := svc.Compare(ctx, first, second, now)
	rt.sendRateLimit(client)

	reportSide(rt, tui.TaskFirstUser, comparison.First)
	reportSide(rt, tui.TaskSecondUser, comparison.Second)

	if comparison.Failed() {
		log.ProgressFail()
		rt.sendEvent(tui.TaskCompare, tui.StatusSkipped)
	} else {
		log.ProgressDone()
		rt.sendEvent(tui.TaskCompare, tui.StatusComplete)
	}
	return comparison
}

func reportSide(rt *cmdRuntime, task tui.TaskID, side service.SideResult) {
	if side.Err != nil {
		rt.sendEvent(task, tui.StatusError, tui.WithError(side.Err))
		return
	}
	rt.sendEvent(task, tui.StatusComplete, tui.WithMessage(fmt.Sprintf("%d repos", len(side.Data.Repositories))))
}

// comparisonError reports every side that failed to load.
func comparisonError(c *service.Comparison) error {
	var errs []error
	for _, side := range []service.SideResult{c.First, c.Second} {
		if side.Err != nil {
			errs = append(errs, userError(side.Username, side.Err))
		}
	}
	return fmt.Errorf("comparison failed: %w", errors.Join(errs...))
}
