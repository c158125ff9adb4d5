package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/internal/ghclient"
	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/model"
	"github.com/spiffcs/ghlens/internal/output"
	"github.com/spiffcs/ghlens/internal/service"
	"github.com/spiffcs/ghlens/internal/tui"
)

// NewCmdProfile creates the profile command.
func NewCmdProfile(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a GitHub profile (same as root ghlens)",
		Long: `Fetches a user's public profile and repositories, computes
metrics, and displays them together with any notes you have saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, args[0], opts)
		},
	}

	addProfileFlags(cmd, opts)
	return cmd
}

// addProfileFlags adds the profile-specific flags to a command.
func addProfileFlags(cmd *cobra.Command, opts *Options) {
	addOutputFlags(cmd, opts)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum repositories to list (0 for all)")
}

// addOutputFlags adds the flags shared by every command that fetches.
func addOutputFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")
	cmd.Flags().Lookup("tui").NoOptDefVal = "true"
}

func runProfile(cmd *cobra.Command, username string, opts *Options) error {
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

	rt.startTUI(tui.WithTasks(tui.ProfileTasks(username)))
	defer rt.close()

	now := time.Now()
	data, err := loadProfile(ctx, rt, client, username, now)
	if err != nil {
		return userError(username, err)
	}

	store, closeNotes := openNotesOrEmpty(settings)
	defer closeNotes()

	login := data.Profile.Login
	view := output.ProfileView{
		Data:      *data,
		UserNotes: store.ListUserNotes(login),
		RepoNotes: store.RepoNotesByRepo(login),
		Limit:     opts.Limit,
		Now:       now,
	}

	rt.close()
	return output.NewFormatter(format).FormatProfile(view, cmd.OutOrStdout())
}

// loadProfile runs one lookup, reporting each step to the TUI.
func loadProfile(ctx context.Context, rt *cmdRuntime, client *ghclient.Client, username string, now time.Time) (*model.ProfileData, error) {
	rt.sendEvent(tui.TaskProfile, tui.StatusRunning)
	rt.sendEvent(tui.TaskRepositories, tui.StatusRunning)

	svc := newProfileService(client, func(p service.Progress) {
		task := tui.TaskProfile
		if p.Step == service.StepRepositories {
			task = tui.TaskRepositories
		}
		if p.Err != nil {
			rt.sendEvent(task, tui.StatusError, tui.WithError(p.Err))
			return
		}
		rt.sendEvent(task, tui.StatusComplete)
	})

	log.Progress("Fetching @%s...", username)
	data, err := svc.Load(ctx, username, now)
	rt.sendRateLimit(client)
	if err != nil {
		log.ProgressFail()
		rt.sendEvent(tui.TaskMetrics, tui.StatusSkipped)
		return nil, err
	}
	log.ProgressDone()

	rt.sendEvent(tui.TaskProfile, tui.StatusComplete, tui.WithMessage(data.Profile.DisplayName()))
	rt.sendEvent(tui.TaskRepositories, tui.StatusComplete, tui.WithMessage(fmt.Sprintf("%d repos", len(data.Repositories))))
	rt.sendEvent(tui.TaskMetrics, tui.StatusComplete, tui.WithMessage(fmt.Sprintf("%d stars", data.Metrics.TotalStars)))

	log.Info("profile loaded", "user", data.Profile.Login, "repos", len(data.Repositories), "stars", data.Metrics.TotalStars)
	return data, nil
}
