package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/internal/analysis"
	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/output"
	"github.com/spiffcs/ghlens/internal/tui"
)

// NewCmdAnalyze creates the analyze command.
func NewCmdAnalyze(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <username>",
		Short: "Analyze a GitHub profile",
		Long: `Fetches a profile and produces a written assessment: summary,
strengths, areas of expertise, activity level, notable projects,
recommendations and an overall score out of 10.

Strategies:
  auto   use the model when ANTHROPIC_API_KEY is set, otherwise rules
  rules  deterministic rule-based analysis, no network beyond GitHub
  model  always use the model; fails when no key is configured`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	addOutputFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", fmt.Sprintf("Analysis strategy (%s)", strings.Join(analysis.ValidStrategies, ", ")))
	cmd.Flags().BoolVar(&opts.Retry, "retry", false, "Retry once if the first analysis fails")
	return cmd
}

func runAnalyze(cmd *cobra.Command, username string, opts *Options) error {
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

	strategy := settings.Strategy
	if opts.Strategy != "" {
		strategy = opts.Strategy
	}
	analyzer, err := analysis.Select(analysis.Settings{
		Strategy:  strategy,
		Model:     settings.Model,
		MaxTokens: settings.MaxTokens,
		APIKey:    cfg.GetAnthropicKey(),
	})
	if err != nil {
		return err
	}

	client, err := newGitHubClient(ctx, cfg, settings)
	if err != nil {
		return err
	}

	rt.startTUI(tui.WithTasks(tui.AnalyzeTasks(username, strategy)))
	defer rt.close()

	data, err := loadProfile(ctx, rt, client, username, time.Now())
	if err != nil {
		rt.sendEvent(tui.TaskAnalysis, tui.StatusSkipped)
		return userError(username, err)
	}

	session := analysis.NewSession(analyzer)
	defer session.Close()

	rt.sendEvent(tui.TaskAnalysis, tui.StatusRunning)
	log.Progress("Analyzing @%s (%s)...", data.Profile.Login, strategy)
	resp, err := session.Analyze(ctx, data.Profile, data.Repositories)
	if err != nil {
		log.ProgressFail()
		return err
	}
	if resp.Success {
		log.ProgressDone()
	} else {
		log.ProgressFail()
	}
	if !resp.Success && opts.Retry {
		log.Info("analysis failed, retrying", "user", data.Profile.Login, "error", resp.Error)
		rt.sendEvent(tui.TaskAnalysis, tui.StatusRunning, tui.WithMessage("retrying"))
		resp, err = session.Retry(ctx, data.Profile, data.Repositories)
		if err != nil {
			return err
		}
	}

	if resp.Success {
		rt.sendEvent(tui.TaskAnalysis, tui.StatusComplete, tui.WithMessage(fmt.Sprintf("score %d/10", resp.Analysis.OverallScore)))
	} else {
		rt.sendEvent(tui.TaskAnalysis, tui.StatusError, tui.WithMessage(resp.Error))
	}

	rt.close()
	return output.NewFormatter(format).FormatAnalysis(data.Profile.Login, resp, cmd.OutOrStdout())
}
