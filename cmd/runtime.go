package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spiffcs/ghlens/config"
	"github.com/spiffcs/ghlens/internal/ghclient"
	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/notes"
	"github.com/spiffcs/ghlens/internal/output"
	"github.com/spiffcs/ghlens/internal/service"
	"github.com/spiffcs/ghlens/internal/tui"
)

// cmdRuntime bundles TUI-related state that's threaded through a command.
type cmdRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// newRuntime decides on TUI mode and initializes logging to match.
func newRuntime(opts *Options) *cmdRuntime {
	useTUI := shouldUseTUI(opts)

	// Suppress logs during TUI to avoid interleaving with display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	return &cmdRuntime{useTUI: useTUI}
}

// startTUI starts the TUI goroutine if TUI mode is enabled.
func (rt *cmdRuntime) startTUI(opts ...tui.ModelOption) {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events, opts...)
	}()
}

// close closes the event channel and waits for the TUI to finish.
// It is safe to call more than once.
func (rt *cmdRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	if rt.tuiDone != nil {
		if err := <-rt.tuiDone; err != nil {
			log.Debug("tui exited with error", "error", err)
		}
	}
	rt.events = nil
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *cmdRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// sendRateLimit forwards the last observed quota to the TUI.
func (rt *cmdRuntime) sendRateLimit(client *ghclient.Client) {
	if rt.events == nil {
		return
	}
	remaining, limit, resetAt, ok := client.LastRateLimit()
	if !ok {
		return
	}
	tui.SendEvent(rt.events, tui.RateLimitEvent{Remaining: remaining, Limit: limit, ResetAt: resetAt})
}

// loadSettings loads and validates the merged configuration.
func loadSettings() (*config.Config, config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfg.Resolve(), nil
}

// newGitHubClient builds a client from settings. GITHUB_TOKEN is optional.
func newGitHubClient(ctx context.Context, cfg *config.Config, s config.Settings) (*ghclient.Client, error) {
	opts := []ghclient.Option{
		ghclient.WithRequestsPerSecond(s.RequestsPerSecond),
	}
	if s.GitHubBaseURL != "" {
		opts = append(opts, ghclient.WithBaseURL(s.GitHubBaseURL))
	}
	return ghclient.NewClient(ctx, cfg.GetGitHubToken(), opts...)
}

// newProfileService wires a service whose progress feeds the TUI.
func newProfileService(client *ghclient.Client, onProgress service.ProgressFunc) *service.ProfileService {
	if onProgress == nil {
		return service.New(client)
	}
	return service.New(client, service.WithProgress(onProgress))
}

// openNotes opens the configured notes backend. The returned close
// function is never nil.
func openNotes(s config.Settings) (*notes.Store, func(), error) {
	switch s.NotesBackend {
	case config.NotesBackendFile:
		backend, err := notes.NewFileBackend(s.NotesPath)
		if err != nil {
			return nil, func() {}, err
		}
		return notes.NewStore(backend), func() {}, nil
	default:
		backend, err := notes.OpenBolt(s.NotesPath)
		if err != nil {
			return nil, func() {}, err
		}
		closeFn := func() {
			if err := backend.Close(); err != nil {
				log.Warn("failed to close notes database", "error", err)
			}
		}
		return notes.NewStore(backend), closeFn, nil
	}
}

// openNotesOrEmpty opens notes for read-mostly views. A backend that cannot
// be opened degrades to an empty, write-dropping store.
func openNotesOrEmpty(s config.Settings) (*notes.Store, func()) {
	store, closeFn, err := openNotes(s)
	if err != nil {
		log.Warn("notes unavailable", "backend", s.NotesBackend, "path", s.NotesPath, "error", err)
		return notes.NewStore(nil), closeFn
	}
	return store, closeFn
}

// resolveFormat picks the -o flag over the configured default.
func resolveFormat(opts *Options, cfg *config.Config) (output.Format, error) {
	format := opts.Format
	if format == "" {
		format = cfg.DefaultFormat
	}
	switch output.Format(format) {
	case output.FormatTable, output.FormatJSON:
		return output.Format(format), nil
	case "":
		return output.FormatTable, nil
	default:
		return "", fmt.Errorf("invalid output format %q (must be table or json)", format)
	}
}

// userError rewrites lookup failures into messages for the terminal.
func userError(username string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ghclient.ErrNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	var fe *ghclient.FetchError
	if errors.As(err, &fe) && fe.IsRateLimited() {
		return fmt.Errorf("%w (rate limited; set GITHUB_TOKEN for a higher limit)", err)
	}
	return err
}
