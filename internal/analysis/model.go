package analysis

import (
	"context"

	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/model"
)

// Completer sends a prompt to a generative model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Model analyzes profiles with an external generative model. A Model
// without a Completer reports ErrNotConfigured for every request.
type Model struct {
	completer Completer
	opts      options
}

// NewModel creates a model-backed analyzer.
func NewModel(completer Completer, opts ...Option) *Model {
	return &Model{
		completer: completer,
		opts:      newOptions(opts),
	}
}

// Analyze asks the model for an analysis. Any failure yields a response
// with Success false; a partial analysis is never reported.
func (m *Model) Analyze(ctx context.Context, profile model.Profile, repos []model.Repository) Response {
	if m.completer == nil {
		return failed(ErrNotConfigured)
	}

	prompt, err := buildPrompt(profile, repos)
	if err != nil {
		return failed(err)
	}

	log.Debug("requesting model analysis", "user", profile.Login, "repos", len(repos))

	reply, err := m.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		log.Debug("model analysis failed", "user", profile.Login, "error", err)
		return failed(err)
	}

	analysis, err := parseAnalysis(reply)
	if err != nil {
		log.Debug("model reply rejected", "user", profile.Login, "error", err)
		return failed(err)
	}

	// the model's own timestamp is never trusted
	analysis.AnalysisDate = m.opts.now()

	return succeeded(analysis)
}
