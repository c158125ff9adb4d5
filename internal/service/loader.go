package service

import (
	"context"
	"strings"
	"sync"

	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/model"
)

// State is the observable state of a profile lookup.
type State struct {
	Username     string
	Loading      bool
	Err          error
	Profile      *model.Profile
	Repositories []model.Repository
}

// Looker performs a single lookup.
type Looker interface {
	Lookup(ctx context.Context, username string) (*LookupResult, error)
}

// Loader tracks the lookup for whichever username is current. Each Load
// starts a new generation; results from older generations are dropped.
type Loader struct {
	looker Looker

	mu    sync.Mutex
	gen   uint64
	state State
}

// NewLoader creates a Loader.
func NewLoader(looker Looker) *Loader {
	return &Loader{looker: looker}
}

// State returns a snapshot of the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load looks up username. Previous results are cleared before the request
// is issued. It blocks until the lookup resolves and reports whether the
// outcome was applied; false means a newer Load or Invalidate superseded it.
func (l *Loader) Load(ctx context.Context, username string) (State, bool) {
	username = strings.TrimSpace(username)

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state = State{Username: username, Loading: username != ""}
	l.mu.Unlock()

	if username == "" {
		return l.State(), true
	}

	res, err := l.looker.Lookup(ctx, username)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		log.Debug("dropping stale lookup result", "user", username)
		return l.state, false
	}

	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		return l.state, true
	}
	l.state.Profile = res.Profile
	l.state.Repositories = res.Repositories
	return l.state, true
}

// Invalidate discards interest in any in-flight lookup and resets the state.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state = State{}
}
