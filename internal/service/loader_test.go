package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spiffcs/ghlens/internal/ghclient"
	"github.com/spiffcs/ghlens/internal/model"
)

// gatedLooker blocks each lookup until its gate is released.
type gatedLooker struct {
	started chan string
	gates   map[string]chan struct{}
}

func (g *gatedLooker) Lookup(ctx context.Context, username string) (*LookupResult, error) {
	g.started <- username
	if gate, ok := g.gates[username]; ok {
		<-gate
	}
	if username == "ghost" {
		return nil, ghclient.ErrNotFound
	}
	return &LookupResult{
		Profile:      &model.Profile{Login: username},
		Repositories: []model.Repository{{Name: username + "-repo"}},
	}, nil
}

func newGated(users ...string) *gatedLooker {
	g := &gatedLooker{
		started: make(chan string, 4),
		gates:   map[string]chan struct{}{},
	}
	for _, u := range users {
		g.gates[u] = make(chan struct{})
	}
	return g
}

func TestLoaderClearsPreviousResults(t *testing.T) {
	g := newGated("bob")
	l := NewLoader(g)

	if _, applied := l.Load(context.Background(), "alice"); !applied {
		t.Fatal("expected first load to apply")
	}
	<-g.started

	done := make(chan struct{})
	go func() {
		l.Load(context.Background(), "bob")
		close(done)
	}()
	<-g.started

	st := l.State()
	if st.Username != "bob" || !st.Loading {
		t.Errorf("expected loading state for bob, got %+v", st)
	}
	if st.Profile != nil || st.Repositories != nil {
		t.Errorf("stale results visible while loading: %+v", st)
	}

	close(g.gates["bob"])
	<-done

	st = l.State()
	if st.Loading || st.Profile == nil || st.Profile.Login != "bob" {
		t.Errorf("unexpected final state: %+v", st)
	}
}

func TestLoaderDropsSupersededResult(t *testing.T) {
	g := newGated("alice")
	l := NewLoader(g)

	applied := make(chan bool, 1)
	go func() {
		_, ok := l.Load(context.Background(), "alice")
		applied <- ok
	}()
	<-g.started

	if _, ok := l.Load(context.Background(), "bob"); !ok {
		t.Fatal("expected newer load to apply")
	}
	<-g.started

	close(g.gates["alice"])
	if <-applied {
		t.Error("superseded lookup should not be applied")
	}

	if st := l.State(); st.Profile == nil || st.Profile.Login != "bob" {
		t.Errorf("state overwritten by stale result: %+v", st)
	}
}

func TestLoaderInvalidate(t *testing.T) {
	g := newGated("alice")
	l := NewLoader(g)

	applied := make(chan bool, 1)
	go func() {
		_, ok := l.Load(context.Background(), "alice")
		applied <- ok
	}()
	<-g.started

	l.Invalidate()
	close(g.gates["alice"])

	if <-applied {
		t.Error("lookup resolved after Invalidate should be dropped")
	}
	if st := l.State(); st.Profile != nil || st.Loading || st.Username != "" {
		t.Errorf("expected idle state, got %+v", st)
	}
}

func TestLoaderError(t *testing.T) {
	g := newGated()
	l := NewLoader(g)

	st, applied := l.Load(context.Background(), "ghost")
	<-g.started
	if !applied {
		t.Fatal("expected load to apply")
	}
	if !errors.Is(st.Err, ghclient.ErrNotFound) || st.Loading || st.Profile != nil {
		t.Errorf("unexpected state: %+v", st)
	}
}

func TestLoaderBlankUsername(t *testing.T) {
	l := NewLoader(newGated())
	st, _ := l.Load(context.Background(), "  ")
	if st.Loading || st.Err != nil || st.Profile != nil {
		t.Errorf("expected idle state for blank username, got %+v", st)
	}
}
