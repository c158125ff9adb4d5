// Package notes persists free-text notes attached to profiles and
// repositories.
package notes

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/model"
)

// Document is the persisted form of every note.
type Document struct {
	UserNotes []model.Note `json:"userNotes"`
	RepoNotes []model.Note `json:"repoNotes"`
}

// Store reads and writes notes through a Backend. Every mutation persists
// the whole Document. Backend failures never reach the caller: reads come
// back empty and writes are dropped.
type Store struct {
	backend Backend
	now     func() time.Time
	newID   func() string

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the note ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates a Store. backend may be nil.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUserNotes returns the profile notes for username in insertion order.
func (s *Store) ListUserNotes(username string) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Note
	doc, _ := s.load()
	for _, n := range doc.UserNotes {
		if n.Username == username {
			out = append(out, n)
		}
	}
	return out
}

// ListRepoNotes returns the notes on one repository in insertion order.
func (s *Store) ListRepoNotes(username, repoName string) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Note
	doc, _ := s.load()
	for _, n := range doc.RepoNotes {
		if n.Username == username && n.RepoName == repoName {
			out = append(out, n)
		}
	}
	return out
}

// ListAll returns every note about username: profile notes first, then
// repository notes, each in insertion order.
func (s *Store) ListAll(username string) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Note
	doc, _ := s.load()
	for _, n := range slices.Concat(doc.UserNotes, doc.RepoNotes) {
		if n.Username == username {
			out = append(out, n)
		}
	}
	return out
}

// RepoNotesByRepo groups every repository note for username by
// repository name.
func (s *Store) RepoNotesByRepo(username string) map[string][]model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]model.Note)
	doc, _ := s.load()
	for _, n := range doc.RepoNotes {
		if n.Username == username {
			out[n.RepoName] = append(out[n.RepoName], n)
		}
	}
	return out
}

// AddUserNote attaches a note to a profile.
func (s *Store) AddUserNote(username, text string) model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.load()
	n := s.newNote(username, "", text)
	if !ok {
		log.Warn("notes unreadable, dropping new note", "username", username)
		return n
	}
	doc.UserNotes = append(doc.UserNotes, n)
	s.save(doc)
	return n
}

// AddRepoNote attaches a note to one of a profile's repositories.
func (s *Store) AddRepoNote(username, repoName, text string) model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.load()
	n := s.newNote(username, repoName, text)
	if !ok {
		log.Warn("notes unreadable, dropping new note", "username", username, "repo", repoName)
		return n
	}
	doc.RepoNotes = append(doc.RepoNotes, n)
	s.save(doc)
	return n
}

// UpdateNote replaces the body of the note with id. It reports whether a
// note was found.
func (s *Store) UpdateNote(id, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.load()
	if !ok {
		log.Warn("notes unreadable, dropping update", "id", id)
		return false
	}
	for _, list := range [][]model.Note{doc.UserNotes, doc.RepoNotes} {
		for i := range list {
			if list[i].ID == id {
				list[i].Note = text
				list[i].UpdatedAt = s.now()
				s.save(doc)
				return true
			}
		}
	}
	return false
}

// DeleteNote removes the note with id. It reports whether a note was found.
func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.load()
	if !ok {
		log.Warn("notes unreadable, dropping delete", "id", id)
		return false
	}
	match := func(n model.Note) bool { return n.ID == id }

	before := len(doc.UserNotes) + len(doc.RepoNotes)
	doc.UserNotes = slices.DeleteFunc(doc.UserNotes, match)
	doc.RepoNotes = slices.DeleteFunc(doc.RepoNotes, match)
	if len(doc.UserNotes)+len(doc.RepoNotes) == before {
		return false
	}

	s.save(doc)
	return true
}

// Find returns the note with id.
func (s *Store) Find(id string) (model.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _ := s.load()
	for _, n := range slices.Concat(doc.UserNotes, doc.RepoNotes) {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

func (s *Store) newNote(username, repoName, text string) model.Note {
	now := s.now()
	return model.Note{
		ID:        s.newID(),
		Username:  username,
		RepoName:  repoName,
		Note:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// load reads the document. Missing, unreadable or corrupt data reads as
// an empty document; ok is false when stored data exists but could not be
// read, and the caller must not write the document back.
func (s *Store) load() (doc Document, ok bool) {
	doc = Document{UserNotes: []model.Note{}, RepoNotes: []model.Note{}}
	if s.backend == nil {
		return doc, true
	}

	data, err := s.backend.Get(constants.NotesStorageKey)
	if err != nil {
		log.Warn("could not read notes", "error", err)
		return doc, false
	}
	if data == nil {
		return doc, true
	}

	var stored Document
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Warn("notes are corrupt, leaving them untouched", "error", err)
		return doc, false
	}
	if stored.UserNotes != nil {
		doc.UserNotes = stored.UserNotes
	}
	if stored.RepoNotes != nil {
		doc.RepoNotes = stored.RepoNotes
	}
	return doc, true
}

// save writes the whole document. Failures are logged and dropped.
func (s *Store) save(doc Document) {
	if s.backend == nil {
		log.Debug("no notes backend, dropping write")
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		log.Warn("could not encode notes", "error", err)
		return
	}
	if err := s.backend.Put(constants.NotesStorageKey, data); err != nil {
		log.Warn("could not save notes", "error", err)
	}
}
