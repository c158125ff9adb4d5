package model

import "time"

// Note is a free-text annotation on a profile (user note) or on one of its
// repositories (repo note). RepoName discriminates the two.
type Note struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	RepoName  string    `json:"repoName,omitempty"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsRepoNote reports whether the note is attached to a repository.
func (n Note) IsRepoNote() bool {
	return n.RepoName != ""
}
