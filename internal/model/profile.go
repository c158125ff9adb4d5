// Package model contains the domain types for ghlens.
// These types are independent of any external GitHub library.
package model

import "time"

// Profile is a public GitHub user account. Optional text fields are empty
// when the API reports null.
type Profile struct {
	ID              int64     `json:"id"`
	Login           string    `json:"login"`
	Name            string    `json:"name,omitempty"`
	AvatarURL       string    `json:"avatarUrl"`
	Bio             string    `json:"bio,omitempty"`
	PublicRepos     int       `json:"publicRepos"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	CreatedAt       time.Time `json:"createdAt"`
	Location        string    `json:"location,omitempty"`
	Blog            string    `json:"blog,omitempty"`
	TwitterUsername string    `json:"twitterUsername,omitempty"`
	HTMLURL         string    `json:"htmlUrl"`
}

// DisplayName returns the profile's name, falling back to the login.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// Repository is a single repository owned by a profile.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HTMLURL     string    `json:"htmlUrl"`
	Language    string    `json:"language,omitempty"`
	StarCount   int       `json:"starCount"`
	ForkCount   int       `json:"forkCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileData bundles a profile, its repositories and their metrics.
type ProfileData struct {
	Profile      Profile      `json:"user"`
	Repositories []Repository `json:"repos"`
	Metrics      Metrics      `json:"metrics"`
}
