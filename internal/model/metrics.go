package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metrics are aggregate statistics derived from a profile and its
// repositories. They are never persisted.
type Metrics struct {
	TotalRepos                int               `json:"totalRepos"`
	TotalStars                int               `json:"totalStars"`
	TotalForks                int               `json:"totalForks"`
	AverageRepoSize           float64           `json:"averageRepoSize"`
	MostUsedLanguage          string            `json:"mostUsedLanguage"`
	Languages                 LanguageHistogram `json:"languages"`
	AccountAgeDays            int               `json:"accountAge"`
	RecentActivity            int               `json:"recentActivity"`
	PublicGists               int               `json:"publicGists"`
	FollowersToFollowingRatio float64           `json:"followersToFollowingRatio"`
}

// LanguageCount is one entry of a LanguageHistogram.
type LanguageCount struct {
	Name  string
	Count int
}

// LanguageHistogram counts repositories per language. Entries keep the
// order in which each language was first seen.
type LanguageHistogram []LanguageCount

// Add increments the count for name, appending it on first occurrence.
func (h LanguageHistogram) Add(name string) LanguageHistogram {
	for i := range h {
		if h[i].Name == name {
			h[i].Count++
			return h
		}
	}
	return append(h, LanguageCount{Name: name, Count: 1})
}

// Count returns the number of repositories using name.
func (h LanguageHistogram) Count(name string) int {
	for _, lc := range h {
		if lc.Name == name {
			return lc.Count
		}
	}
	return 0
}

// Has reports whether any repository uses name.
func (h LanguageHistogram) Has(name string) bool {
	return h.Count(name) > 0
}

// HasAny reports whether any of names is present.
func (h LanguageHistogram) HasAny(names ...string) bool {
	for _, n := range names {
		if h.Has(n) {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the histogram as an object, preserving entry order.
func (h LanguageHistogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lc := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lc.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(lc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, preserving the key order of the input.
func (h *LanguageHistogram) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*h = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("language histogram: expected object, got %v", tok)
	}

	var out LanguageHistogram
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		out = append(out, LanguageCount{Name: key, Count: count})
	}
	*h = out
	return nil
}

// Winner tags which side of a comparison leads on one metric.
type Winner string

const (
	WinnerFirst  Winner = "first"
	WinnerSecond Winner = "second"
	WinnerTie    Winner = "tie"
)

// Winners holds the per-metric result of a comparison.
type Winners struct {
	TotalRepos                Winner `json:"totalRepos"`
	TotalStars                Winner `json:"totalStars"`
	TotalForks                Winner `json:"totalForks"`
	AccountAgeDays            Winner `json:"accountAge"`
	RecentActivity            Winner `json:"recentActivity"`
	FollowersToFollowingRatio Winner `json:"followersToFollowingRatio"`
}

// ComparisonResult is two profile bundles and their per-metric winners.
type ComparisonResult struct {
	First  ProfileData `json:"user1"`
	Second ProfileData `json:"user2"`
	Winner Winners     `json:"winner"`
}
