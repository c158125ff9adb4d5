package model

import (
	"encoding/json"
	"testing"
)

func TestLanguageHistogramAddKeepsFirstSeenOrder(t *testing.T) {
	var h LanguageHistogram
	for _, lang := range []string{"Go", "Rust", "Go", "Python", "Rust", "Go"} {
		h = h.Add(lang)
	}

	want := LanguageHistogram{{"Go", 3}, {"Rust", 2}, {"Python", 1}}
	if len(h) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(h))
	}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], h[i])
		}
	}
	if h.Count("Java") != 0 {
		t.Error("expected zero count for absent language")
	}
	if !h.HasAny("Java", "Rust") {
		t.Error("expected HasAny to find Rust")
	}
}

func TestLanguageHistogramJSON(t *testing.T) {
	h := LanguageHistogram{{"TypeScript", 4}, {"Go", 2}, {"C#", 1}}

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"TypeScript":4,"Go":2,"C#":1}` {
		t.Errorf("unexpected encoding %s", data)
	}

	var decoded LanguageHistogram
	if err := json.Unmarshal([]byte(`{"Zig":1,"Ada":3}`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "Zig" || decoded[1].Count != 3 {
		t.Errorf("unexpected decoded histogram %+v", decoded)
	}

	if err := json.Unmarshal([]byte(`[1,2]`), &decoded); err == nil {
		t.Error("expected error decoding an array")
	}
}

func TestEmptyHistogramEncodesAsEmptyObject(t *testing.T) {
	data, err := json.Marshal(Metrics{MostUsedLanguage: "None"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if string(raw["languages"]) != "{}" {
		t.Errorf("expected empty object, got %s", raw["languages"])
	}
}

func TestActivityLevelValid(t *testing.T) {
	for _, l := range AllActivityLevels {
		if !l.Valid() {
			t.Errorf("expected %q to be valid", l)
		}
	}
	if ActivityLevel("VeryHigh").Valid() {
		t.Error("expected unspaced level to be invalid")
	}
}

func TestDisplayNameFallsBackToLogin(t *testing.T) {
	if got := (Profile{Login: "octocat"}).DisplayName(); got != "octocat" {
		t.Errorf("expected login fallback, got %q", got)
	}
	if got := (Profile{Login: "octocat", Name: "The Octocat"}).DisplayName(); got != "The Octocat" {
		t.Errorf("expected name, got %q", got)
	}
}
