package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/ghlens/config"
	"github.com/spiffcs/ghlens/internal/ghclient"
	"github.com/spiffcs/ghlens/internal/output"
	"github.com/spiffcs/ghlens/internal/service"
	"github.com/spiffcs/ghlens/internal/tui"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Name() != "ghlens" {
		t.Errorf("expected name 'ghlens', got %q", cmd.Name())
	}

	want := []string{"profile", "compare", "analyze", "notes", "config", "version", "ratelimit"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewCmdVersion(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")

	cmd := NewCmdVersion()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)

	if !strings.Contains(buf.String(), "ghlens 1.0.0") || !strings.Contains(buf.String(), "abc123") {
		t.Errorf("unexpected version output: %q", buf.String())
	}
}

func TestTUIFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"true", "true", false},
		{"yes", "true", false},
		{"0", "false", false},
		{"auto", "auto", false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			opts := NewOptions()
			f := newTUIFlag(opts)
			err := f.Set(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.String() != tt.want {
				t.Errorf("String() = %q, want %q", f.String(), tt.want)
			}
		})
	}
}

func TestShouldUseTUIVerbose(t *testing.T) {
	on := true
	opts := NewOptions(WithTUI(&on), WithVerbosity(1))
	if shouldUseTUI(opts) {
		t.Error("verbose logging should disable the TUI")
	}

	opts = NewOptions(WithTUI(&on))
	if !shouldUseTUI(opts) {
		t.Error("forced TUI should be honoured")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		cfg     string
		want    output.Format
		wantErr bool
	}{
		{"flag wins", "json", "table", output.FormatJSON, false},
		{"config default", "", "json", output.FormatJSON, false},
		{"fallback", "", "", output.FormatTable, false},
		{"invalid", "xml", "table", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(NewOptions(WithFormat(tt.flag)), &config.Config{DefaultFormat: tt.cfg})
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserError(t *testing.T) {
	if err := userError("ghost", ghclient.ErrNotFound); err.Error() != `user "ghost" not found` {
		t.Errorf("unexpected not-found message: %v", err)
	}

	limited := &ghclient.FetchError{Resource: ghclient.ResourceUser, StatusCode: http.StatusTooManyRequests, Status: "Too Many Requests"}
	err := userError("octocat", limited)
	if !strings.Contains(err.Error(), "GITHUB_TOKEN") || !errors.Is(err, limited) {
		t.Errorf("rate limit error should hint at a token and wrap the cause: %v", err)
	}

	other := errors.New("boom")
	if userError("octocat", other) != other {
		t.Error("other errors should pass through")
	}
	if userError("octocat", nil) != nil {
		t.Error("nil should stay nil")
	}
}

func TestComparisonError(t *testing.T) {
	c := &service.Comparison{
		First:  service.SideResult{Username: "alice"},
		Second: service.SideResult{Username: "ghost", Err: ghclient.ErrNotFound},
	}
	err := comparisonError(c)
	if !strings.Contains(err.Error(), `user "ghost" not found`) {
		t.Errorf("unexpected error: %v", err)
	}
	if strings.Contains(err.Error(), "alice") {
		t.Errorf("successful side should not be reported: %v", err)
	}
}

func TestNoteText(t *testing.T) {
	got, err := noteText([]string{"great", " tests "})
	if err != nil || got != "great  tests" {
		t.Errorf("noteText() = %q, %v", got, err)
	}
	if _, err := noteText([]string{"  "}); err == nil {
		t.Error("expected error for blank text")
	}
}

// testEnv points config, notes and GitHub at temporary locations.
func testEnv(t *testing.T, github http.Handler) {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	baseURL := ""
	if github != nil {
		server := httptest.NewServer(github)
		t.Cleanup(server.Close)
		baseURL = fmt.Sprintf("  base_url: %s\n", server.URL)
	}

	cfg := fmt.Sprintf(`default_format: json
github:
%s  requests_per_second: 0
notes:
  backend: file
  path: %s
`, baseURL, filepath.Join(dir, "notes"))

	if err := config.SaveTo(filepath.Join(dir, "config", "ghlens", "config.yaml"), cfg); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fakeGitHub() http.Handler {
	mux := http.NewServeMux()
	users := map[string]string{
		"octocat": `{"id":1,"login":"octocat","name":"The Octocat","followers":200,"following":10,"public_repos":2,"created_at":"2011-01-25T18:44:36Z","html_url":"https://github.com/octocat"}`,
		"hubot":   `{"id":2,"login":"hubot","followers":5,"following":5,"public_repos":1,"created_at":"2015-03-01T00:00:00Z","html_url":"https://github.com/hubot"}`,
	}
	repos := map[string]string{
		"octocat": `[{"id":10,"name":"hello-world","language":"Go","stargazers_count":150,"forks_count":12,"created_at":"2012-01-01T00:00:00Z","updated_at":"2020-01-01T00:00:00Z","html_url":"https://github.com/octocat/hello-world"},
		             {"id":11,"name":"spoon-knife","language":"HTML","stargazers_count":30,"forks_count":40,"created_at":"2013-01-01T00:00:00Z","updated_at":"2020-01-01T00:00:00Z","html_url":"https://github.com/octocat/spoon-knife"}]`,
		"hubot": `[{"id":20,"name":"scripts","language":"JavaScript","stargazers_count":3,"forks_count":1,"created_at":"2015-04-01T00:00:00Z","updated_at":"2016-01-01T00:00:00Z","html_url":"https://github.com/hubot/scripts"}]`,
	}

	for login := range users {
		mux.HandleFunc("/users/"+login, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, users[login])
		})
		mux.HandleFunc("/users/"+login+"/repos", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, repos[login])
		})
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	return mux
}

func TestProfileCommand(t *testing.T) {
	testEnv(t, fakeGitHub())

	out, err := execute(t, "octocat", "--tui=false")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	var got struct {
		User    struct{ Login string } `json:"user"`
		Repos   []json.RawMessage      `json:"repos"`
		Metrics struct {
			TotalStars       int    `json:"totalStars"`
			TotalForks       int    `json:"totalForks"`
			MostUsedLanguage string `json:"mostUsedLanguage"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.User.Login != "octocat" || len(got.Repos) != 2 {
		t.Errorf("unexpected profile: %+v", got)
	}
	if got.Metrics.TotalStars != 180 || got.Metrics.TotalForks != 52 || got.Metrics.MostUsedLanguage != "Go" {
		t.Errorf("unexpected metrics: %+v", got.Metrics)
	}
}

func TestProfileCommandNotFound(t *testing.T) {
	testEnv(t, fakeGitHub())

	_, err := execute(t, "profile", "ghost", "--tui=false")
	if err == nil || err.Error() != `user "ghost" not found` {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCompareCommand(t *testing.T) {
	testEnv(t, fakeGitHub())

	out, err := execute(t, "compare", "octocat", "hubot", "--tui=false")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	var got struct {
		Winner map[string]string `json:"winner"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Winner["totalStars"] != "first" || got.Winner["accountAge"] != "first" {
		t.Errorf("unexpected winners: %v", got.Winner)
	}

	_, err = execute(t, "compare", "octocat", "ghost", "--tui=false")
	if err == nil || !strings.Contains(err.Error(), `user "ghost" not found`) {
		t.Errorf("expected comparison failure for ghost, got %v", err)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	testEnv(t, fakeGitHub())

	out, err := execute(t, "analyze", "octocat", "--strategy", "rules", "--tui=false")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	var got struct {
		Login    string `json:"login"`
		Success  bool   `json:"success"`
		Analysis struct {
			OverallScore  int    `json:"overallScore"`
			ActivityLevel string `json:"activityLevel"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Login != "octocat" || !got.Success {
		t.Errorf("unexpected envelope: %+v", got)
	}
	if got.Analysis.ActivityLevel != "Low" {
		t.Errorf("expected Low activity for stale repositories, got %q", got.Analysis.ActivityLevel)
	}
}

func TestAnalyzeCommandModelWithoutKey(t *testing.T) {
	testEnv(t, fakeGitHub())

	out, err := execute(t, "analyze", "octocat", "--strategy", "model", "--retry", "--tui=false")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got["success"] != false || !strings.Contains(fmt.Sprint(got["error"]), "ANTHROPIC_API_KEY") {
		t.Errorf("expected not-configured failure, got %v", got)
	}
}

func TestAnalyzeCommandUnknownStrategy(t *testing.T) {
	testEnv(t, nil)

	if _, err := execute(t, "analyze", "octocat", "--strategy", "guess", "--tui=false"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestNotesCommands(t *testing.T) {
	testEnv(t, nil)

	out, err := execute(t, "notes", "add", "octocat", "met", "at", "conf")
	if err != nil {
		t.Fatalf("notes add error = %v", err)
	}
	var added []struct {
		ID   string `json:"id"`
		Note string `json:"note"`
	}
	if err := json.Unmarshal([]byte(out), &added); err != nil || len(added) != 1 {
		t.Fatalf("unexpected add output: %v\n%s", err, out)
	}
	if added[0].Note != "met at conf" {
		t.Errorf("note text = %q", added[0].Note)
	}

	if _, err := execute(t, "notes", "add", "octocat", "flaky CI", "--repo", "hello-world"); err != nil {
		t.Fatalf("notes add --repo error = %v", err)
	}

	out, err = execute(t, "notes", "list", "octocat")
	if err != nil {
		t.Fatalf("notes list error = %v", err)
	}
	var listed []struct {
		Note     string `json:"note"`
		RepoName string `json:"repoName"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 || listed[0].Note != "met at conf" || listed[1].RepoName != "hello-world" {
		t.Errorf("unexpected list: %+v", listed)
	}

	if _, err := execute(t, "notes", "edit", added[0].ID, "updated"); err != nil {
		t.Fatalf("notes edit error = %v", err)
	}
	if _, err := execute(t, "notes", "rm", added[0].ID); err != nil {
		t.Fatalf("notes rm error = %v", err)
	}
	if _, err := execute(t, "notes", "rm", added[0].ID); err == nil {
		t.Error("expected error removing a deleted note")
	}

	out, err = execute(t, "notes", "list", "octocat", "--repo", "hello-world")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil || len(listed) != 1 {
		t.Errorf("expected only the repository note to remain: %s", out)
	}
}

func TestConfigSet(t *testing.T) {
	testEnv(t, nil)

	if _, err := execute(t, "config", "set", "analysis.strategy", "rules"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if _, err := execute(t, "config", "set", "analysis.strategy", "magic"); err == nil {
		t.Error("expected validation error for unknown strategy")
	}
	if _, err := execute(t, "config", "set", "token", "abc"); err == nil {
		t.Error("expected secrets to be rejected")
	}

	data, err := os.ReadFile(config.ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "strategy: rules") {
		t.Errorf("config file not updated:\n%s", data)
	}
}

func TestCompareProfilesProgressPerSide(t *testing.T) {
	server := httptest.NewServer(fakeGitHub())
	t.Cleanup(server.Close)

	client, err := ghclient.NewClient(context.Background(), "", ghclient.WithBaseURL(server.URL), ghclient.WithRequestsPerSecond(0))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		first  string
		second string
	}{
		{name: "different users", first: "octocat", second: "hubot"},
		{name: "same user twice", first: "octocat", second: "octocat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &cmdRuntime{events: make(chan tui.Event, 100)}
			comparison := compareProfiles(context.Background(), rt, client, tt.first, tt.second, time.Now())
			if comparison.Failed() {
				t.Fatalf("unexpected failure: %v / %v", comparison.First.Err, comparison.Second.Err)
			}
			close(rt.events)

			peak := map[tui.TaskID]float64{}
			for e := range rt.events {
				te, ok := e.(tui.TaskEvent)
				if !ok {
					continue
				}
				peak[te.Task] = max(peak[te.Task], te.Progress)
			}

			for _, task := range []tui.TaskID{tui.TaskFirstUser, tui.TaskSecondUser} {
				if peak[task] != 1 {
					t.Errorf("task %v peak progress = %v, want 1", task, peak[task])
				}
			}
		})
	}
}
