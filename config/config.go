package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spiffcs/ghlens/internal/constants"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Notes backends.
const (
	NotesBackendBolt = "bolt"
	NotesBackendFile = "file"
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`

	// Top-level config sections
	Analysis *AnalysisOverrides `yaml:"analysis,omitempty"`
	GitHub   *GitHubOverrides   `yaml:"github,omitempty"`
	Notes    *NotesOverrides    `yaml:"notes,omitempty"`
}

// AnalysisOverrides selects and tunes the profile analyzer
type AnalysisOverrides struct {
	Strategy  *string `yaml:"strategy,omitempty"`
	Model     *string `yaml:"model,omitempty"`
	MaxTokens *int64  `yaml:"max_tokens,omitempty"`
}

// GitHubOverrides - API endpoint and pacing
type GitHubOverrides struct {
	BaseURL           *string  `yaml:"base_url,omitempty"`
	RequestsPerSecond *float64 `yaml:"requests_per_second,omitempty"`
}

// NotesOverrides - where notes are persisted
type NotesOverrides struct {
	Backend *string `yaml:"backend,omitempty"`
	Path    *string `yaml:"path,omitempty"`
}

// Settings is the fully resolved configuration
type Settings struct {
	Strategy          string
	Model             string
	MaxTokens         int64
	GitHubBaseURL     string
	RequestsPerSecond float64
	NotesBackend      string
	NotesPath         string
}

// DefaultSettings returns the built-in defaults
func DefaultSettings() Settings {
	return Settings{
		Strategy:          "auto",
		Model:             constants.DefaultModel,
		MaxTokens:         constants.DefaultMaxTokens,
		GitHubBaseURL:     "",
		RequestsPerSecond: constants.DefaultRequestsPerSecond,
		NotesBackend:      NotesBackendBolt,
		NotesPath:         "",
	}
}

// Resolve returns settings with user overrides merged with defaults
func (c *Config) Resolve() Settings {
	s := DefaultSettings()

	if a := c.Analysis; a != nil {
		if a.Strategy != nil {
			s.Strategy = *a.Strategy
		}
		if a.Model != nil {
			s.Model = *a.Model
		}
		if a.MaxTokens != nil {
			s.MaxTokens = *a.MaxTokens
		}
	}

	if g := c.GitHub; g != nil {
		if g.BaseURL != nil {
			s.GitHubBaseURL = *g.BaseURL
		}
		if g.RequestsPerSecond != nil {
			s.RequestsPerSecond = *g.RequestsPerSecond
		}
	}

	if n := c.Notes; n != nil {
		if n.Backend != nil {
			s.NotesBackend = *n.Backend
		}
		if n.Path != nil {
			s.NotesPath = *n.Path
		}
	}

	if s.NotesPath == "" {
		s.NotesPath = DefaultNotesPath(s.NotesBackend)
	}

	return s
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".ghlens"
	}
	return filepath.Join(configDir, "ghlens")
}

// DefaultCacheDir returns the directory holding local state such as notes
func DefaultCacheDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ".ghlens"
	}
	return filepath.Join(cacheDir, "ghlens")
}

// DefaultNotesPath returns where the given backend keeps notes by default.
// The bolt backend uses a database file, the file backend a directory.
func DefaultNotesPath(backend string) string {
	if backend == NotesBackendFile {
		return filepath.Join(DefaultCacheDir(), "notes")
	}
	return filepath.Join(DefaultCacheDir(), "notes.db")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".ghlens.yaml"
}

// ConfigFileExists returns true if the config file exists on disk
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// LoadDotEnv loads a .env file from the working directory, if present.
// Variables already set in the environment are left alone.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .ghlens.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the config files at globalPath and localPath.
// Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	// Start with defaults
	cfg := &Config{
		DefaultFormat: FormatTable,
	}

	global, err := readConfig(globalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load global config file: %w", err)
	}
	if global != nil {
		cfg = mergeConfig(cfg, global)
	}

	local, err := readConfig(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load local config file: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	// Set defaults if still empty
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = FormatTable
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readConfig(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	result.Analysis = mergeAnalysis(global.Analysis, local.Analysis)
	result.GitHub = mergeGitHub(global.GitHub, local.GitHub)
	result.Notes = mergeNotes(global.Notes, local.Notes)

	return result
}

func mergeAnalysis(global, local *AnalysisOverrides) *AnalysisOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &AnalysisOverrides{}

	if global != nil {
		*result = *global
	}

	if local != nil {
		if local.Strategy != nil {
			result.Strategy = local.Strategy
		}
		if local.Model != nil {
			result.Model = local.Model
		}
		if local.MaxTokens != nil {
			result.MaxTokens = local.MaxTokens
		}
	}

	return result
}

func mergeGitHub(global, local *GitHubOverrides) *GitHubOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &GitHubOverrides{}

	if global != nil {
		*result = *global
	}

	if local != nil {
		if local.BaseURL != nil {
			result.BaseURL = local.BaseURL
		}
		if local.RequestsPerSecond != nil {
			result.RequestsPerSecond = local.RequestsPerSecond
		}
	}

	return result
}

func mergeNotes(global, local *NotesOverrides) *NotesOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &NotesOverrides{}

	if global != nil {
		*result = *global
	}

	if local != nil {
		if local.Backend != nil {
			result.Backend = local.Backend
		}
		if local.Path != nil {
			result.Path = local.Path
		}
	}

	return result
}

var (
	validFormats       = []string{FormatTable, FormatJSON}
	validStrategies    = []string{"auto", "rules", "model"}
	validNotesBackends = []string{NotesBackendBolt, NotesBackendFile}
)

// Validate checks enumerated values and numeric ranges.
func (c *Config) Validate() error {
	if !slices.Contains(validFormats, c.DefaultFormat) {
		return fmt.Errorf("invalid default_format %q (valid: %s)", c.DefaultFormat, strings.Join(validFormats, ", "))
	}

	s := c.Resolve()
	if !slices.Contains(validStrategies, strings.ToLower(s.Strategy)) {
		return fmt.Errorf("invalid analysis.strategy %q (valid: %s)", s.Strategy, strings.Join(validStrategies, ", "))
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("analysis.max_tokens must be positive, got %d", s.MaxTokens)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("github.requests_per_second must not be negative, got %g", s.RequestsPerSecond)
	}
	if !slices.Contains(validNotesBackends, s.NotesBackend) {
		return fmt.Errorf("invalid notes.backend %q (valid: %s)", s.NotesBackend, strings.Join(validNotesBackends, ", "))
	}
	return nil
}

// Keys lists the dotted keys accepted by Set.
func Keys() []string {
	return []string{
		"default_format",
		"analysis.strategy",
		"analysis.model",
		"analysis.max_tokens",
		"github.base_url",
		"github.requests_per_second",
		"notes.backend",
		"notes.path",
	}
}

// Set assigns a dotted key from its string form and validates the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_format":
		c.DefaultFormat = value
	case "analysis.strategy":
		c.analysis().Strategy = &value
	case "analysis.model":
		c.analysis().Model = &value
	case "analysis.max_tokens":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("analysis.max_tokens must be an integer: %w", err)
		}
		c.analysis().MaxTokens = &n
	case "github.base_url":
		c.github().BaseURL = &value
	case "github.requests_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("github.requests_per_second must be a number: %w", err)
		}
		c.github().RequestsPerSecond = &f
	case "notes.backend":
		c.notes().Backend = &value
	case "notes.path":
		c.notes().Path = &value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return c.Validate()
}

func (c *Config) analysis() *AnalysisOverrides {
	if c.Analysis == nil {
		c.Analysis = &AnalysisOverrides{}
	}
	return c.Analysis
}

func (c *Config) github() *GitHubOverrides {
	if c.GitHub == nil {
		c.GitHub = &GitHubOverrides{}
	}
	return c.GitHub
}

func (c *Config) notes() *NotesOverrides {
	if c.Notes == nil {
		c.Notes = &NotesOverrides{}
	}
	return c.Notes
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(ConfigPath(), string(data))
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Tokens are only read from the environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// GetAnthropicKey returns the model API key from the ANTHROPIC_API_KEY
// environment variable.
func (c *Config) GetAnthropicKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	s := DefaultSettings()
	notesPath := DefaultNotesPath(s.NotesBackend)

	return &Config{
		DefaultFormat: FormatTable,
		Analysis: &AnalysisOverrides{
			Strategy:  &s.Strategy,
			Model:     &s.Model,
			MaxTokens: &s.MaxTokens,
		},
		GitHub: &GitHubOverrides{
			BaseURL:           &s.GitHubBaseURL,
			RequestsPerSecond: &s.RequestsPerSecond,
		},
		Notes: &NotesOverrides{
			Backend: &s.NotesBackend,
			Path:    &notesPath,
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	// Get absolute path for local config
	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# ghlens configuration file
# See: ghlens config defaults  (for all available options)

# Output format: table or json
default_format: table

# Profile analysis: auto uses the model when ANTHROPIC_API_KEY is set
# analysis:
#   strategy: auto   # auto, rules or model
#   model: claude-sonnet-4-5

# GitHub Enterprise or client-side pacing (optional)
# github:
#   base_url: https://github.example.com/api/v3/
#   requests_per_second: 5

# Notes storage (optional)
# notes:
#   backend: bolt    # bolt or file
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
