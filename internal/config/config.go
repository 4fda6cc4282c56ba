package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DocumentMaxChars is the maximum character count for document content
	DocumentMaxChars int `json:"document_max_chars"`

	// HistoryLimit caps the undo stack; oldest snapshots drop silently once full
	HistoryLimit int `json:"history_limit"`

	// ContextMessages caps how many recent chat messages accompany a
	// transform request
	ContextMessages int `json:"context_messages"`

	// SelectionDebounceMS is the coalescing window for selection events
	SelectionDebounceMS int `json:"selection_debounce_ms"`

	// TranscriptFlushMS is the trailing delay before the conversation log
	// is persisted after its last change
	TranscriptFlushMS int `json:"transcript_flush_ms"`

	// Model is the collaborator model name (e.g. "gpt-4o-mini")
	Model string `json:"model,omitempty"`

	// BaseURL overrides the collaborator endpoint for OpenAI-compatible
	// local servers (Ollama, llama.cpp, vLLM)
	BaseURL string `json:"base_url,omitempty"`

	// AllowedImageExts is the allowlist for image uploads.
	// Defaults to png, jpg, jpeg, gif, webp.
	AllowedImageExts []string `json:"allowed_image_exts,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// LogLevel sets the minimum log level: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogJSON switches stderr logging to JSON output.
	LogJSON bool `json:"log_json,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DocumentMaxChars:    120000,
		HistoryLimit:        50,
		ContextMessages:     6,
		SelectionDebounceMS: 100,
		TranscriptFlushMS:   1000,
		Model:               "gpt-4o-mini",
		AllowedImageExts:    []string{".png", ".jpg", ".jpeg", ".gif", ".webp"},
		LogLevel:            "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.redline.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.redline) and repo
// (.redline) directories. Repo config is found by walking upward from
// startDir to the nearest .redline/config.json. Repo config takes precedence
// for scalar values; arrays are merged (deduplicated).
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .redline/config.json. Returns the path if found, or empty string.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".redline", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DocumentMaxChars = pickInt(base.DocumentMaxChars, overlay.DocumentMaxChars)
	result.HistoryLimit = pickInt(base.HistoryLimit, overlay.HistoryLimit)
	result.ContextMessages = pickInt(base.ContextMessages, overlay.ContextMessages)
	result.SelectionDebounceMS = pickInt(base.SelectionDebounceMS, overlay.SelectionDebounceMS)
	result.TranscriptFlushMS = pickInt(base.TranscriptFlushMS, overlay.TranscriptFlushMS)
	result.DBMaxOpenConns = pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	result.Model = pickString(base.Model, overlay.Model)
	result.BaseURL = pickString(base.BaseURL, overlay.BaseURL)
	result.LogLevel = pickString(base.LogLevel, overlay.LogLevel)

	// Booleans: overlay wins if true, else base
	result.LogJSON = base.LogJSON || overlay.LogJSON

	// Arrays: merge and deduplicate, except the image allowlist where the
	// overlay replaces the base outright (merging would only ever widen it)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.AllowedImageExts = overlay.AllowedImageExts
	if len(result.AllowedImageExts) == 0 {
		result.AllowedImageExts = base.AllowedImageExts
	}

	return result
}

// pickInt returns overlay if non-zero, else base.
func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// pickString returns overlay if non-empty, else base.
func pickString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
