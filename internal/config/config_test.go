package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
	if cfg.ContextMessages != 6 {
		t.Errorf("ContextMessages = %d, want 6", cfg.ContextMessages)
	}
	if cfg.SelectionDebounceMS != 100 {
		t.Errorf("SelectionDebounceMS = %d, want 100", cfg.SelectionDebounceMS)
	}
	if cfg.TranscriptFlushMS != 1000 {
		t.Errorf("TranscriptFlushMS = %d, want 1000", cfg.TranscriptFlushMS)
	}
	if cfg.DocumentMaxChars != 120000 {
		t.Errorf("DocumentMaxChars = %d, want 120000", cfg.DocumentMaxChars)
	}
	if len(cfg.AllowedImageExts) == 0 {
		t.Error("AllowedImageExts should have defaults")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("missing file should yield defaults, HistoryLimit = %d", cfg.HistoryLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	content := `{"history_limit": 10, "model": "llama3", "log_level": "debug"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.Model != "llama3" {
		t.Errorf("Model = %q, want llama3", cfg.Model)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Untouched values keep defaults
	if cfg.ContextMessages != 6 {
		t.Errorf("ContextMessages = %d, want default 6", cfg.ContextMessages)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("invalid JSON should be an error")
	}
}

func TestMerge_ScalarsAndArrays(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{
		HistoryLimit:  25,
		DisabledTools: []string{"document_purge"},
	}

	merged := Merge(base, overlay)

	if merged.HistoryLimit != 25 {
		t.Errorf("HistoryLimit = %d, want overlay value 25", merged.HistoryLimit)
	}
	if merged.Model != base.Model {
		t.Errorf("Model = %q, want base value", merged.Model)
	}
	if len(merged.DisabledTools) != 1 || merged.DisabledTools[0] != "document_purge" {
		t.Errorf("DisabledTools = %v", merged.DisabledTools)
	}
	// Image allowlist: overlay absent → base kept
	if len(merged.AllowedImageExts) != len(base.AllowedImageExts) {
		t.Errorf("AllowedImageExts = %v, want base defaults", merged.AllowedImageExts)
	}
}

func TestMerge_ImageExtsReplaceNotMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{AllowedImageExts: []string{".png"}}

	merged := Merge(base, overlay)
	if len(merged.AllowedImageExts) != 1 || merged.AllowedImageExts[0] != ".png" {
		t.Errorf("AllowedImageExts = %v, want overlay to replace outright", merged.AllowedImageExts)
	}
}

func TestLoadWithRepo_RepoWins(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	global := `{"history_limit": 30, "model": "global-model"}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(global), 0600); err != nil {
		t.Fatalf("write global config: %v", err)
	}

	repoCfgDir := filepath.Join(repoRoot, ".redline")
	if err := os.MkdirAll(repoCfgDir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	repo := `{"model": "repo-model"}`
	if err := os.WriteFile(filepath.Join(repoCfgDir, "config.json"), []byte(repo), 0600); err != nil {
		t.Fatalf("write repo config: %v", err)
	}

	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0700); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo failed: %v", err)
	}
	if cfg.Model != "repo-model" {
		t.Errorf("Model = %q, want repo overlay to win", cfg.Model)
	}
	if cfg.HistoryLimit != 30 {
		t.Errorf("HistoryLimit = %d, want global value 30", cfg.HistoryLimit)
	}
}
