package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withConfigFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "chatlens")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Workers != 10 {
		t.Errorf("workers default: got %d, want 10", cfg.LLM.Workers)
	}
	if cfg.LLM.MaxPerMinute != 500 {
		t.Errorf("max_per_minute default: got %d, want 500", cfg.LLM.MaxPerMinute)
	}
	if cfg.LLM.TimeoutSeconds != 120 {
		t.Errorf("timeout default: got %d, want 120", cfg.LLM.TimeoutSeconds)
	}
	if !cfg.Archive.Compress {
		t.Error("archive.compress should default to true")
	}
}

func TestLoadFromFile(t *testing.T) {
	withConfigFile(t, `
input_dir = "/data/chats"
max_chars = 9000

[llm]
model = "gpt-4.1"
workers = 4
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputDir != "/data/chats" {
		t.Errorf("input_dir: got %q", cfg.InputDir)
	}
	if cfg.MaxChars != 9000 {
		t.Errorf("max_chars: got %d", cfg.MaxChars)
	}
	if cfg.LLM.Model != "gpt-4.1" {
		t.Errorf("model: got %q", cfg.LLM.Model)
	}
	if cfg.LLM.Workers != 4 {
		t.Errorf("workers: got %d", cfg.LLM.Workers)
	}
	// Unset file values keep defaults.
	if cfg.LLM.MaxPerMinute != 500 {
		t.Errorf("max_per_minute: got %d, want default 500", cfg.LLM.MaxPerMinute)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	withConfigFile(t, `
[llm]
model = "from-file"
workers = 4
`)
	t.Setenv("CHATLENS_MODEL", "from-env")
	t.Setenv("CHATLENS_WORKERS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != "from-env" {
		t.Errorf("model: got %q, want env override", cfg.LLM.Model)
	}
	if cfg.LLM.Workers != 2 {
		t.Errorf("workers: got %d, want env override 2", cfg.LLM.Workers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	withConfigFile(t, `
[llm]
workers = 0
`)
	if _, err := Load(); err == nil {
		t.Error("workers = 0 should be rejected")
	}
}

func TestAPIKeyResolvesEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TEST_CHATLENS_KEY", "sk-abc")

	cfg := DefaultConfig()
	cfg.LLM.APIKeyEnv = "TEST_CHATLENS_KEY"
	if got := cfg.APIKey(); got != "sk-abc" {
		t.Errorf("APIKey: got %q", got)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := WriteDefault("/data/chats")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load after WriteDefault: %v", err)
	}
	if cfg.InputDir != "/data/chats" {
		t.Errorf("input_dir: got %q", cfg.InputDir)
	}

	// Second call is a no-op, not an overwrite.
	again, err := WriteDefault("/other")
	if err != nil {
		t.Fatalf("second WriteDefault: %v", err)
	}
	if again != path {
		t.Errorf("paths differ: %q vs %q", again, path)
	}
	cfg, _ = Load()
	if cfg.InputDir != "/data/chats" {
		t.Errorf("existing config was overwritten: %q", cfg.InputDir)
	}
}

func TestCompressHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := CompressHome(filepath.Join(home, "chats")); got != "~/chats" {
		t.Errorf("CompressHome: got %q", got)
	}
	if got := CompressHome("/var/chats"); got != "/var/chats" {
		t.Errorf("CompressHome non-home: got %q", got)
	}
}

// A relative log file lives with the rest of the run output; an
// absolute one goes where the operator pointed it.
func TestLogPathJoinsOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "/data/analysis"

	if got := cfg.LogPath(); got != filepath.Join("/data/analysis", "chatlens.log") {
		t.Errorf("relative log path: got %q", got)
	}

	cfg.Logging.File = "/var/log/chatlens.log"
	if got := cfg.LogPath(); got != "/var/log/chatlens.log" {
		t.Errorf("absolute log path: got %q", got)
	}
}

// The output directory may not exist on the first run; opening the log
// must create it rather than fall back to stderr-only.
func TestSetupLoggerCreatesLogDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis", "chatlens.log")

	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	defer cleanup()

	logger.Info("startup")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestSetupLoggerDualOutput(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("run complete", "classified", 7)

	if !strings.Contains(stderr.String(), "run complete") {
		t.Errorf("stderr missing message: %q", stderr.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(file.Bytes(), &entry); err != nil {
		t.Fatalf("file output not JSON: %v\n%s", err, file.String())
	}
	if entry["msg"] != "run complete" {
		t.Errorf("json msg: got %v", entry["msg"])
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != slog.LevelDebug || ParseLevel("bogus") != slog.LevelInfo {
		t.Error("ParseLevel mapping wrong")
	}
}
