package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all chatlens configuration. Loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	MaxChars  int    `toml:"max_chars"`

	LLM     LLMConfig     `toml:"llm"`
	Archive ArchiveConfig `toml:"archive"`
	Logging LoggingConfig `toml:"logging"`
}

type LLMConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxPerMinute   int    `toml:"max_per_minute"`
	Workers        int    `toml:"workers"`
}

// Timeout returns the per-call LLM timeout as a duration.
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

type ArchiveConfig struct {
	Compress bool `toml:"compress"`
}

type LoggingConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		InputDir:  "./chats",
		OutputDir: "./analysis",
		MaxChars:  0,
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 120,
			MaxPerMinute:   500,
			Workers:        10,
		},
		Archive: ArchiveConfig{
			Compress: true,
		},
		Logging: LoggingConfig{
			File:  "chatlens.log",
			Level: "info",
		},
	}
}

// Load reads config from the standard path, falling back to defaults,
// then applies CHATLENS_* environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	applyEnv(&cfg)

	cfg.InputDir = expandHome(cfg.InputDir)
	cfg.OutputDir = expandHome(cfg.OutputDir)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv layers CHATLENS_* variables over file values. Env wins so a
// single run can be redirected without editing the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CHATLENS_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("CHATLENS_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("CHATLENS_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("CHATLENS_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("CHATLENS_API_KEY_ENV"); v != "" {
		cfg.LLM.APIKeyEnv = v
	}
	if v := os.Getenv("CHATLENS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.Workers = n
		}
	}
	if v := os.Getenv("CHATLENS_MAX_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxPerMinute = n
		}
	}
}

func (c Config) validate() error {
	if c.LLM.Workers < 1 {
		return fmt.Errorf("llm.workers must be >= 1, got %d", c.LLM.Workers)
	}
	if c.LLM.MaxPerMinute < 1 {
		return fmt.Errorf("llm.max_per_minute must be >= 1, got %d", c.LLM.MaxPerMinute)
	}
	if c.LLM.TimeoutSeconds < 1 {
		return fmt.Errorf("llm.timeout_seconds must be >= 1, got %d", c.LLM.TimeoutSeconds)
	}
	return nil
}

// APIKey resolves the key from the environment variable named in config.
func (c Config) APIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "chatlens", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "chatlens", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ArchiveDir returns the directory processed inputs are compressed into.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.OutputDir, "archive")
}

// DBPath returns the sqlite database path inside the output directory.
func (c Config) DBPath() string {
	return filepath.Join(c.OutputDir, "chatlens.db")
}

// LogPath resolves the log file location. A relative logging.file lands
// inside the output directory next to the other run artifacts; an
// absolute path is used as-is.
func (c Config) LogPath() string {
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.OutputDir, c.Logging.File)
}
