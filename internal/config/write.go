package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the chatlens config directory path.
// Uses $XDG_CONFIG_HOME/chatlens if set, otherwise ~/.config/chatlens.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatlens")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chatlens")
}

// WriteDefault writes a default config.toml pointing at inputDir.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(inputDir string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	portablePath := CompressHome(inputDir)

	content := fmt.Sprintf(`input_dir = %q
output_dir = "./analysis"
max_chars = 0

[llm]
base_url = "https://api.openai.com/v1/chat/completions"
model = "gpt-4o-mini"
api_key_env = "OPENAI_API_KEY"
timeout_seconds = 120
max_per_minute = 500
workers = 10

[archive]
compress = true

[logging]
file = "chatlens.log"
level = "info"
`, portablePath)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
