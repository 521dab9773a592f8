package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds client settings sourced from the environment.
// A .env file in the working directory is honored when present.
type Config struct {
	// BackendURL is the Moon Base resource API endpoint.
	BackendURL string `envconfig:"BACKEND_URL" default:"http://localhost:1111"`

	// RequestTimeoutSec caps individual HTTP calls. There is no retry or
	// abort path beyond this; in-flight requests always complete or fail.
	RequestTimeoutSec int `envconfig:"REQUEST_TIMEOUT_SEC" default:"15"`

	// LogPath receives slog output while the TUI owns the terminal.
	// Empty means stderr (fine for one-shot CLI commands).
	LogPath string `envconfig:"LOG_PATH"`
}

func Load() (Config, error) {
	// Best-effort; a missing .env is the normal case.
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("mooncookies", &c); err != nil {
		return Config{}, err
	}
	c.BackendURL = strings.TrimRight(strings.TrimSpace(c.BackendURL), "/")
	return c, nil
}

// Dir returns the per-user state directory (credentials, event log).
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.mooncookies).
	if v := strings.TrimSpace(os.Getenv("MOONCOOKIES_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mooncookies"), nil
}
