// ABOUTME: Configuration loader for the pulsectl client
// ABOUTME: Resolves API URL and config directory from environment with defaults

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://localhost:8080"

type Config struct {
	APIURL    string // Base URL of the Pulse API
	ConfigDir string // Directory for session state and debug logs
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIURL:    ensureScheme(getEnv("PULSE_API_URL", defaultAPIURL)),
		ConfigDir: getEnv("PULSE_CONFIG_DIR", DefaultConfigDir()),
	}
}

// DefaultConfigDir returns the default config directory following XDG conventions
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pulsectl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pulsectl")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
