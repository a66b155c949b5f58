// Package config loads the client's runtime configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName  = "Tuinue Wasichana"
	defaultBaseURL  = "http://localhost:5000/api"
	defaultLogLevel = "info"
	defaultTimeout  = 15 * time.Second

	baseURLEnvVar     = "TUINUE_API_URL"
	appNameEnvVar     = "TUINUE_APP_NAME"
	logLevelEnvVar    = "TUINUE_LOG_LEVEL"
	sessionFileEnvVar = "TUINUE_SESSION_FILE"
	timeoutEnvVar     = "TUINUE_HTTP_TIMEOUT"
)

// Config captures client runtime configuration.
type Config struct {
	AppName     string
	BaseURL     string
	LogLevel    string
	SessionFile string
	HTTPTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getEnv(appNameEnvVar, defaultAppName),
		BaseURL:     strings.TrimRight(getEnv(baseURLEnvVar, defaultBaseURL), "/"),
		LogLevel:    strings.ToLower(getEnv(logLevelEnvVar, defaultLogLevel)),
		SessionFile: os.Getenv(sessionFileEnvVar),
		HTTPTimeout: defaultTimeout,
	}

	if v := os.Getenv(timeoutEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", timeoutEnvVar, err)
		}
		cfg.HTTPTimeout = d
	}

	if cfg.SessionFile == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving user config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(configDir, "tuinue", "session.json")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
