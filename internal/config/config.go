// Package config resolves runtime settings from environment variables, with
// root flags layered on top by the caller.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL points at the public placeholder service the client was
// written against.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

const (
	// Fixed fetch windows; the service paginates past these and we do not.
	TodoLimit = 15
	UserLimit = 5
)

// Config carries everything the client needs to talk to the remote service
// and to log while doing so.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	LogFile   string
	LogLevel  string
	LogFormat string
}

// FromEnv builds a Config from TODOVIEW_* environment variables, filling in
// defaults for anything unset.
func FromEnv() (Config, error) {
	cfg := Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   10 * time.Second,
		LogLevel:  "info",
		LogFormat: "text",
	}

	if v := strings.TrimSpace(os.Getenv("TODOVIEW_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOVIEW_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("TODOVIEW_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("TODOVIEW_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOVIEW_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOVIEW_LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	return cfg, nil
}
