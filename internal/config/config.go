// internal/config/config.go
//
// Server configuration.
//
// Sources, later ones win:
//   1. Defaults below.
//   2. Optional YAML file (--config / CONFIG_FILE).
//   3. Environment variables (a .env file is loaded into the environment by main).
//   4. Command line flags (applied by cmd).
//
// Environment variables:
//   PORT, UPSTREAM_URL, UPSTREAM_TIMEOUT, DB_PATH, CACHE_TTL, MIN_SPINNER,
//   BOARD_IDLE_TTL, SESSION_SECRET, COOKIE_NAME, CLIENT_ORIGIN, APP_ENV,
//   LOG_LEVEL, ADMIN_PASSWORD_HASH
//
// Durations use Go syntax ("1.2s", "24h").

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// CacheOff disables the SQLite category cache when used as DB path.
const CacheOff = "off"

// DevSecret signs board cookies when SESSION_SECRET is unset.
const DevSecret = "dev_secret_change_me"

// Config holds everything the server needs at startup.
type Config struct {
	Port              string        `yaml:"port"`
	UpstreamURL       string        `yaml:"upstream_url"`
	UpstreamTimeout   time.Duration `yaml:"upstream_timeout"`
	DBPath            string        `yaml:"db_path"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	MinSpinner        time.Duration `yaml:"min_spinner"`
	BoardIdleTTL      time.Duration `yaml:"board_idle_ttl"`
	SessionSecret     string        `yaml:"session_secret"`
	CookieName        string        `yaml:"cookie_name"`
	ClientOrigin      string        `yaml:"client_origin"`
	Env               string        `yaml:"env"`
	LogLevel          string        `yaml:"log_level"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            "5175",
		UpstreamURL:     "http://jservice.io/api",
		UpstreamTimeout: 10 * time.Second,
		DBPath:          "./data/jeopardy.db",
		CacheTTL:        24 * time.Hour,
		MinSpinner:      1200 * time.Millisecond,
		BoardIdleTTL:    2 * time.Hour,
		SessionSecret:   DevSecret,
		CookieName:      "jeopardy_board",
		ClientOrigin:    "http://localhost:5173",
		Env:             "development",
		LogLevel:        "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}
	dur := func(k string, dst *time.Duration) error {
		v := getenv(k)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", k, err)
		}
		*dst = d
		return nil
	}

	str("PORT", &c.Port)
	str("UPSTREAM_URL", &c.UpstreamURL)
	str("DB_PATH", &c.DBPath)
	str("SESSION_SECRET", &c.SessionSecret)
	str("COOKIE_NAME", &c.CookieName)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("APP_ENV", &c.Env)
	str("LOG_LEVEL", &c.LogLevel)
	str("ADMIN_PASSWORD_HASH", &c.AdminPasswordHash)

	for k, dst := range map[string]*time.Duration{
		"UPSTREAM_TIMEOUT": &c.UpstreamTimeout,
		"CACHE_TTL":        &c.CacheTTL,
		"MIN_SPINNER":      &c.MinSpinner,
		"BOARD_IDLE_TTL":   &c.BoardIdleTTL,
	} {
		if err := dur(k, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: port is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: session secret is required")
	}
	if c.Production() && c.SessionSecret == DevSecret {
		return fmt.Errorf("config: SESSION_SECRET must be set in production")
	}
	if c.UpstreamTimeout <= 0 || c.MinSpinner < 0 || c.CacheTTL < 0 || c.BoardIdleTTL <= 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	return nil
}

// Production reports whether the server runs with production cookie settings.
func (c Config) Production() bool { return strings.EqualFold(c.Env, "production") }

// CacheEnabled reports whether the SQLite category cache should be opened.
func (c Config) CacheEnabled() bool {
	return c.DBPath != "" && !strings.EqualFold(c.DBPath, CacheOff)
}
