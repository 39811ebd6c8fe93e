package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything marquee needs to reach the catalog and log.
type Config struct {
	APIKey         string
	BaseURL        string
	Language       string
	ImageBaseURL   string
	Debounce       time.Duration
	RequestTimeout time.Duration
	RequestsPerSec float64
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/marquee/config.toml"
	defaultBaseURL        = "https://api.themoviedb.org/3"
	defaultLanguage       = "pt-BR"
	defaultImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	defaultDebounce       = 500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultRequestsPerSec = 20
	defaultLogFile        = "~/.local/share/marquee/marquee.log"
	defaultLogLevel       = "info"
)

// Environment variables that override file values.
const (
	EnvAPIKey   = "TMDB_API_KEY"
	EnvBaseURL  = "TMDB_BASE_URL"
	EnvLanguage = "TMDB_LANGUAGE"
	EnvLogLevel = "MARQUEE_LOG_LEVEL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		Language:       defaultLanguage,
		ImageBaseURL:   defaultImageBaseURL,
		Debounce:       defaultDebounce,
		RequestTimeout: defaultRequestTimeout,
		RequestsPerSec: defaultRequestsPerSec,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the marquee config, falling back to defaults when
// missing. A .env file in the working directory and the process environment
// override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	// .env is optional; real environment variables take precedence over it.
	_ = godotenv.Load()

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := cfg.readFrom(file); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) readFrom(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIKey            string  `toml:"api_key"`
		BaseURL           string  `toml:"base_url"`
		Language          string  `toml:"language"`
		ImageBaseURL      string  `toml:"image_base_url"`
		DebounceMS        int     `toml:"debounce_ms"`
		RequestTimeoutSec int     `toml:"request_timeout_seconds"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		LogFile           string  `toml:"log_file"`
		LogLevel          string  `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	c.APIKey = strings.TrimSpace(raw.APIKey)
	setString(&c.BaseURL, raw.BaseURL)
	setString(&c.Language, raw.Language)
	setString(&c.ImageBaseURL, raw.ImageBaseURL)
	setString(&c.LogLevel, strings.ToLower(raw.LogLevel))
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		c.LogFile = mustExpand(logFile)
	}
	if raw.DebounceMS > 0 {
		c.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if raw.RequestTimeoutSec > 0 {
		c.RequestTimeout = time.Duration(raw.RequestTimeoutSec) * time.Second
	}
	if raw.RequestsPerSecond > 0 {
		c.RequestsPerSec = raw.RequestsPerSecond
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.APIKey, os.Getenv(EnvAPIKey))
	setString(&c.BaseURL, os.Getenv(EnvBaseURL))
	setString(&c.Language, os.Getenv(EnvLanguage))
	setString(&c.LogLevel, strings.ToLower(os.Getenv(EnvLogLevel)))
}

// Validate reports configuration that would make every request fail.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("no TMDB API key: set api_key in %s or %s", defaultConfigPath, EnvAPIKey)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
