package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/plantel/internal/confirm"
)

// Config holds the client settings.
type Config struct {
	APIURL            string
	TokenDB           string
	LogFile           string
	LogLevel          slog.Level
	ConfirmMode       confirm.Mode
	ConfirmWindow     time.Duration
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

const (
	defaultConfigPath     = "~/.config/plantel/config.toml"
	defaultAPIURL         = "http://127.0.0.1:3000"
	defaultTokenDB        = "~/.local/share/plantel/session.db"
	defaultLogFile        = "~/.local/share/plantel/plantel.log"
	defaultConfirmWindow  = 2500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultRequestsPerSec = 10
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		APIURL:            defaultAPIURL,
		TokenDB:           mustExpand(defaultTokenDB),
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          slog.LevelInfo,
		ConfirmMode:       confirm.ModeRepeat,
		ConfirmWindow:     defaultConfirmWindow,
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSec,
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL            string   `toml:"api_url"`
		TokenDB           string   `toml:"token_db"`
		LogFile           string   `toml:"log_file"`
		LogLevel          string   `toml:"log_level"`
		ConfirmMode       string   `toml:"confirm_mode"`
		ConfirmWindowMS   *int64   `toml:"confirm_window_ms"`
		RequestTimeoutMS  *int64   `toml:"request_timeout_ms"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.TokenDB); v != "" {
		cfg.TokenDB = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}

	mode, err := confirm.ParseMode(raw.ConfirmMode)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ConfirmMode = mode

	if raw.ConfirmWindowMS != nil && *raw.ConfirmWindowMS > 0 {
		cfg.ConfirmWindow = time.Duration(*raw.ConfirmWindowMS) * time.Millisecond
	}
	if raw.RequestTimeoutMS != nil && *raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutMS) * time.Millisecond
	}
	if raw.RequestsPerSecond != nil {
		if *raw.RequestsPerSecond < 0 {
			return Config{}, fmt.Errorf("parse config: requests_per_second must not be negative")
		}
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}

	return cfg, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
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
