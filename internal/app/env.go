package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/five82/plantel/internal/api"
	"github.com/five82/plantel/internal/config"
	"github.com/five82/plantel/internal/session"
)

// Env holds everything built from the config file: logging, the persisted
// session and the API client. The TUI and the CLI commands share it.
type Env struct {
	Config   config.Config
	Session  *session.Session
	Client   *api.Client
	Gateways api.Gateways
	Logger   *slog.Logger

	closers []func() error
}

// Setup loads the config at configPath and opens the session database.
func Setup(configPath string) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	env := &Env{Config: cfg}

	logger, closeLog, err := setupLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	env.Logger = logger
	env.closers = append(env.closers, closeLog)

	tokens, err := session.OpenSQLite(cfg.TokenDB)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}
	env.closers = append(env.closers, tokens.Close)
	env.Session = session.New(tokens, session.WithLogger(logger))

	client, err := api.NewClient(cfg.APIURL, env.Session,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RequestsPerSecond),
		api.WithLogger(logger),
	)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	env.Client = client
	env.Gateways = api.NewGateways(client)

	logger.Info("plantel started", "api_url", client.BaseURL(), "confirm_mode", string(cfg.ConfirmMode))
	return env, nil
}

// Close releases the session database and the log file.
func (e *Env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

// setupLogger sends every record to the log file; the terminal belongs to
// the UI. The returned logger is also installed as the slog default.
func setupLogger(path string, level slog.Level) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, f.Close, nil
}
