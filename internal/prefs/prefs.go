// Package prefs remembers UI choices between runs: the colour theme and the
// resource tab that was open on exit.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/plantel/internal/config"
)

// DefaultTheme is used when no theme was saved.
const DefaultTheme = "Nightfox"

const defaultPath = "~/.config/plantel/prefs.toml"

// Prefs holds user preferences.
type Prefs struct {
	Theme    string `toml:"theme"`
	Resource string `toml:"resource,omitempty"`
}

// Default returns the preferences of a first run.
func Default() Prefs {
	return Prefs{Theme: DefaultTheme}
}

// DefaultPath returns the unexpanded default preferences file.
func DefaultPath() string {
	return defaultPath
}

// Load reads preferences from path, or the default path when empty. A
// missing or unreadable file yields Default; only an unresolvable path is an
// error.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Default(), err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		slog.Warn("prefs unreadable, using defaults", "path", resolved, "error", err)
		return Default(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		slog.Warn("prefs malformed, using defaults", "path", resolved, "error", err)
		return Default(), nil
	}
	return p.normalized(), nil
}

// Save writes p to path, creating parent directories. The file is replaced
// atomically so a crash never leaves half a file behind.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	p.Resource = strings.TrimSpace(p.Resource)
	return p
}

func resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve prefs path: %w", err)
	}
	return resolved, nil
}
