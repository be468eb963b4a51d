package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/confirm"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/prefs"
	"github.com/five82/plantel/internal/ui"
)

// initialLoadTimeout bounds the first List of every resource.
const initialLoadTimeout = 10 * time.Second

// Options configure the plantel application.
type Options struct {
	ConfigPath string // empty uses default ~/.config/plantel/config.toml
	PrefsPath  string // empty uses default ~/.config/plantel/prefs.toml
}

// Run boots the plantel TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	bridge := ui.NewBridge()
	stores := env.NewStores(StoreOptions{
		Context:  ctx,
		Notifier: bridge,
		OnChange: bridge.Changed,
	})
	defer stores.Close()

	env.Session.OnExpired(bridge.AuthRequired)

	tabs, err := env.Tabs(stores, bridge, bridge)
	if err != nil {
		return err
	}

	// Populate the stores before the UI starts; failures are shown per tab.
	loadCtx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
	if err := stores.LoadAll(loadCtx); err != nil {
		env.Logger.Warn("initial load incomplete", "error", err)
	}
	cancel()

	return ui.Run(ui.Options{
		Context:   ctx,
		Tabs:      tabs,
		Bridge:    bridge,
		Session:   env.Session,
		LogFile:   env.Config.LogFile,
		ThemeName: userPrefs.Theme,
		Resource:  userPrefs.Resource,
		PrefsPath: opts.PrefsPath,
	})
}

// Tabs builds one UI tab per store, each with its own confirmation strategy
// of the configured mode.
func (e *Env) Tabs(s Stores, n notify.Notifier, p confirm.Prompter) ([]ui.Tab, error) {
	strategy := func() (confirm.Strategy, error) {
		st, err := confirm.New(e.Config.ConfirmMode, e.Config.ConfirmWindow, n, p)
		if err != nil {
			return nil, fmt.Errorf("delete confirmation: %w", err)
		}
		if ar, ok := st.(*confirm.ArmedRepeat); ok {
			ar.Logger = e.Logger
		}
		return st, nil
	}

	var tabs []ui.Tab
	for _, build := range []func(confirm.Strategy) ui.Tab{
		func(st confirm.Strategy) ui.Tab { return ui.NewTab(s.Inventory, club.Inventory, st, n) },
		func(st confirm.Strategy) ui.Tab { return ui.NewTab(s.Athletes, club.Athletes, st, n) },
		func(st confirm.Strategy) ui.Tab { return ui.NewTab(s.Staff, club.Staff, st, n) },
		func(st confirm.Strategy) ui.Tab { return ui.NewTab(s.Analyses, club.Analyses, st, n) },
	} {
		st, err := strategy()
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, build(st))
	}
	return tabs, nil
}
