// Package cli holds the plantel subcommands. Each constructor returns a
// cobra command that builds its own app.Env from the shared Globals, so the
// commands work without the TUI.
package cli
