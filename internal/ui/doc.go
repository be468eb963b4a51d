// Package ui is the plantel terminal interface, built on Bubble Tea.
//
// # Structure
//
//   - app.go: Model, Update loop, key dispatch and Run
//   - bridge.go: Bridge, the only way store goroutines reach the program
//   - tab.go: Tab, one resource store bound to its schema and delete gate
//   - table.go, header.go: record table, tab strip and sync counters
//   - form.go, dialogs.go: add/edit form, delete question, token prompt
//   - logs.go: application log view with a minimum level filter
//
// # Event Flow
//
//  1. app.Run builds the stores with the Bridge as notifier and change hook.
//  2. Store mutations call Bridge.Changed; the model re-reads the active tab.
//  3. Notifications arrive as toasts; auth failures open the token prompt.
//  4. In dialog mode a delete asks through Bridge.Confirm, which blocks the
//     store-side goroutine until the confirm modal answers.
//
// The Bridge never blocks a sender. Program.Send must not be called from
// inside Update, so store callbacks only queue messages and a goroutine
// started by Attach forwards them.
//
// # Key Bindings
//
//   - tab/shift+tab, 1-4: switch resource
//   - a: add, e/enter: edit, d: delete, x: discard a failed record
//   - r: reload the resource, t: enter a new token
//   - L: log view, f: cycle minimum log level
//   - T: cycle theme, h/?: help, q: quit
package ui
