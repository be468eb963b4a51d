// Package app is the composition root of plantel.
//
// Setup turns the config file into an Env: the file logger, the persisted
// session, the rate-limited API client and one gateway per club resource.
// The TUI and every CLI subcommand start from an Env.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Setup()            config, logger, session, API client
//	       ├─────> ui.NewBridge()     store events into the Bubble Tea loop
//	       ├─────> Env.NewStores()    one optimistic store per resource
//	       ├─────> Env.Tabs()         store + schema + delete confirmation
//	       ├─────> Stores.LoadAll()   first List of every resource
//	       └─────> ui.Run()           TUI (blocks)
//
// Errors from Setup are fatal. The initial load is best effort: a resource
// that fails to load shows the failure in its tab, and an auth failure
// invalidates the session, which opens the token prompt.
package app
