// Package app is the composition root for marquee.
//
// Run loads configuration, opens the log file, builds the TMDB client, the
// state controller and the search debouncer, and hands them to the Bubble Tea
// UI. Print wires the same client and controller without a terminal and
// writes the listing as plain text, which is handy for scripting and for
// checking an API key.
//
//	┌──────────────┐
//	│ config.Load  │ file + .env + environment
//	└──────┬───────┘
//	       ▼
//	┌──────────────┐      ┌──────────────────┐
//	│ tmdb.Client  │◀─────│ state.Controller │
//	└──────────────┘      └────────┬─────────┘
//	                               ▼
//	                  ui.Run (TUI) or Print (stdout)
package app
