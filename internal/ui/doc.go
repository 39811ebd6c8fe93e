// Package ui provides the terminal interface for browsing the movie catalog.
//
// The model is a Bubble Tea program. It owns no catalog state of its own:
// every frame renders a snapshot taken from a state.Controller.
//
// # Event Flow
//
//  1. Init issues the popular listing (the mount query) and starts waiting
//     on the debouncer.
//  2. Keystrokes in the search input go to debounce.Debouncer.Input. When
//     the input settles, the value arrives as a queryMsg and is handed to
//     Controller.QueryChanged.
//  3. Controller events return a Request. fetch runs it in a command
//     goroutine and posts the Result back as a pageMsg.
//  4. pageMsg is applied with Controller.Apply. Results from an older
//     generation are dropped there.
//  5. Moving the cursor within half a screen of the last row signals
//     Controller.EndReached.
//
// # Views
//
//   - Browse: movie list with a detail pane, plus loading, empty and error
//     screens.
//   - Logs: tail of the application log file, optionally problems only.
//
// Quitting stops the debouncer and disposes the controller so late
// responses are ignored.
package ui
