// Package state implements the query and pagination controller behind the
// browse screen.
//
// # Overview
//
// A Controller owns everything the screen shows about the catalog: the
// effective query, the current and total page counts, the accumulated item
// list, the two loading flags and the blocking error. The UI reads it through
// Snapshot, which returns a copy, and drives it with three events:
//
//   - QueryChanged(q): the debounced search text settled on q
//   - EndReached(): the user scrolled near the end of the list
//   - Retry(): the user asked to reload after a blocking error
//
// # Request / Apply Cycle
//
// Events never perform I/O. They update the flags and return a *Request (or
// nil when the event is ignored). The caller executes it with Fetch, which
// only reads the fetcher and is safe to run on a worker goroutine, and hands
// the Result back to Apply on the event goroutine:
//
//	req := ctrl.QueryChanged("batman")      // InitialLoading, items reset
//	res := ctrl.Fetch(ctx, *req)            // tea.Cmd goroutine
//	ctrl.Apply(res)                         // Update loop
//
// Execute combines the two for synchronous callers.
//
// # State Machine
//
//	Idle ──QueryChanged──> InitialLoading ──ok──> Ready ──EndReached──> Ready+LoadingMore
//	                             │                  ▲                        │
//	                             └──err──> Failed ──┘ Retry          ok/err ─┘
//
// Initial-load failures are blocking: the list stays empty and ErrMessage is
// shown with a retry affordance. Load-more failures only clear LoadingMore and
// are logged; the list stays as it was.
//
// # Stale Responses
//
// Every Request carries the generation counter value at issue time. Each
// QueryChanged or Retry bumps the counter, so Apply drops any result from an
// older generation. Results for a page the controller is not waiting on, and
// anything arriving after Dispose, are dropped the same way.
//
// # Concurrency
//
// The Controller holds no locks. Event methods and Apply must be called from
// one goroutine; in marquee that is the Bubble Tea update loop. Separate
// screens use separate controllers.
package state
