package state

import (
	"time"

	"github.com/five82/marquee/internal/tmdb"
)

// Phase is the coarse state of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitialLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialLoading:
		return "initial-loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is a read-only copy of the controller state handed to the UI.
type Snapshot struct {
	Query          string // effective query; empty means the popular listing
	Page           int
	TotalPages     int
	Items          []tmdb.Movie
	InitialLoading bool
	LoadingMore    bool
	Loaded         bool // page 1 of the current query has been applied
	Err            error
	ErrMessage     string
	LastUpdated    time.Time
}

// Phase derives the coarse state from the flags.
func (s Snapshot) Phase() Phase {
	switch {
	case s.InitialLoading:
		return PhaseInitialLoading
	case s.Err != nil:
		return PhaseFailed
	case s.Loaded:
		return PhaseReady
	default:
		return PhaseIdle
	}
}

// HasMore reports whether further pages exist for the current query.
func (s Snapshot) HasMore() bool {
	return s.Loaded && s.Page < s.TotalPages
}

// IsSearch reports whether the effective query is a title search.
func (s Snapshot) IsSearch() bool {
	return s.Query != ""
}

func (s Snapshot) clone() Snapshot {
	snap := s
	snap.Items = cloneItems(s.Items)
	return snap
}

func cloneItems(items []tmdb.Movie) []tmdb.Movie {
	if len(items) == 0 {
		return nil
	}
	dup := make([]tmdb.Movie, len(items))
	copy(dup, items)
	return dup
}
