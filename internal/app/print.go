package app

import (
	"context"
	"fmt"
	"io"

	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

// PrintOptions configure the headless listing.
type PrintOptions struct {
	Options
	Query string
	Pages int // pages to load; values below 1 load one page
}

// Print loads up to opts.Pages pages of the popular listing (or the search
// results for opts.Query) through the same controller the TUI uses and writes
// one "Title (Year)" line per movie to w.
func Print(ctx context.Context, opts PrintOptions, w io.Writer) error {
	rt, err := setup(opts.Options)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctrl := state.NewController(rt.client, rt.log)
	defer ctrl.Dispose()

	items, err := collect(ctx, ctrl, opts.Query, max(1, opts.Pages))
	if err != nil {
		return err
	}
	for _, movie := range items {
		if _, err := fmt.Fprintln(w, formatLine(movie)); err != nil {
			return fmt.Errorf("write listing: %w", err)
		}
	}
	return nil
}

// collect drives ctrl through the first page and up to pages-1 load-mores. A
// failed first page is returned as an error; a failed load-more ends the
// listing early.
func collect(ctx context.Context, ctrl *state.Controller, query string, pages int) ([]tmdb.Movie, error) {
	ctrl.Execute(ctx, ctrl.QueryChanged(query))
	snap := ctrl.Snapshot()
	if snap.Err != nil {
		return nil, fmt.Errorf("load page 1: %w", snap.Err)
	}

	for snap.Page < pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := ctrl.EndReached()
		if req == nil {
			break
		}
		ctrl.Execute(ctx, req)
		next := ctrl.Snapshot()
		if next.Page == snap.Page {
			break
		}
		snap = next
	}
	return snap.Items, nil
}

func formatLine(movie tmdb.Movie) string {
	year := movie.Year()
	if year == "" {
		year = "Unknown year"
	}
	return fmt.Sprintf("%s (%s)", movie.Title, year)
}
