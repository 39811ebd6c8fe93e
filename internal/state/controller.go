package state

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/tmdb"
)

// Messages shown when the first page of a query cannot be loaded.
const (
	MsgNetworkFailure = "Something went wrong while loading movies. Check your connection and try again."
	MsgParseFailure   = "The catalog sent a response that could not be read. Try again."
)

// RequestKind distinguishes a first-page load from a load-more.
type RequestKind int

const (
	KindInitial RequestKind = iota
	KindMore
)

func (k RequestKind) String() string {
	if k == KindMore {
		return "more"
	}
	return "initial"
}

// Request describes a fetch the controller wants performed. Generation is
// captured at issue time and checked when the result is applied.
type Request struct {
	Kind       RequestKind
	Query      string
	Page       int
	Generation uint64
}

// Result carries the outcome of a Request back to Apply.
type Result struct {
	Request Request
	Page    tmdb.ResultPage
	Err     error
}

// Controller owns the query, paging and loading state of one browse screen.
//
// Event methods (QueryChanged, EndReached, Retry) and Apply mutate state and
// must be called from a single goroutine. Fetch only reads the fetcher and may
// run anywhere.
type Controller struct {
	fetcher tmdb.PageFetcher
	log     zerolog.Logger

	snap       Snapshot
	started    bool
	generation uint64
	disposed   bool
}

// NewController returns a controller that loads pages through fetcher.
func NewController(fetcher tmdb.PageFetcher, logger zerolog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		log:     logger.With().Str("component", "state").Logger(),
		snap:    Snapshot{Page: 1, TotalPages: 1},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return c.snap.clone()
}

// Generation returns the current request generation.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// QueryChanged makes query the effective query. The first call always starts
// a load; later calls with the current query do nothing.
func (c *Controller) QueryChanged(query string) *Request {
	if c.disposed {
		return nil
	}
	query = strings.TrimSpace(query)
	if c.started && query == c.snap.Query {
		return nil
	}
	c.started = true
	return c.startInitial(query)
}

// Retry reloads the first page of the current query after a blocking error.
func (c *Controller) Retry() *Request {
	if c.disposed || c.snap.Err == nil || c.snap.InitialLoading {
		return nil
	}
	return c.startInitial(c.snap.Query)
}

// EndReached requests the next page when the list has been scrolled to its
// end. It returns nil when a fetch is already running, the first page has not
// loaded, or there are no more pages.
func (c *Controller) EndReached() *Request {
	s := &c.snap
	if c.disposed || s.InitialLoading || s.LoadingMore || s.Err != nil || !s.Loaded {
		return nil
	}
	if s.Page >= s.TotalPages {
		return nil
	}
	s.LoadingMore = true
	return &Request{Kind: KindMore, Query: s.Query, Page: s.Page + 1, Generation: c.generation}
}

func (c *Controller) startInitial(query string) *Request {
	c.generation++
	c.snap = Snapshot{
		Query:          query,
		Page:           1,
		TotalPages:     1,
		InitialLoading: true,
		LastUpdated:    c.snap.LastUpdated,
	}
	c.log.Debug().Str("query", query).Uint64("generation", c.generation).Msg("query changed")
	return &Request{Kind: KindInitial, Query: query, Page: 1, Generation: c.generation}
}

// Fetch performs req against the fetcher. It does not touch controller state.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	page, err := c.fetcher.FetchPage(ctx, req.Query, req.Page)
	return Result{Request: req, Page: page, Err: err}
}

// Apply folds a fetch result into the state. Results from a superseded
// generation, for a page the controller is not waiting on, or arriving after
// Dispose are discarded. It reports whether the state changed.
func (c *Controller) Apply(res Result) bool {
	req := res.Request
	if c.disposed {
		c.discard(req, "disposed")
		return false
	}
	if req.Generation != c.generation {
		c.discard(req, "superseded")
		return false
	}

	switch req.Kind {
	case KindInitial:
		return c.applyInitial(res)
	case KindMore:
		return c.applyMore(res)
	}
	c.discard(req, "unknown kind")
	return false
}

func (c *Controller) applyInitial(res Result) bool {
	s := &c.snap
	if !s.InitialLoading {
		c.discard(res.Request, "not loading")
		return false
	}
	s.InitialLoading = false
	s.LastUpdated = time.Now()

	if res.Err != nil {
		s.Items = nil
		s.Err = res.Err
		s.ErrMessage = ErrorMessage(res.Err)
		c.log.Warn().Err(res.Err).Str("query", s.Query).Msg("initial load failed")
		return true
	}

	s.Items = cloneItems(res.Page.Items)
	s.Page = 1
	s.TotalPages = max(1, res.Page.TotalPages)
	s.Loaded = true
	c.log.Info().
		Str("query", s.Query).
		Int("items", len(s.Items)).
		Int("total_pages", s.TotalPages).
		Msg("first page loaded")
	return true
}

func (c *Controller) applyMore(res Result) bool {
	s := &c.snap
	if !s.LoadingMore || res.Request.Page != s.Page+1 {
		c.discard(res.Request, "unexpected page")
		return false
	}
	s.LoadingMore = false

	if res.Err != nil {
		c.log.Warn().Err(res.Err).Str("query", s.Query).Int("page", res.Request.Page).Msg("load more failed")
		return true
	}

	s.Items = append(s.Items, res.Page.Items...)
	s.Page = res.Request.Page
	s.LastUpdated = time.Now()
	c.log.Debug().Str("query", s.Query).Int("page", s.Page).Int("items", len(s.Items)).Msg("page appended")
	return true
}

func (c *Controller) discard(req Request, reason string) {
	c.log.Debug().
		Str("reason", reason).
		Str("kind", req.Kind.String()).
		Str("query", req.Query).
		Int("page", req.Page).
		Uint64("generation", req.Generation).
		Msg("discarding fetch result")
}

// Execute fetches req and applies the result on the calling goroutine.
// A nil req is a no-op.
func (c *Controller) Execute(ctx context.Context, req *Request) bool {
	if req == nil {
		return false
	}
	return c.Apply(c.Fetch(ctx, *req))
}

// Dispose stops the controller. Pending results are discarded on arrival and
// later events are ignored.
func (c *Controller) Dispose() {
	c.disposed = true
	c.snap.InitialLoading = false
	c.snap.LoadingMore = false
}

// ErrorMessage maps a fetch error to the text shown on the blocking error view.
func ErrorMessage(err error) string {
	var parseErr *tmdb.ParseError
	if errors.As(err, &parseErr) {
		return MsgParseFailure
	}
	return MsgNetworkFailure
}
