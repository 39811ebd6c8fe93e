package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// PageFetcher fetches one page of catalog results. An empty query selects the
// popular listing; anything else is a title search.
// This interface is implemented by *Client and can be used for testing.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page int) (ResultPage, error)
}

// Ensure Client implements PageFetcher at compile time.
var _ PageFetcher = (*Client)(nil)

const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultLanguage  = "pt-BR"
	defaultUserAgent = "marquee/0.1"
	defaultTimeout   = 10 * time.Second
	defaultRPS       = 20

	popularPath = "/movie/popular"
	searchPath  = "/search/movie"
)

// Options configure a Client. Only APIKey is required.
type Options struct {
	BaseURL           string
	APIKey            string
	Language          string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 uses the default
	UserAgent         string
	HTTPClient        *http.Client
	Logger            *zerolog.Logger
}

// Client talks to the TMDB v3 REST API.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	language  string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       zerolog.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = DefaultLanguage
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "tmdb").Logger()
	}

	return &Client{
		baseURL:   base,
		apiKey:    apiKey,
		language:  language,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
		userAgent: userAgent,
		log:       logger,
	}, nil
}

// FetchPage retrieves page of either the popular listing (empty query) or a
// title search. Failures are *NetworkError or *ParseError.
func (c *Client) FetchPage(ctx context.Context, query string, page int) (ResultPage, error) {
	if c == nil {
		return ResultPage{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		return ResultPage{}, fmt.Errorf("page must be >= 1, got %d", page)
	}

	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("language", c.language)
	path := popularPath
	if q := strings.TrimSpace(query); q != "" {
		path = searchPath
		values.Set("query", q)
	}
	values.Set("page", strconv.Itoa(page))

	var payload pageResponse
	if err := c.get(ctx, path, values, &payload); err != nil {
		return ResultPage{}, err
	}
	if payload.Results == nil {
		return ResultPage{}, &ParseError{Path: path, Err: errors.New("missing results array")}
	}

	result := ResultPage{
		Items:        *payload.Results,
		Page:         payload.Page,
		TotalPages:   payload.TotalPages,
		TotalResults: payload.TotalResults,
	}
	if result.Page < 1 {
		result.Page = page
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Path: path, Err: err}
	}

	reqURL := c.baseURL.JoinPath(path)
	reqURL.RawQuery = values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	requestID := uuid.NewString()
	started := time.Now()
	logEvent := c.log.Debug().
		Str("request_id", requestID).
		Str("path", path).
		Str("page", values.Get("page"))
	if q := values.Get("query"); q != "" {
		logEvent = logEvent.Str("query", q)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logEvent.Err(err).Dur("duration", time.Since(started)).Msg("request failed")
		return &NetworkError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	logEvent.Int("status", resp.StatusCode).Dur("duration", time.Since(started)).Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Path: path, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.StatusMessage)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
