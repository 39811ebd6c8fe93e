// Package tmdb provides an HTTP client for the TMDB v3 catalog API.
//
// # Overview
//
// The client issues the two read requests marquee needs: the popular movie
// listing and a title search, both paginated. A single method, FetchPage,
// picks the endpoint from the query:
//
//   - GET {base}/movie/popular?api_key=…&language=…&page=N   (empty query)
//   - GET {base}/search/movie?api_key=…&language=…&query=…&page=N
//
// Both return a results array and total_pages, decoded into a ResultPage.
//
// # Configuration
//
// Base URL, API key, language, timeout and throttle are passed in Options at
// construction. Nothing is read from package-level state.
//
// # Errors
//
// Failures are typed so callers can classify them with errors.As:
//
//   - *NetworkError: transport failure, cancelled context, or non-2xx status
//   - *ParseError: a body that is not valid JSON or lacks the results array
//
// The client never retries. Retry policy belongs to the caller.
//
// # Throttling
//
// Requests pass through a token bucket (golang.org/x/time/rate) sized from
// Options.RequestsPerSecond so bursts of scrolling stay under TMDB's limits.
//
// # Usage Example
//
//	client, err := tmdb.NewClient(tmdb.Options{APIKey: key})
//	if err != nil {
//		return err
//	}
//	page, err := client.FetchPage(ctx, "batman", 1)
package tmdb
