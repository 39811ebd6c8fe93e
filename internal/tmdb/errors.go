package tmdb

import "fmt"

// NetworkError reports a transport failure or a non-success HTTP status.
type NetworkError struct {
	Path       string
	StatusCode int // zero when the request never got a response
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("tmdb %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("tmdb %s returned status %d", e.Path, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("tmdb %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("tmdb %s: network error", e.Path)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tmdb %s: decode response: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
