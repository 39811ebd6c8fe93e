package tmdb

import "strings"

// DefaultImageBaseURL is the TMDB image CDN prefix for w500 posters.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

// Movie is a single catalog entry as returned in a results array.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
}

// Year returns the release year, or "" when the release date is absent.
func (m Movie) Year() string {
	date := strings.TrimSpace(m.ReleaseDate)
	if len(date) < 4 {
		return ""
	}
	year, _, _ := strings.Cut(date, "-")
	if len(year) != 4 {
		return ""
	}
	return year
}

// PosterURL joins base and the poster path. It returns "" when the movie has
// no poster so callers can render a placeholder.
func (m Movie) PosterURL(base string) string {
	path := strings.TrimSpace(m.PosterPath)
	if path == "" {
		return ""
	}
	if strings.TrimSpace(base) == "" {
		base = DefaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// ResultPage is one page of results plus the paging metadata.
type ResultPage struct {
	Items        []Movie
	Page         int
	TotalPages   int
	TotalResults int
}

// pageResponse mirrors the JSON payload of /movie/popular and /search/movie.
type pageResponse struct {
	Page         int      `json:"page"`
	Results      *[]Movie `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// errorResponse mirrors the error body TMDB returns on non-2xx statuses.
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
