package moviedex

import "time"

// Movie is one catalog entry in a search result.
type Movie struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Plot       string   `json:"plot,omitempty"`
	Poster     string   `json:"poster,omitempty"`
	Year       int      `json:"year,omitempty"`
	Runtime    int      `json:"runtime,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Directors  []string `json:"director,omitempty"`
	Actors     []string `json:"actors,omitempty"`
	IMDBRating float64  `json:"imdbRating,omitempty"`
}

// Metadata aggregates the full match set of a query.
type Metadata struct {
	TotalCount     int      `json:"totalCount"`
	AvgRating      float64  `json:"avgRating"`
	DistinctGenres []string `json:"distinctGenres"`
	DistinctYears  []int    `json:"distinctYears"`
}

// Pagination describes the caller's position in the match set.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalResults int  `json:"totalResults"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// SearchResult is the shaped search payload.
type SearchResult struct {
	Movies     []Movie    `json:"movies"`
	Metadata   Metadata   `json:"metadata"`
	Pagination Pagination `json:"pagination"`
}

// Suggestion is one autocomplete entry, title formatted as "Title (Year)".
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// User is a registered account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
