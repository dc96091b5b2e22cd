package domain

import "fmt"

// Movie is the catalog projection returned by search. It carries no engine
// scoring fields; relevance never leaves the search use case.
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

// Suggestion is a single autocomplete entry.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewSuggestion formats a movie as an autocomplete entry: "<Title> (<Year>)".
func NewSuggestion(m Movie) Suggestion {
	return Suggestion{
		ID:    m.ID,
		Title: fmt.Sprintf("%s (%d)", m.Title, m.Year),
	}
}
