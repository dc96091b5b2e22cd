package moviedex

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SearchParams describes one catalog query. Query is required; zero values
// for the rest mean "not set".
type SearchParams struct {
	Query  string
	Page   int
	Limit  int
	Genre  string
	Year   int
	Rating float64
	SortBy string
}

func (p SearchParams) values() url.Values {
	q := url.Values{}
	q.Set("q", p.Query)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Genre != "" {
		q.Set("genre", p.Genre)
	}
	if p.Year > 0 {
		q.Set("year", strconv.Itoa(p.Year))
	}
	if p.Rating > 0 {
		q.Set("rating", strconv.FormatFloat(p.Rating, 'f', -1, 64))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	return q
}

// Search runs a fuzzy full-text query over the movie catalog.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	var result SearchResult
	if err := c.doEnveloped(ctx, http.MethodGet, "/movies/search", params.values(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Autocomplete returns title suggestions for a prefix. limit <= 0 uses the
// server default.
func (c *Client) Autocomplete(ctx context.Context, prefix string, limit int) ([]Suggestion, error) {
	q := url.Values{}
	q.Set("q", prefix)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var payload struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := c.doEnveloped(ctx, http.MethodGet, "/movies/autocomplete", q, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Suggestions, nil
}
