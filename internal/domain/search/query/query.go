package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/moovio/moviedex/internal/domain"
)

// Pagination defaults, applied when the caller omits page/limit.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Raw carries unparsed query-string parameters as received by the transport.
// Empty strings mean "absent".
type Raw struct {
	Text   string
	Page   string
	Limit  string
	Genre  string
	Year   string
	Rating string
	SortBy string
}

// Query is a validated search request. Construct via New; a Query in hand
// always satisfies text != "", page >= 1, limit >= 1.
type Query struct {
	text      string
	page      int
	limit     int
	genre     string
	year      *int
	minRating *float64
	sortBy    string
}

// New validates and normalizes raw search parameters.
//
// Validation order matters: pagination and filter errors are caught here,
// before any engine round trip. Unrecognized sortBy values are not an error;
// sort resolution falls back to relevance downstream.
func New(raw Raw) (Query, error) {
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return Query{}, domain.ErrInvalidQuery
	}

	page, err := parsePositive(raw.Page, DefaultPage)
	if err != nil {
		return Query{}, fmt.Errorf("%w: page %q", domain.ErrInvalidPagination, raw.Page)
	}
	limit, err := parsePositive(raw.Limit, DefaultLimit)
	if err != nil {
		return Query{}, fmt.Errorf("%w: limit %q", domain.ErrInvalidPagination, raw.Limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := Query{
		text:   text,
		page:   page,
		limit:  limit,
		genre:  strings.TrimSpace(raw.Genre),
		sortBy: raw.SortBy,
	}

	if raw.Year != "" {
		year, err := strconv.Atoi(raw.Year)
		if err != nil {
			return Query{}, fmt.Errorf("%w: year %q", domain.ErrInvalidFilter, raw.Year)
		}
		q.year = &year
	}
	if raw.Rating != "" {
		rating, err := strconv.ParseFloat(raw.Rating, 64)
		if err != nil {
			return Query{}, fmt.Errorf("%w: rating %q", domain.ErrInvalidFilter, raw.Rating)
		}
		q.minRating = &rating
	}

	return q, nil
}

// parsePositive parses a positive integer, using def for the empty string.
// Zero and negatives are rejected: limit=0 would divide by zero in pagination
// math and page=0 would slice before the first element.
func parsePositive(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be >= 1, got %d", n)
	}
	return n, nil
}

// Text returns the free-text search query.
func (q *Query) Text() string { return q.text }

// Page returns the 1-based page number.
func (q *Query) Page() int { return q.page }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Genre returns the genre filter ("" when absent).
func (q *Query) Genre() string { return q.genre }

// Year returns the year filter (nil when absent).
func (q *Query) Year() *int { return q.year }

// MinRating returns the minimum-rating filter (nil when absent).
func (q *Query) MinRating() *float64 { return q.minRating }

// SortBy returns the requested sort mode as given by the caller.
func (q *Query) SortBy() string { return q.sortBy }
