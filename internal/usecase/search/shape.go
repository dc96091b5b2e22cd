package search

import (
	"math"
	"sort"

	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/result"
)

// Metadata is the normalized per-query aggregate over the full match set.
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

// Response is the shaped search payload.
type Response struct {
	Movies     []domain.Movie `json:"movies"`
	Metadata   Metadata       `json:"metadata"`
	Pagination Pagination     `json:"pagination"`
}

// shape paginates the sorted movie facet in memory and normalizes metadata.
//
// Pagination happens here, not in the engine: the plan keeps the full
// candidate set so the metadata facet aggregates exactly what the page is cut
// from. The flip side is that pages addressing candidates beyond the engine
// cap come back short or empty.
func shape(f *result.Facet, page, limit int) *Response {
	meta := normalizeMetadata(f.Meta)

	start := (page - 1) * limit
	end := start + limit
	if start > len(f.Hits) {
		start = len(f.Hits)
	}
	if end > len(f.Hits) {
		end = len(f.Hits)
	}

	movies := make([]domain.Movie, 0, end-start)
	for _, h := range f.Hits[start:end] {
		movies = append(movies, h.Movie)
	}

	totalPages := (meta.TotalCount + limit - 1) / limit

	return &Response{
		Movies:   movies,
		Metadata: meta,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalResults: meta.TotalCount,
			HasNextPage:  page < totalPages,
			HasPrevPage:  page > 1,
		},
	}
}

// normalizeMetadata turns the raw metadata facet into its presentation form.
// A nil facet (zero matches) yields an explicit zero-valued record.
func normalizeMetadata(raw *result.RawMetadata) Metadata {
	if raw == nil {
		return Metadata{DistinctGenres: []string{}, DistinctYears: []int{}}
	}
	return Metadata{
		TotalCount:     raw.TotalCount,
		AvgRating:      math.Round(raw.AvgRating*10) / 10,
		DistinctGenres: distinctGenres(raw.GenreGroups),
		DistinctYears:  distinctYears(raw.Years),
	}
}

// distinctGenres flattens the per-document genre groups, drops empty entries,
// de-duplicates, and sorts ascending.
func distinctGenres(groups [][]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, group := range groups {
		for _, g := range group {
			if g == "" {
				continue
			}
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

// distinctYears de-duplicates and sorts descending, dropping the zero value
// documents without a release year produce.
func distinctYears(years []int) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, y := range years {
		if y == 0 {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
