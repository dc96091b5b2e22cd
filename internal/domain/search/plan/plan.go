// Package plan models an engine-agnostic search request: a non-empty ordered
// set of weighted match clauses combined with OR semantics, optional post-match
// filters, an ordering key, and the facets to compute. Serialization to a
// concrete engine DSL lives with the engine (internal/db/mongo).
package plan

import (
	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/query"
)

// Searchable corpus paths.
const (
	FieldTitle     = "title"
	FieldPlot      = "plot"
	FieldCast      = "cast"
	FieldDirectors = "directors"
	FieldGenres    = "genres"
	FieldKeywords  = "keywords"
	FieldYear      = "year"
	FieldRating    = "imdb.rating"
)

// Match strategy weights. Fuzzy full-field matching dominates, title prefix
// completion comes second, exact genre/keyword hits contribute least.
const (
	fuzzyBoost        = 3
	autocompleteBoost = 2
	keywordBoost      = 1.5

	fuzzyMaxEdits     = 2
	fuzzyPrefixLength = 2
)

// MatchKind discriminates MatchClause variants.
type MatchKind string

const (
	// MatchFuzzyText tolerates bounded edit-distance errors.
	MatchFuzzyText MatchKind = "fuzzy_text"
	// MatchAutocomplete is a prefix match for incremental typing.
	MatchAutocomplete MatchKind = "autocomplete"
	// MatchPlainText is an exact keyword text match.
	MatchPlainText MatchKind = "text"
)

// MatchClause is one weighted match strategy over one or more fields.
// Clauses in a Plan are OR-ed: at least one must match for a document to be
// a candidate, and each contributes boost-weighted relevance independently.
type MatchClause struct {
	Kind         MatchKind
	Fields       []string
	MaxEdits     int     // fuzzy only
	PrefixLength int     // fuzzy only
	Boost        float64 // multiplicative score weight
}

// FilterKind discriminates FilterClause variants.
type FilterKind string

const (
	// FilterGenreEquals narrows to an exact genre.
	FilterGenreEquals FilterKind = "genre_equals"
	// FilterYearEquals narrows to an exact release year.
	FilterYearEquals FilterKind = "year_equals"
	// FilterMinRating narrows to a minimum IMDB rating.
	FilterMinRating FilterKind = "min_rating"
)

// FilterClause is a post-match narrowing predicate. Filters never affect
// scoring; they cut candidates after the match stage so the metadata facet
// aggregates exactly the set used to render the page.
type FilterClause struct {
	Kind   FilterKind
	Field  string
	Text   string  // FilterGenreEquals
	Number float64 // FilterYearEquals, FilterMinRating
}

// Plan is a complete engine request: matches, filters, ordering, and facets.
type Plan struct {
	Query   string
	Matches []MatchClause
	Filters []FilterClause
	Sort    SortKey

	// CandidateLimit bounds the engine-side candidate set before faceting.
	// The caller's page/limit is deliberately NOT pushed into the plan: the
	// metadata facet must aggregate over the same match set as the movie
	// list, so pagination happens in memory downstream. Pages addressing
	// candidates beyond this cap come back short or empty.
	CandidateLimit int

	// WithMetadata requests the second facet (count, average rating,
	// distinct genres/years) in the same engine pass.
	WithMetadata bool

	// SuggestionLimit caps the movie facet for autocomplete plans (0 = no cap
	// beyond CandidateLimit).
	SuggestionLimit int
}

// Build constructs the full search plan for a validated query: three OR-ed
// match clauses over the catalog, filters for whichever of genre/year/rating
// are present, both facets, ordered per the query's sort mode.
func Build(q *query.Query, candidateLimit int) *Plan {
	p := &Plan{
		Query: q.Text(),
		Matches: []MatchClause{
			{
				Kind:         MatchFuzzyText,
				Fields:       []string{FieldTitle, FieldPlot, FieldCast, FieldDirectors},
				MaxEdits:     fuzzyMaxEdits,
				PrefixLength: fuzzyPrefixLength,
				Boost:        fuzzyBoost,
			},
			{
				Kind:   MatchAutocomplete,
				Fields: []string{FieldTitle},
				Boost:  autocompleteBoost,
			},
			{
				Kind:   MatchPlainText,
				Fields: []string{FieldGenres, FieldKeywords},
				Boost:  keywordBoost,
			},
		},
		Sort:           ResolveSortKey(q.SortBy()),
		CandidateLimit: candidateLimit,
		WithMetadata:   true,
	}

	if g := q.Genre(); g != "" {
		p.Filters = append(p.Filters, FilterClause{
			Kind:  FilterGenreEquals,
			Field: FieldGenres,
			Text:  g,
		})
	}
	if y := q.Year(); y != nil {
		p.Filters = append(p.Filters, FilterClause{
			Kind:   FilterYearEquals,
			Field:  FieldYear,
			Number: float64(*y),
		})
	}
	if r := q.MinRating(); r != nil {
		p.Filters = append(p.Filters, FilterClause{
			Kind:   FilterMinRating,
			Field:  FieldRating,
			Number: *r,
		})
	}

	return p
}

// BuildAutocomplete constructs the narrow suggestion plan: fuzzy plus prefix
// matching over the title only, no filters, no metadata facet, a small fixed
// result cap.
func BuildAutocomplete(text string, limit, candidateLimit int) (*Plan, error) {
	if text == "" {
		return nil, domain.ErrInvalidQuery
	}
	return &Plan{
		Query: text,
		Matches: []MatchClause{
			{
				Kind:         MatchFuzzyText,
				Fields:       []string{FieldTitle},
				MaxEdits:     fuzzyMaxEdits,
				PrefixLength: fuzzyPrefixLength,
				Boost:        fuzzyBoost,
			},
			{
				Kind:   MatchAutocomplete,
				Fields: []string{FieldTitle},
				Boost:  autocompleteBoost,
			},
		},
		Sort:            ResolveSortKey(SortRelevance),
		CandidateLimit:  candidateLimit,
		SuggestionLimit: limit,
	}, nil
}
