package plan

// Recognized sort modes.
const (
	SortRelevance = "relevance"
	SortRating    = "rating"
	SortYear      = "year"
	SortTitle     = "title"
)

// Logical ordering fields, mapped to engine paths by the serializer.
const (
	OrderByScore  = "relevanceScore"
	OrderByRating = "imdbRating"
	OrderByYear   = "year"
	OrderByTitle  = "title"
)

// SortKey is a two-level ordering: primary field with direction, then a
// tie-breaking secondary.
type SortKey struct {
	Primary      string
	PrimaryAsc   bool
	Secondary    string
	SecondaryAsc bool
}

// ResolveSortKey maps a sort mode to its ordering key. Unrecognized values
// fall back to relevance rather than erroring; the sort mode is a preference,
// not a validation gate.
func ResolveSortKey(sortBy string) SortKey {
	switch sortBy {
	case SortRating:
		return SortKey{Primary: OrderByRating, Secondary: OrderByScore}
	case SortYear:
		return SortKey{Primary: OrderByYear, Secondary: OrderByScore}
	case SortTitle:
		return SortKey{Primary: OrderByTitle, PrimaryAsc: true, Secondary: OrderByScore}
	default:
		return SortKey{Primary: OrderByScore, Secondary: OrderByRating}
	}
}
