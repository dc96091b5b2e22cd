package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moovio/moviedex/internal/domain/search/plan"
)

// scoreField is the pipeline field that carries the Atlas Search score.
// It exists only inside the aggregation; the shaper never lets it out.
const scoreField = "relevanceScore"

// movieFacet / metaFacet are the two named sub-results of one search pass.
const (
	movieFacet = "movies"
	metaFacet  = "meta"
)

// BuildSearchPipeline serializes a plan into an Atlas Search aggregation:
//
//	$search (compound should, minimumShouldMatch 1)
//	$addFields relevanceScore = searchScore
//	$limit candidate cap
//	$match post-match filters (only when present)
//	$facet movies + meta
//
// Filters sit after scoring but before faceting, so the metadata facet counts
// exactly the candidate set the movie facet renders.
func BuildSearchPipeline(index string, p *plan.Plan) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "compound", Value: bson.D{
				{Key: "should", Value: matchClauses(p)},
				{Key: "minimumShouldMatch", Value: 1},
			}},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: scoreField, Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
		}}},
		bson.D{{Key: "$limit", Value: p.CandidateLimit}},
	}

	if match := filterMatch(p.Filters); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	return append(pipeline, bson.D{{Key: "$facet", Value: facets(p)}})
}

// matchClauses serializes the OR-ed match strategies.
func matchClauses(p *plan.Plan) bson.A {
	clauses := make(bson.A, 0, len(p.Matches))
	for _, m := range p.Matches {
		switch m.Kind {
		case plan.MatchFuzzyText:
			clauses = append(clauses, bson.D{{Key: "text", Value: bson.D{
				{Key: "query", Value: p.Query},
				{Key: "path", Value: paths(m.Fields)},
				{Key: "fuzzy", Value: bson.D{
					{Key: "maxEdits", Value: m.MaxEdits},
					{Key: "prefixLength", Value: m.PrefixLength},
				}},
				{Key: "score", Value: boost(m.Boost)},
			}}})
		case plan.MatchAutocomplete:
			clauses = append(clauses, bson.D{{Key: "autocomplete", Value: bson.D{
				{Key: "query", Value: p.Query},
				{Key: "path", Value: paths(m.Fields)},
				{Key: "score", Value: boost(m.Boost)},
			}}})
		case plan.MatchPlainText:
			clauses = append(clauses, bson.D{{Key: "text", Value: bson.D{
				{Key: "query", Value: p.Query},
				{Key: "path", Value: paths(m.Fields)},
				{Key: "score", Value: boost(m.Boost)},
			}}})
		}
	}
	return clauses
}

// paths renders a single field as a plain string and several as an array,
// matching the $search path syntax.
func paths(fields []string) any {
	if len(fields) == 1 {
		return fields[0]
	}
	arr := make(bson.A, len(fields))
	for i, f := range fields {
		arr[i] = f
	}
	return arr
}

func boost(value float64) bson.D {
	return bson.D{{Key: "boost", Value: bson.D{{Key: "value", Value: value}}}}
}

// filterMatch serializes post-match filters into one $match document.
func filterMatch(filters []plan.FilterClause) bson.D {
	match := bson.D{}
	for _, f := range filters {
		switch f.Kind {
		case plan.FilterGenreEquals:
			match = append(match, bson.E{Key: f.Field, Value: f.Text})
		case plan.FilterYearEquals:
			match = append(match, bson.E{Key: f.Field, Value: int(f.Number)})
		case plan.FilterMinRating:
			match = append(match, bson.E{Key: f.Field, Value: bson.D{{Key: "$gte", Value: f.Number}}})
		}
	}
	return match
}

// facets builds the $facet document: the sorted movie projection, plus the
// metadata aggregate when the plan asks for it.
func facets(p *plan.Plan) bson.D {
	movies := bson.A{
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "title", Value: 1},
			{Key: "plot", Value: 1},
			{Key: "poster", Value: 1},
			{Key: "year", Value: 1},
			{Key: "runtime", Value: 1},
			{Key: "genres", Value: 1},
			{Key: "cast", Value: 1},
			{Key: "directors", Value: 1},
			{Key: "imdbRating", Value: "$imdb.rating"},
			{Key: scoreField, Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: sortDoc(p.Sort)}},
	}
	if p.SuggestionLimit > 0 {
		movies = append(movies, bson.D{{Key: "$limit", Value: p.SuggestionLimit}})
	}

	facet := bson.D{{Key: movieFacet, Value: movies}}
	if p.WithMetadata {
		facet = append(facet, bson.E{Key: metaFacet, Value: bson.A{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "totalCount", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$imdb.rating"}}},
				{Key: "genres", Value: bson.D{{Key: "$push", Value: "$genres"}}},
				{Key: "years", Value: bson.D{{Key: "$addToSet", Value: "$year"}}},
			}}},
		}})
	}
	return facet
}

// sortDoc maps the plan's logical ordering fields onto the projected
// pipeline fields. All logical fields keep their names in the projection
// (imdb.rating is flattened to imdbRating there).
func sortDoc(key plan.SortKey) bson.D {
	return bson.D{
		{Key: sortField(key.Primary), Value: direction(key.PrimaryAsc)},
		{Key: sortField(key.Secondary), Value: direction(key.SecondaryAsc)},
	}
}

func sortField(logical string) string {
	switch logical {
	case plan.OrderByScore:
		return scoreField
	case plan.OrderByRating:
		return "imdbRating"
	default:
		return logical
	}
}

func direction(asc bool) int {
	if asc {
		return 1
	}
	return -1
}
