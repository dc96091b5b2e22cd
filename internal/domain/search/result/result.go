// Package result holds the raw faceted output of one engine pass, before
// pagination and metadata normalization.
package result

import "github.com/moovio/moviedex/internal/domain"

// Hit is a matched movie with its engine relevance score. The score stays
// beside the projection, not inside it, so stripping it is structural.
type Hit struct {
	Movie domain.Movie
	Score float64
}

// RawMetadata is the unnormalized metadata facet: genre groups arrive nested
// (one slice per matched document) and years unordered.
type RawMetadata struct {
	TotalCount  int
	AvgRating   float64
	GenreGroups [][]string
	Years       []int
}

// Facet is the complete output of a single aggregation round trip.
// Meta is nil when the engine matched nothing or the plan skipped the
// metadata facet.
type Facet struct {
	Hits []Hit
	Meta *RawMetadata
}
