package movies

import (
	"context"
	"fmt"

	dbmongo "github.com/moovio/moviedex/internal/db/mongo"
	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/plan"
	"github.com/moovio/moviedex/internal/domain/search/result"
)

// engine is the consumer interface for the search store.
type engine interface {
	Search(ctx context.Context, p *plan.Plan) (*dbmongo.SearchDocument, error)
}

// Repo implements usecase/search.Repository over the document engine.
type Repo struct {
	engine engine
}

// New creates a movie search repository.
func New(e engine) *Repo {
	return &Repo{engine: e}
}

// SearchMovies executes a plan and converts the raw facet document into the
// domain facet.
func (r *Repo) SearchMovies(ctx context.Context, p *plan.Plan) (*result.Facet, error) {
	doc, err := r.engine.Search(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	facet := &result.Facet{Hits: make([]result.Hit, 0, len(doc.Movies))}
	for i := range doc.Movies {
		facet.Hits = append(facet.Hits, toHit(&doc.Movies[i]))
	}

	if len(doc.Meta) > 0 {
		m := doc.Meta[0]
		facet.Meta = &result.RawMetadata{
			TotalCount:  m.TotalCount,
			AvgRating:   m.AvgRating,
			GenreGroups: m.Genres,
			Years:       m.Years,
		}
	}
	return facet, nil
}

// toHit maps an engine projection onto the domain read model, keeping the
// score outside the movie.
func toHit(d *dbmongo.MovieDocument) result.Hit {
	return result.Hit{
		Movie: domain.Movie{
			ID:         d.ID.Hex(),
			Title:      d.Title,
			Plot:       d.Plot,
			Poster:     d.Poster,
			Year:       d.Year,
			Runtime:    d.Runtime,
			Genres:     d.Genres,
			Directors:  d.Directors,
			Actors:     d.Cast,
			IMDBRating: d.IMDBRating,
		},
		Score: d.RelevanceScore,
	}
}
