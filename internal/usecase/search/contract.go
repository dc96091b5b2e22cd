package search

import (
	"context"

	"github.com/moovio/moviedex/internal/domain/search/plan"
	"github.com/moovio/moviedex/internal/domain/search/result"
)

// Repository executes search plans against the storage engine.
type Repository interface {
	SearchMovies(ctx context.Context, p *plan.Plan) (*result.Facet, error)
}

// ResponseCache stores serialized search responses. Implementations must
// treat a miss as (nil, false, nil).
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
