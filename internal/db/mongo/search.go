package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moovio/moviedex/internal/domain/search/plan"
)

// MovieDocument is one projected hit inside the movie facet.
type MovieDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Title          string             `bson:"title"`
	Plot           string             `bson:"plot"`
	Poster         string             `bson:"poster"`
	Year           int                `bson:"year"`
	Runtime        int                `bson:"runtime"`
	Genres         []string           `bson:"genres"`
	Cast           []string           `bson:"cast"`
	Directors      []string           `bson:"directors"`
	IMDBRating     float64            `bson:"imdbRating"`
	RelevanceScore float64            `bson:"relevanceScore"`
}

// MetaDocument is the metadata facet aggregate. The engine emits at most one;
// zero means the match set was empty.
type MetaDocument struct {
	TotalCount int        `bson:"totalCount"`
	AvgRating  float64    `bson:"avgRating"`
	Genres     [][]string `bson:"genres"`
	Years      []int      `bson:"years"`
}

// SearchDocument is the single document an aggregation pass returns.
type SearchDocument struct {
	Movies []MovieDocument `bson:"movies"`
	Meta   []MetaDocument  `bson:"meta"`
}

// Engine executes search plans against the movie collection.
type Engine struct {
	movies *mongo.Collection
	index  string
}

// NewEngine creates a search engine over a movie collection and its Atlas
// Search index.
func NewEngine(store *Store, collection, index string) *Engine {
	return &Engine{movies: store.Collection(collection), index: index}
}

// Search serializes the plan and runs one aggregation round trip. A pass that
// matches nothing still yields a SearchDocument with empty facets.
func (e *Engine) Search(ctx context.Context, p *plan.Plan) (*SearchDocument, error) {
	cursor, err := e.movies.Aggregate(ctx, BuildSearchPipeline(e.index, p))
	if err != nil {
		return nil, &Error{Op: OpAggregate, Err: err}
	}
	defer cursor.Close(ctx)

	var doc SearchDocument
	if cursor.Next(ctx) {
		if err := cursor.Decode(&doc); err != nil {
			return nil, &Error{Op: OpAggregate, Err: err}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, &Error{Op: OpAggregate, Err: err}
	}
	return &doc, nil
}
