package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/plan"
	"github.com/moovio/moviedex/internal/domain/search/query"
	"github.com/moovio/moviedex/internal/domain/search/result"
	"github.com/moovio/moviedex/internal/logger"
	"github.com/moovio/moviedex/internal/metrics"
)

// Defaults, overridable via Options.
const (
	DefaultCandidateLimit  = 100
	DefaultSuggestionLimit = 10
	DefaultEngineTimeout   = 5 * time.Second
)

// Options tunes the search service.
type Options struct {
	// CandidateLimit bounds the engine-side match set per query.
	CandidateLimit int
	// SuggestionLimit caps autocomplete results.
	SuggestionLimit int
	// EngineTimeout bounds the single engine round trip.
	EngineTimeout time.Duration
}

// Service orchestrates movie search: validation, plan construction, the
// engine round trip, and result shaping. It never mutates stored data.
type Service struct {
	repo            Repository
	cache           ResponseCache
	candidateLimit  int
	suggestionLimit int
	engineTimeout   time.Duration
}

// New creates a search service.
func New(repo Repository, opts Options) *Service {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = DefaultCandidateLimit
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = DefaultSuggestionLimit
	}
	if opts.EngineTimeout <= 0 {
		opts.EngineTimeout = DefaultEngineTimeout
	}
	return &Service{
		repo:            repo,
		candidateLimit:  opts.CandidateLimit,
		suggestionLimit: opts.SuggestionLimit,
		engineTimeout:   opts.EngineTimeout,
	}
}

// WithCache attaches an optional response cache.
func (s *Service) WithCache(c ResponseCache) *Service {
	s.cache = c
	return s
}

// Search validates the raw parameters, runs one faceted engine pass, and
// shapes the result. Any engine failure, timeouts included, surfaces as
// ErrEngine; no partial result leaves this method.
func (s *Service) Search(ctx context.Context, raw query.Raw) (*Response, error) {
	q, err := query.New(raw)
	if err != nil {
		return nil, err
	}

	key := cacheKey(&q)
	if resp := s.cachedResponse(ctx, key); resp != nil {
		return resp, nil
	}

	p := plan.Build(&q, s.candidateLimit)
	facet, err := s.execute(ctx, p)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrEngine, err)
	}

	resp := shape(facet, q.Page(), q.Limit())
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	s.storeResponse(ctx, key, resp)
	return resp, nil
}

// Autocomplete runs the narrow title-only plan and formats suggestions.
// rawLimit is permissive: anything unusable falls back to the configured cap.
func (s *Service) Autocomplete(ctx context.Context, text, rawLimit string) ([]domain.Suggestion, error) {
	limit := s.suggestionLimit
	if n, err := strconv.Atoi(rawLimit); err == nil && n >= 1 && n < limit {
		limit = n
	}

	p, err := plan.BuildAutocomplete(strings.TrimSpace(text), limit, s.candidateLimit)
	if err != nil {
		return nil, err
	}

	facet, err := s.execute(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEngine, err)
	}

	suggestions := make([]domain.Suggestion, 0, len(facet.Hits))
	for _, h := range facet.Hits {
		suggestions = append(suggestions, domain.NewSuggestion(h.Movie))
	}
	return suggestions, nil
}

// execute runs the single engine round trip under a bounded timeout.
func (s *Service) execute(ctx context.Context, p *plan.Plan) (*result.Facet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	start := time.Now()
	facet, err := s.repo.SearchMovies(ctx, p)
	metrics.EngineDuration.Observe(time.Since(start).Seconds())
	return facet, err
}

// cachedResponse returns a previously shaped response, or nil. Cache failures
// are logged and treated as misses.
func (s *Service) cachedResponse(ctx context.Context, key string) *Response {
	if s.cache == nil {
		return nil
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Warn("search cache get failed", zap.Error(err))
		metrics.SearchCacheTotal.WithLabelValues("error").Inc()
		return nil
	}
	if !ok {
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
		return nil
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.FromContext(ctx).Warn("search cache entry corrupt", zap.Error(err))
		metrics.SearchCacheTotal.WithLabelValues("error").Inc()
		return nil
	}
	metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
	return &resp
}

// storeResponse writes the shaped response to the cache, best effort.
func (s *Service) storeResponse(ctx context.Context, key string, resp *Response) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		logger.FromContext(ctx).Warn("search cache set failed", zap.Error(err))
		metrics.SearchCacheTotal.WithLabelValues("error").Inc()
	}
}
