package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/plan"
	"github.com/moovio/moviedex/internal/domain/search/query"
	"github.com/moovio/moviedex/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	facet    *result.Facet
	err      error
	called   bool
	lastPlan *plan.Plan
}

func (m *mockRepo) SearchMovies(_ context.Context, p *plan.Plan) (*result.Facet, error) {
	m.called = true
	m.lastPlan = p
	if m.err != nil {
		return nil, m.err
	}
	return m.facet, nil
}

type mockCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	data, ok := m.entries[key]
	return data, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	return nil
}

func facetOf(n, total int) *result.Facet {
	f := &result.Facet{Meta: &result.RawMetadata{TotalCount: total}}
	for i := 0; i < n; i++ {
		f.Hits = append(f.Hits, result.Hit{
			Movie: domain.Movie{ID: string(rune('a' + i)), Title: "Movie", Year: 1999},
			Score: float64(n - i),
		})
	}
	return f
}

// --- Tests ---

func TestSearch_EmptyQueryDoesNotReachEngine(t *testing.T) {
	repo := &mockRepo{facet: facetOf(0, 0)}
	svc := New(repo, Options{})

	_, err := svc.Search(context.Background(), query.Raw{Text: ""})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if repo.called {
		t.Error("engine must not be called for an invalid query")
	}
}

func TestSearch_InvalidPaginationDoesNotReachEngine(t *testing.T) {
	repo := &mockRepo{facet: facetOf(0, 0)}
	svc := New(repo, Options{})

	_, err := svc.Search(context.Background(), query.Raw{Text: "matrix", Limit: "0"})
	if !errors.Is(err, domain.ErrInvalidPagination) {
		t.Fatalf("expected ErrInvalidPagination, got %v", err)
	}
	if repo.called {
		t.Error("engine must not be called for invalid pagination")
	}
}

func TestSearch_PaginatesInMemory(t *testing.T) {
	repo := &mockRepo{facet: facetOf(12, 12)}
	svc := New(repo, Options{})

	resp, err := svc.Search(context.Background(), query.Raw{Text: "matrix", Page: "2", Limit: "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Movies) != 5 {
		t.Fatalf("expected 5 movies, got %d", len(resp.Movies))
	}
	p := resp.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 3 || !p.HasNextPage || !p.HasPrevPage {
		t.Errorf("unexpected pagination: %+v", p)
	}
	if repo.lastPlan.CandidateLimit != DefaultCandidateLimit {
		t.Errorf("expected candidate limit %d, got %d", DefaultCandidateLimit, repo.lastPlan.CandidateLimit)
	}
}

func TestSearch_ZeroMatches(t *testing.T) {
	repo := &mockRepo{facet: &result.Facet{}}
	svc := New(repo, Options{})

	resp, err := svc.Search(context.Background(), query.Raw{Text: "matrix", Page: "1", Limit: "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Movies) != 0 || resp.Metadata.TotalCount != 0 || resp.Pagination.TotalPages != 0 {
		t.Errorf("expected empty response, got %+v", resp)
	}
}

func TestSearch_ScoreNeverLeaves(t *testing.T) {
	repo := &mockRepo{facet: facetOf(3, 3)}
	svc := New(repo, Options{})

	resp, err := svc.Search(context.Background(), query.Raw{Text: "matrix"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, m := range decoded["movies"].([]any) {
		fields := m.(map[string]any)
		for _, k := range []string{"score", "relevanceScore", "textScore"} {
			if _, ok := fields[k]; ok {
				t.Errorf("movie payload leaks scoring field %q", k)
			}
		}
	}
}

func TestSearch_EngineErrorSurfaced(t *testing.T) {
	engineErr := errors.New("index unavailable")
	repo := &mockRepo{err: engineErr}
	svc := New(repo, Options{})

	_, err := svc.Search(context.Background(), query.Raw{Text: "matrix"})
	if !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
	if !errors.Is(err, engineErr) {
		t.Error("original engine error must stay in the chain for diagnostics")
	}
}

func TestSearch_CacheHitSkipsEngine(t *testing.T) {
	repo := &mockRepo{facet: facetOf(3, 3)}
	cache := newMockCache()
	svc := New(repo, Options{}).WithCache(cache)

	raw := query.Raw{Text: "matrix", Page: "1", Limit: "10"}
	first, err := svc.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.sets)
	}

	repo.called = false
	second, err := svc.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.called {
		t.Error("cache hit must skip the engine")
	}
	if second.Pagination != first.Pagination {
		t.Errorf("cached pagination differs: %+v vs %+v", second.Pagination, first.Pagination)
	}
}

func TestSearch_CacheFailureDegradesToEngine(t *testing.T) {
	repo := &mockRepo{facet: facetOf(1, 1)}
	cache := newMockCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = cache.getErr
	svc := New(repo, Options{}).WithCache(cache)

	resp, err := svc.Search(context.Background(), query.Raw{Text: "matrix"})
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if !repo.called || len(resp.Movies) != 1 {
		t.Error("expected engine fallback on cache failure")
	}
}

func TestAutocomplete(t *testing.T) {
	repo := &mockRepo{facet: &result.Facet{Hits: []result.Hit{
		{Movie: domain.Movie{ID: "1", Title: "The Matrix", Year: 1999}, Score: 5},
		{Movie: domain.Movie{ID: "2", Title: "The Matrix Reloaded", Year: 2003}, Score: 4},
	}}}
	svc := New(repo, Options{})

	suggestions, err := svc.Autocomplete(context.Background(), "mat", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Title != "The Matrix (1999)" {
		t.Errorf("expected formatted title, got %q", suggestions[0].Title)
	}
	if suggestions[0].ID != "1" {
		t.Errorf("suggestion must carry the stable id, got %q", suggestions[0].ID)
	}

	p := repo.lastPlan
	if p.WithMetadata {
		t.Error("autocomplete must not request the metadata facet")
	}
	if p.SuggestionLimit != 5 {
		t.Errorf("expected suggestion limit 5, got %d", p.SuggestionLimit)
	}
}

func TestAutocomplete_EmptyText(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Options{})

	_, err := svc.Autocomplete(context.Background(), "", "")
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if repo.called {
		t.Error("engine must not be called for an empty autocomplete query")
	}
}

func TestAutocomplete_LimitFallsBackToConfiguredCap(t *testing.T) {
	repo := &mockRepo{facet: &result.Facet{}}
	svc := New(repo, Options{SuggestionLimit: 10})

	for _, raw := range []string{"", "abc", "-3", "500"} {
		if _, err := svc.Autocomplete(context.Background(), "mat", raw); err != nil {
			t.Fatalf("limit %q: unexpected error: %v", raw, err)
		}
		if repo.lastPlan.SuggestionLimit != 10 {
			t.Errorf("limit %q: expected cap 10, got %d", raw, repo.lastPlan.SuggestionLimit)
		}
	}
}
