package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chiv5 "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/plan"
	"github.com/moovio/moviedex/internal/domain/search/result"
	authuc "github.com/moovio/moviedex/internal/usecase/auth"
	healthuc "github.com/moovio/moviedex/internal/usecase/health"
	searchuc "github.com/moovio/moviedex/internal/usecase/search"
)

// --- Mocks ---

type mockSearchRepo struct {
	facet *result.Facet
	err   error
}

func (m *mockSearchRepo) SearchMovies(_ context.Context, _ *plan.Plan) (*result.Facet, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.facet, nil
}

type mockUsers struct {
	users map[string]domain.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{users: map[string]domain.User{}}
}

func (m *mockUsers) Create(_ context.Context, email, passwordHash string) (domain.User, error) {
	if _, ok := m.users[email]; ok {
		return domain.User{}, domain.ErrAlreadyExists
	}
	u := domain.User{ID: "u-" + email, Email: email, PasswordHash: passwordHash}
	m.users[email] = u
	return u, nil
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type testEnv struct {
	router chiv5.Router
	users  *mockUsers
	auth   *authuc.Service
	repo   *mockSearchRepo
	dbPing *mockPinger
}

func newTestEnv() *testEnv {
	repo := &mockSearchRepo{facet: &result.Facet{}}
	users := newMockUsers()
	dbPing := &mockPinger{}

	auth := authuc.New(users, authuc.NewTokenManager("test-secret", time.Minute))
	srv := NewServer(
		searchuc.New(repo, searchuc.Options{}),
		auth,
		healthuc.New(dbPing, nil),
		zap.NewNop(),
	)

	r := chiv5.NewRouter()
	r.Use(JWTAuthMiddleware(auth))
	srv.Register(r)

	return &testEnv{router: r, users: users, auth: auth, repo: repo, dbPing: dbPing}
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	if _, err := e.auth.Register(context.Background(), email, "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := e.auth.Login(context.Background(), email, "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// --- Tests ---

func TestSearchMovies_OK(t *testing.T) {
	env := newTestEnv()
	env.repo.facet = &result.Facet{
		Hits: []result.Hit{
			{Movie: domain.Movie{ID: "1", Title: "The Matrix", Year: 1999}, Score: 9},
		},
		Meta: &result.RawMetadata{TotalCount: 1, AvgRating: 8.7},
	}
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/movies/search?q=matrix", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("expected success envelope, got %v", body)
	}
	data := body["data"].(map[string]any)
	movies := data["movies"].([]any)
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
	if _, ok := data["pagination"]; !ok {
		t.Error("expected pagination block")
	}
	if _, ok := data["metadata"]; !ok {
		t.Error("expected metadata block")
	}
}

func TestSearchMovies_MissingQuery(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/movies/search", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("expected failure envelope, got %v", body)
	}
	if body["message"] != domain.ErrInvalidQuery.Error() {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestSearchMovies_InvalidPagination(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/movies/search?q=matrix&page=0", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchMovies_EngineError(t *testing.T) {
	env := newTestEnv()
	env.repo.err = errors.New("index unavailable")
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/movies/search?q=matrix", token, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != domain.ErrEngine.Error() {
		t.Errorf("unexpected message %q", body["message"])
	}
	detail, _ := body["error"].(string)
	if !strings.Contains(detail, "index unavailable") {
		t.Errorf("expected engine cause in error field, got %q", detail)
	}
}

func TestAutocomplete_OK(t *testing.T) {
	env := newTestEnv()
	env.repo.facet = &result.Facet{Hits: []result.Hit{
		{Movie: domain.Movie{ID: "1", Title: "The Matrix", Year: 1999}, Score: 5},
	}}
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/movies/autocomplete?q=mat", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	suggestions := data["suggestions"].([]any)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	first := suggestions[0].(map[string]any)
	if first["title"] != "The Matrix (1999)" {
		t.Errorf("unexpected suggestion title %q", first["title"])
	}
	pagination := data["pagination"].(map[string]any)
	if pagination["currentPage"] != float64(1) || pagination["totalPages"] != float64(1) {
		t.Errorf("unexpected pagination %v", pagination)
	}
}

func TestAutocomplete_EmptySuggestions(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/movies/autocomplete?q=zzz", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if suggestions, ok := data["suggestions"].([]any); !ok || len(suggestions) != 0 {
		t.Errorf("expected empty suggestion list, got %v", data["suggestions"])
	}
}

func TestRegister_OK(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/auth/register", "", `{"email":"bob@example.com","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	user := data["user"].(map[string]any)
	if user["email"] != "bob@example.com" {
		t.Errorf("unexpected user %v", user)
	}
	for _, k := range []string{"passwordHash", "password_hash", "password"} {
		if _, ok := user[k]; ok {
			t.Errorf("user payload leaks %q", k)
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv()
	env.token(t, "bob@example.com")

	rec := env.do(t, http.MethodPost, "/auth/register", "", `{"email":"bob@example.com","password":"pw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegister_BadBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/auth/register", "", `{broken`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogin_OK(t *testing.T) {
	env := newTestEnv()
	env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/auth/login", "", `{"email":"alice@example.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if token, _ := data["token"].(string); token == "" {
		t.Error("expected a token in the response")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv()
	env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/auth/login", "", `{"email":"alice@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProfile_OK(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/auth/profile", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	user := data["user"].(map[string]any)
	if user["email"] != "alice@example.com" {
		t.Errorf("unexpected user %v", user)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv()

	for _, target := range []string{"/movies/search?q=matrix", "/movies/autocomplete?q=ma", "/auth/profile"} {
		rec := env.do(t, http.MethodGet, target, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", target, rec.Code)
		}
	}
}

func TestProtectedRoutes_RejectBadToken(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/movies/search?q=matrix", "not-a-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid token, got %d", rec.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("unexpected status %v", body["status"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	env := newTestEnv()
	env.dbPing.err = errors.New("conn refused")

	rec := env.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "degraded" {
		t.Errorf("unexpected status %v", body["status"])
	}
}
