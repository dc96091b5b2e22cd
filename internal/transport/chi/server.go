package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/moovio/moviedex/internal/domain"
	"github.com/moovio/moviedex/internal/domain/search/query"
	authuc "github.com/moovio/moviedex/internal/usecase/auth"
	healthuc "github.com/moovio/moviedex/internal/usecase/health"
	searchuc "github.com/moovio/moviedex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server hand-wires the HTTP API onto a chi router.
type Server struct {
	search        *searchuc.Service
	auth          *authuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	auth *authuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		auth:   auth,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		engineErrorHandler,
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidPagination, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized),
		sentinelHandler(domain.ErrInvalidToken, http.StatusForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chiv5.Router) {
	r.Get("/movies/search", s.SearchMovies)
	r.Get("/movies/autocomplete", s.Autocomplete)
	r.Post("/auth/register", s.RegisterUser)
	r.Post("/auth/login", s.Login)
	r.Get("/auth/profile", s.Profile)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchMovies handles GET /movies/search.
func (s *Server) SearchMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := query.Raw{
		Text:   q.Get("q"),
		Page:   q.Get("page"),
		Limit:  q.Get("limit"),
		Genre:  q.Get("genre"),
		Year:   q.Get("year"),
		Rating: q.Get("rating"),
		SortBy: q.Get("sortBy"),
	}

	resp, err := s.search.Search(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, resp)
}

// autocompleteResponse keeps the autocomplete payload shape aligned with search.
type autocompleteResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Pagination  searchuc.Pagination `json:"pagination"`
}

// Autocomplete handles GET /movies/autocomplete.
func (s *Server) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	suggestions, err := s.search.Autocomplete(r.Context(), q.Get("q"), q.Get("limit"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	writeData(w, http.StatusOK, autocompleteResponse{
		Suggestions: suggestions,
		Pagination:  searchuc.Pagination{CurrentPage: 1, TotalPages: 1},
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser handles POST /auth/register.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{"user": user})
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"token": token})
}

// Profile handles GET /auth/profile.
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	user, err := s.auth.Profile(r.Context(), claims.UserID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"user": user})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidPagination,
		domain.ErrInvalidFilter,
		domain.ErrAlreadyExists,
		domain.ErrInvalidCredentials,
		domain.ErrInvalidToken,
		domain.ErrNotFound,
		domain.ErrEngine,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// engineErrorHandler handles ErrEngine with the underlying cause in a separate field.
func engineErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrEngine) {
		return false
	}
	detail := strings.TrimPrefix(err.Error(), domain.ErrEngine.Error()+": ")
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": msg,
		"error":   detail,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
