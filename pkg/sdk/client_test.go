package moviedex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL), srv
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func TestSearch(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "matrix" || q.Get("genre") != "Action" || q.Get("limit") != "10" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Has("year") || q.Has("rating") || q.Has("page") {
			t.Errorf("unset params must not be sent: %v", q)
		}
		writeEnvelope(w, http.StatusOK, SearchResult{
			Movies:     []Movie{{ID: "1", Title: "The Matrix", Year: 1999}},
			Metadata:   Metadata{TotalCount: 1, AvgRating: 8.7},
			Pagination: Pagination{CurrentPage: 1, TotalPages: 1, TotalResults: 1},
		})
	})

	res, err := client.Search(context.Background(), SearchParams{Query: "matrix", Genre: "Action", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Movies) != 1 || res.Movies[0].Title != "The Matrix" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Metadata.TotalCount != 1 {
		t.Errorf("unexpected metadata %+v", res.Metadata)
	}
}

func TestSearch_BadRequest(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "search query is required",
		})
	})

	_, err := client.Search(context.Background(), SearchParams{})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "search query is required" {
		t.Errorf("expected server message, got %v", err)
	}
}

func TestSearch_ServerError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "error performing search",
			"error":   "index unavailable",
		})
	})

	_, err := client.Search(context.Background(), SearchParams{Query: "matrix"})
	if !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "index unavailable" {
		t.Errorf("expected engine detail, got %v", err)
	}
}

func TestAutocomplete(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/autocomplete" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"suggestions": []Suggestion{{ID: "1", Title: "The Matrix (1999)"}},
			"pagination":  Pagination{CurrentPage: 1, TotalPages: 1},
		})
	})

	suggestions, err := client.Autocomplete(context.Background(), "mat", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Title != "The Matrix (1999)" {
		t.Errorf("unexpected suggestions %+v", suggestions)
	}
}

func TestLoginAndToken(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds["email"] != "alice@example.com" {
				t.Errorf("unexpected credentials %v", creds)
			}
			writeEnvelope(w, http.StatusOK, map[string]string{"token": "tok-123"})
		case "/auth/profile":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			writeEnvelope(w, http.StatusOK, map[string]any{
				"user": User{ID: "u1", Email: "alice@example.com"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	token, err := client.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token %q", token)
	}

	user, err := client.WithToken(token).Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestRegister(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, map[string]any{
			"user": User{ID: "u1", Email: "bob@example.com"},
		})
	})

	user, err := client.Register(context.Background(), "bob@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestHealth_Degraded(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "degraded",
			"checks": map[string]string{"database": "error"},
		})
	})

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "degraded" || status.Checks["database"] != "error" {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestHealth_OK(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"checks": map[string]string{"database": "ok"},
		})
	})

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("unexpected status %+v", status)
	}
}
