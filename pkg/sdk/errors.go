package moviedex

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API failures. Use errors.Is() to check.
var (
	ErrBadRequest   = errors.New("moviedex: bad request")
	ErrUnauthorized = errors.New("moviedex: unauthorized")
	ErrForbidden    = errors.New("moviedex: forbidden")
	ErrNotFound     = errors.New("moviedex: not found")
	ErrServer       = errors.New("moviedex: server error")
)

// APIError carries the status code and server-side message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string

	body []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("moviedex: %s (status %d): %s", e.Message, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("moviedex: %s (status %d)", e.Message, e.StatusCode)
}

// Unwrap maps the status code onto a sentinel so callers can errors.Is().
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	case e.StatusCode >= http.StatusBadRequest:
		return ErrBadRequest
	}
	return nil
}

func apiErrorFrom(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: payload.Message, Detail: payload.Error, body: body}
}
