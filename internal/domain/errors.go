package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing or empty search query.
	ErrInvalidQuery = errors.New("search query is required")
	// ErrInvalidPagination signals non-numeric or out-of-range page/limit parameters.
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	// ErrInvalidFilter signals a non-numeric year or rating filter value.
	ErrInvalidFilter = errors.New("invalid filter value")
	// ErrEngine signals a storage/search engine failure or a malformed result shape.
	ErrEngine = errors.New("error performing search")

	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken signals a rejected bearer token.
	ErrInvalidToken = errors.New("invalid token")
)
