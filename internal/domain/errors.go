package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrServerOffline indicates the API server is unreachable
	ErrServerOffline = errors.New("api server is unreachable")

	// ErrAuthFailed indicates the token or credentials were rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotAuthenticated indicates a call that needs a token was made without one
	ErrNotAuthenticated = errors.New("no authentication token set")

	// ErrInvalidTaxonomy indicates master data categories are not two levels deep
	ErrInvalidTaxonomy = errors.New("invalid category taxonomy")
)
