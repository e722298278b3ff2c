package domain

import "context"

// KeyValueStore is the persistent string store backing the session.
// Get reports false when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SessionClient is the part of the API the session store depends on
type SessionClient interface {
	// SetToken attaches the bearer token to all future requests; "" detaches it
	SetToken(token string)

	GetAuthenticatedUser(ctx context.Context) (*User, error)
	GetMasterData(ctx context.Context) (*MasterData, error)
}
