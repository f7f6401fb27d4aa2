package session

import (
	"context"
	"errors"
)

// ErrAbsent is returned by Get when the key holds no value.
var ErrAbsent = errors.New("session: key absent")

// Store is session-scoped key-value string storage.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Backend holds many sessions and hands out a Store per session id.
type Backend interface {
	Scoped(sessionID string) Store
	Close() error
}
