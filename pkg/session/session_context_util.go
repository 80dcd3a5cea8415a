// Package session carries the session id that selects a ledger through request contexts.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const SessionKey contextKey = "session"

// Header carries the session id of an HTTP request.
const Header = "X-Session-Id"

var ErrNoSession = errors.New("session not found")

// CurrentId retrieves the session id from the context. Returns ErrNoSession if not present.
func CurrentId(ctx context.Context) (string, error) {
	id, ok := ctx.Value(SessionKey).(string)
	if !ok || id == "" {
		log.Trace("session not found in context")
		return "", ErrNoSession
	}
	return id, nil
}

func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionKey, id)
}

// NewId returns a fresh random session id.
func NewId() string {
	return uuid.NewString()
}

// Valid reports whether id has the shape of a session id.
func Valid(id string) bool {
	_, ok := Normalize(id)
	return ok
}

// Normalize returns the canonical lowercase hyphenated form of id, so every
// spelling of the same UUID selects the same ledger.
func Normalize(id string) (string, bool) {
	if len(id) > 64 {
		return "", false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
