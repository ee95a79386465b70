package model

import (
	"context"
	"time"

	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Session is the owner of one append-only assessment history. It lives
// until it has been idle for longer than the configured TTL.
type Session struct {
	ID         types.SessionID
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// NewSession creates a session first seen at now
func NewSession(id types.SessionID, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

// IsIdle reports whether the session has not been seen within ttl
func (s *Session) IsIdle(now time.Time, ttl time.Duration) bool {
	return s.LastSeenAt.Before(now.Add(-ttl))
}

type ctxSessionKey struct{}

// ContextWithSession returns a copy of ctx carrying the session
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, s)
}

// SessionFromContext returns the session stored in ctx, or nil
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxSessionKey{}).(*Session)
	return s
}
