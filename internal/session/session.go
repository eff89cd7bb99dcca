// Package session is the single source of truth for who is logged in and as
// what role. State survives gateway restarts through a durable Store; the
// in-memory view is mutated only through the Manager so every observer sees
// consistent snapshots.
package session

import (
	"context"
	"time"

	"github.com/rxgate/rxgate/internal/auth"
)

// Session is one authenticated (or authenticating) identity. Token and Role
// are set together or not at all; the only exception is the in-flight window
// inside a login call, which is never published to observers.
type Session struct {
	ID        string
	Token     string
	Role      auth.Role
	Profile   *auth.Profile
	Loading   bool
	LastError string
	UpdatedAt time.Time
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.Role.Valid()
}

// ProfileKnown reports whether the authenticated user's profile has been
// fetched since the token was obtained or restored.
func (s *Session) ProfileKnown() bool {
	return s != nil && s.Profile != nil
}

// clone returns a snapshot safe to hand to observers.
func (s *Session) clone() Session {
	out := *s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

// Record is the durable shape of a session: token and role only. The profile
// is never trusted across restarts and is refetched instead.
type Record struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Role      auth.Role `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists session records. Implementations must tolerate concurrent
// use from multiple requests.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*Record, error)
}
