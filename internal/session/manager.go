package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/auth"
	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Listener observes session state changes. Listeners receive a consistent
// snapshot after each transition; there is no partial-update window.
type Listener func(Session)

// Manager owns the session lifecycle: Restore, Login, Logout, FetchProfile.
// It is the only writer of session state.
type Manager struct {
	store  Store
	gw     *auth.Gateway
	logger zerolog.Logger

	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners []Listener
}

func NewManager(store Store, gw *auth.Gateway, logger zerolog.Logger) *Manager {
	return &Manager{
		store:    store,
		gw:       gw,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Subscribe registers a listener for session transitions.
func (m *Manager) Subscribe(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Get returns a snapshot of the session, if known.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

// Restore loads persisted token+role records at startup. Restored sessions
// are authenticated-but-profile-unknown; the cached profile is never trusted.
// Records whose token is visibly expired are dropped. Callers follow up with
// RefreshProfiles to resolve the unknown profiles asynchronously.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	recs, err := m.store.All(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, rec := range recs {
		if rec.Token == "" || !rec.Role.Valid() || tokenExpired(rec.Token) {
			if err := m.store.Delete(ctx, rec.ID); err != nil {
				m.logger.Warn().Err(err).Str("session_id", rec.ID).Msg("drop stale session record")
			}
			continue
		}
		m.mu.Lock()
		m.sessions[rec.ID] = &Session{
			ID:        rec.ID,
			Token:     rec.Token,
			Role:      rec.Role,
			Loading:   true,
			UpdatedAt: rec.UpdatedAt,
		}
		m.mu.Unlock()
		restored++
	}
	m.logger.Info().Int("restored", restored).Msg("sessions restored")
	return restored, nil
}

// RefreshProfiles fetches the profile for every session that does not have
// one yet. Meant to run off the startup path, after Restore.
func (m *Manager) RefreshProfiles(ctx context.Context) {
	m.mu.RLock()
	var pending []string
	for id, s := range m.sessions {
		if !s.ProfileKnown() {
			pending = append(pending, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range pending {
		if err := m.FetchProfile(ctx, id); err != nil {
			m.logger.Warn().Err(err).Str("session_id", id).Msg("profile refresh failed")
		}
	}
}

// Login authenticates against the role's token endpoint and, on success,
// stores token+role atomically before fetching the profile. priorID, when the
// caller was already holding a session, is cleared first so identities never
// mix. On failure no session state is left behind; the returned error carries
// the human-readable reason.
func (m *Manager) Login(ctx context.Context, priorID string, creds auth.Credentials) (Session, error) {
	if priorID != "" {
		if err := m.Logout(ctx, priorID); err != nil {
			return Session{}, err
		}
	}

	token, err := m.gw.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Role:      creds.Role,
		Loading:   true,
		UpdatedAt: time.Now().UTC(),
	}
	if err := m.store.Put(ctx, &Record{ID: s.ID, Token: s.Token, Role: s.Role, UpdatedAt: s.UpdatedAt}); err != nil {
		return Session{}, err
	}
	m.publish(s)

	// Follow-up profile read. A 401 here means the token we just obtained is
	// not actually usable; treat the session as invalid.
	if err := m.FetchProfile(ctx, s.ID); err != nil {
		if backend.IsKind(err, backend.KindInvalidCredentials) {
			return Session{}, err
		}
		// Other failures leave the session authenticated-profile-unknown;
		// the guard renders loading and a later navigation retries.
	}

	snap, _ := m.Get(s.ID)
	return snap, nil
}

// Logout clears token, role, profile, and error in one step. Local cleanup
// only; the backend contract has no revoke endpoint.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	_, existed := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if existed {
		m.notify(Session{ID: id})
		m.logger.Info().Str("session_id", id).Msg("session cleared")
	}
	return nil
}

// FetchProfile reads the current user via the session's role endpoint and
// replaces the profile wholesale. A 401 means the session is actually invalid
// and forces a logout.
func (m *Manager) FetchProfile(ctx context.Context, id string) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	var role auth.Role
	var token string
	if ok {
		role, token = s.Role, s.Token
	}
	m.mu.RUnlock()
	if !ok {
		return backend.Validation("no such session")
	}

	p, err := m.gw.Profile(ctx, role, token)
	if err != nil {
		if backend.IsKind(err, backend.KindInvalidCredentials) {
			if lerr := m.Logout(ctx, id); lerr != nil {
				m.logger.Warn().Err(lerr).Str("session_id", id).Msg("forced logout failed")
			}
			return err
		}
		m.update(id, func(s *Session) {
			s.LastError = err.Error()
		})
		return err
	}

	m.update(id, func(s *Session) {
		s.Profile = p
		s.Loading = false
		s.LastError = ""
	})
	return nil
}

// update applies fn under the lock and broadcasts the resulting snapshot.
func (m *Manager) update(id string, fn func(*Session)) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	fn(s)
	s.UpdatedAt = time.Now().UTC()
	snap := s.clone()
	m.mu.Unlock()
	m.notify(snap)
}

// publish installs a new session and broadcasts it.
func (m *Manager) publish(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	snap := s.clone()
	m.mu.Unlock()
	m.notify(snap)
}

func (m *Manager) notify(snap Session) {
	m.mu.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// tokenExpired inspects the stored access token's exp claim without verifying
// the signature; the backend remains the verifier. Opaque tokens pass through
// and get settled by the profile fetch instead.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
