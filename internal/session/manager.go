package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"member-portal/internal/logger"
)

// Manager drives the Anonymous -> Authenticated -> Destroyed lifecycle
// and keeps the cookie and the store entry in step.
type Manager struct {
	store  Store
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load resolves the request's session. Missing cookies and unknown or
// expired ids resolve to Anonymous. On a store error the returned snapshot
// is Anonymous but still carries the cookie's id so it can be destroyed.
func (m *Manager) Load(ctx context.Context, r *http.Request) (Session, error) {
	id := ReadCookie(r, m.cookie)
	if id == "" {
		return Anonymous(), nil
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{SessionID: id}, fmt.Errorf("session: load: %w", err)
	}
	if sess == nil {
		return Anonymous(), nil
	}
	return *sess, nil
}

// Issue authenticates the client as the given user. Any previous session
// entry is dropped so ids are never reused across logins.
func (m *Manager) Issue(
	ctx context.Context,
	w http.ResponseWriter,
	prev Session,
	name string,
	email string,
) (Session, error) {
	id, err := GenerateID()
	if err != nil {
		return prev, err
	}

	next := prev.Authenticate(id, name, email, m.now(), m.ttl)
	if err := m.store.Create(ctx, next); err != nil {
		return prev, fmt.Errorf("session: persist: %w", err)
	}

	if prev.SessionID != "" {
		if err := m.store.Delete(ctx, prev.SessionID); err != nil {
			logger.Warn("failed to drop previous session", map[string]any{
				"sid":   shortID(prev.SessionID),
				"error": err.Error(),
			})
		}
	}

	SetCookie(w, next.SessionID, next.ExpiresAt, m.cookie)
	return next, nil
}

// Destroy removes the session. The returned snapshot is Destroyed and the
// cookie is cleared even when the store delete fails; the error is still
// reported so the caller can surface it.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s Session) (Session, error) {
	ClearCookie(w, m.cookie)

	var err error
	if s.SessionID != "" {
		if delErr := m.store.Delete(ctx, s.SessionID); delErr != nil {
			err = fmt.Errorf("session: destroy: %w", delErr)
		}
	}
	return s.Destroy(), err
}
