package session

import (
	"context"
	"time"
)

type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateDestroyed:
		return "destroyed"
	default:
		return "anonymous"
	}
}

// Session is an immutable snapshot of a client's session. Transitions
// return a new value instead of mutating the receiver.
type Session struct {
	SessionID     string    `json:"session_id"`
	Authenticated bool      `json:"authenticated"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`

	destroyed bool
}

func Anonymous() Session {
	return Session{}
}

func (s Session) State() State {
	switch {
	case s.destroyed:
		return StateDestroyed
	case s.Authenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// Authenticate returns the authenticated successor of s under a new id.
func (s Session) Authenticate(id, name, email string, now time.Time, ttl time.Duration) Session {
	return Session{
		SessionID:     id,
		Authenticated: true,
		UserName:      name,
		UserEmail:     email,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
}

// Destroy returns the terminal state. Identity fields are dropped.
func (s Session) Destroy() Session {
	return Session{SessionID: s.SessionID, destroyed: true}
}

// Store defines how sessions are persisted. Expiry is the store's job:
// Get must not return a session past its ExpiresAt.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
