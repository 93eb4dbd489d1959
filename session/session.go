// Package session holds the operator's credentials between calls: the bearer
// token and the cached display name. It is created at login, read on every
// outgoing request and destroyed at logout or when the backend answers 401.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoSession = errors.New("no active session")

type Session struct {
	Token       string    `json:"token"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store is the get/set/clear contract every backend implements. Get returns
// ErrNoSession when nothing is stored.
type Store interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Token returns the stored bearer token, or "" when there is none.
func Token(ctx context.Context, store Store) (string, error) {
	s, err := store.Get(ctx)
	if errors.Is(err, ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// New builds a session from a freshly issued token, taking the expiry and
// display name from the token claims when the backend did not send them.
func New(token, displayName, email string, expiresAt *time.Time) Session {
	s := Session{Token: token, DisplayName: displayName, Email: email}
	if expiresAt != nil {
		s.ExpiresAt = *expiresAt
	}
	if claims, ok := InspectToken(token); ok {
		if s.ExpiresAt.IsZero() {
			s.ExpiresAt = claims.ExpiresAt
		}
		if s.DisplayName == "" {
			s.DisplayName = claims.Name
		}
		if s.Email == "" {
			s.Email = claims.Email
		}
	}
	return s
}

type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Session{}, ErrNoSession
	}
	return *m.session, nil
}

func (m *MemoryStore) Set(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
