// Package session holds the server-side mapping from opaque session tokens to
// authenticated accounts. Tokens travel only in an HTTP-only cookie; nothing
// about the account is stored client-side.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"payrollportal/internal/model"
)

type entry struct {
	account   model.Account
	expiresAt time.Time
}

// Manager is an in-memory session store safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a Manager whose sessions expire after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session for the account and returns its token.
func (m *Manager) Create(account model.Account) string {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = entry{
		account:   account,
		expiresAt: m.now().Add(m.ttl),
	}
	return token
}

// Get resolves a token to its account. Expired sessions are removed on
// lookup and reported as absent.
func (m *Manager) Get(token string) (model.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return model.Account{}, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.sessions, token)
		return model.Account{}, false
	}
	return e.account, true
}

// Destroy removes the session for the given token, if any.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// RevokeOwner removes every session belonging to the given owner. Used when
// an account is deleted so stale logins cannot outlive it.
func (m *Manager) RevokeOwner(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, e := range m.sessions {
		if e.account.OwnerID == ownerID {
			delete(m.sessions, token)
		}
	}
}
