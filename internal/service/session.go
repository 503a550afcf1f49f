package service

import (
	"sync"
	"time"

	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/util"
)

type sessionEntry struct {
	identity  model.Identity
	expiresAt time.Time
}

// SessionManager keeps authenticated identities in memory only, keyed by an
// HMAC of the issued token. Identities are deliberately not part of the
// durable document; restarting the server logs everyone out, nothing more.
type SessionManager struct {
	secret string
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:   secret,
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Create issues an opaque token for the identity.
func (m *SessionManager) Create(identity model.Identity) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[util.HmacSHA256(m.secret, token)] = sessionEntry{
		identity:  identity,
		expiresAt: m.now().Add(m.ttl),
	}
	return token, nil
}

// Validate returns the identity for a live session token, or nil.
func (m *SessionManager) Validate(token string) *model.Identity {
	if token == "" {
		return nil
	}
	key := util.HmacSHA256(m.secret, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[key]
	if !ok {
		return nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.sessions, key)
		return nil
	}
	identity := entry.identity
	return &identity
}

func (m *SessionManager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, util.HmacSHA256(m.secret, token))
}
