package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"room-planner/internal/auth/models"
)

// ============================================================
// Session Manager
// ============================================================

type session struct {
	userID    string
	expiresAt time.Time
}

type SessionManager struct {
	mu     sync.Mutex
	tokens map[string]session // token -> session
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a manager; ttl <= 0 means sessions never
// expire.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		tokens: make(map[string]session),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) Issue(userID string) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	s := session{userID: userID}
	out := models.Session{Token: token, UserID: userID}
	if m.ttl > 0 {
		s.expiresAt = m.now().Add(m.ttl)
		out.ExpiresAt = s.expiresAt.UTC().Format(time.RFC3339)
	}
	m.tokens[token] = s
	return out
}

func (m *SessionManager) Resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.tokens[token]
	if !ok {
		return "", false
	}
	if !s.expiresAt.IsZero() && !m.now().Before(s.expiresAt) {
		delete(m.tokens, token)
		return "", false
	}
	return s.userID, true
}

// Revoke forgets token. Unknown tokens are ignored.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}
