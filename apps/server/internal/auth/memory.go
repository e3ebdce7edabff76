package auth

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager keeps players and sessions in process memory. It is the
// default backend for the single-binary deployment; the sqlite and
// postgres backends cover the same Service contract.
type Manager struct {
	mu sync.Mutex

	nextPlayerID uint64
	sessionTTL   time.Duration
	players      map[uint64]*playerRecord
	byUsername   map[string]uint64
	sessions     map[string]memSession
}

type playerRecord struct {
	ID           uint64
	Username     string
	PasswordHash []byte // nil for guests
	LastSeen     time.Time
}

type memSession struct {
	PlayerID  uint64
	ExpiresAt time.Time
}

func NewManager() *Manager {
	return &Manager{
		nextPlayerID: 1000,
		sessionTTL:   defaultSessionTTL,
		players:      make(map[uint64]*playerRecord),
		byUsername:   make(map[string]uint64),
		sessions:     make(map[string]memSession),
	}
}

func (m *Manager) Close() error { return nil }

func (m *Manager) Register(username, password string) (uint64, string, error) {
	if err := validateUsername(username); err != nil {
		return 0, "", err
	}
	if err := validatePassword(password); err != nil {
		return 0, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}
	normalized := normalizeUsername(username)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byUsername[normalized]; taken {
		return 0, "", ErrUsernameTaken
	}
	p := m.createPlayerLocked(normalized, hash)
	return p.ID, m.issueSessionLocked(p.ID, time.Now()), nil
}

func (m *Manager) Login(username, password string) (uint64, string, error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byUsername[normalized]
	if !ok {
		return 0, "", ErrInvalidCredentials
	}
	p := m.players[id]
	// Guests carry no hash and cannot log in by password.
	if len(p.PasswordHash) == 0 {
		return 0, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	now := time.Now()
	p.LastSeen = now
	return p.ID, m.issueSessionLocked(p.ID, now), nil
}

func (m *Manager) ResolveOrCreateGuest(token string) (uint64, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if id, _, ok := m.resolveLocked(token, now); ok {
		return id, token, true
	}

	p := m.createPlayerLocked(guestUsername(), nil)
	return p.ID, m.issueSessionLocked(p.ID, now), false
}

func (m *Manager) ResolveSession(token string) (uint64, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveLocked(token, time.Now())
}

func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

func (m *Manager) createPlayerLocked(username string, hash []byte) *playerRecord {
	m.nextPlayerID++
	p := &playerRecord{
		ID:           m.nextPlayerID,
		Username:     username,
		PasswordHash: hash,
		LastSeen:     time.Now(),
	}
	m.players[p.ID] = p
	m.byUsername[username] = p.ID
	return p
}

func (m *Manager) issueSessionLocked(playerID uint64, now time.Time) string {
	token := newSessionToken()
	m.sessions[token] = memSession{PlayerID: playerID, ExpiresAt: now.Add(m.sessionTTL)}
	return token
}

// resolveLocked refreshes the sliding expiry on a hit.
func (m *Manager) resolveLocked(token string, now time.Time) (uint64, string, bool) {
	if token == "" {
		return 0, "", false
	}
	s, ok := m.sessions[token]
	if !ok {
		return 0, "", false
	}
	if !now.Before(s.ExpiresAt) {
		delete(m.sessions, token)
		return 0, "", false
	}
	s.ExpiresAt = now.Add(m.sessionTTL)
	m.sessions[token] = s

	p := m.players[s.PlayerID]
	p.LastSeen = now
	return p.ID, p.Username, true
}
