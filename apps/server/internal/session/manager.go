package session

import (
	"context"
	"log"
	"sync"
	"time"

	"fiftytwo-lite/blackjack"
	"fiftytwo-lite/blackjack/catalog"

	"fiftytwo-lite/apps/server/internal/progress"
	"fiftytwo-lite/apps/server/internal/runlog"
)

// Manager tracks at most one live run per user and persists the
// outcome when a run ends.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint64]*Session

	catalog  *catalog.Catalog
	runlog   runlog.Service
	progress progress.Service
}

func NewManager(cat *catalog.Catalog, runs runlog.Service, prog progress.Service) *Manager {
	return &Manager{
		sessions: make(map[uint64]*Session),
		catalog:  cat,
		runlog:   runs,
		progress: prog,
	}
}

// StartRun begins a fresh run for the user, abandoning any run
// already in flight.
func (m *Manager) StartRun(userID uint64, class blackjack.Class, seed int64, send func([]byte)) (*Session, error) {
	m.mu.Lock()
	if old, ok := m.sessions[userID]; ok {
		old.Stop()
		delete(m.sessions, userID)
		log.Printf("[SessionManager] user %d abandoned run %s", userID, old.ID)
	}
	m.mu.Unlock()

	s, err := New(userID, class, seed, m.catalog, send, m.recordOutcome)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the user's live run, or nil.
func (m *Manager) Get(userID uint64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

// Drop stops and forgets the user's run, typically on disconnect.
func (m *Manager) Drop(userID uint64) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
	if ok {
		s.Stop()
	}
}

// StopAll shuts every live run down, for server shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = make(map[uint64]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.Stop()
	}
}

// recordOutcome runs on the session goroutine when a run finishes.
func (m *Manager) recordOutcome(sum RunSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if m.runlog != nil {
		_, err := m.runlog.RecordRun(ctx, &runlog.Record{
			UserID:      sum.UserID,
			Seed:        sum.Seed,
			Class:       sum.Class.String(),
			Victory:     sum.Victory,
			FinalChips:  sum.Chips,
			TurnsPlayed: sum.Stats.TurnsPlayed,
			TurnsWon:    sum.Stats.TurnsWon,
			CombatsWon:  sum.Stats.CombatsWon,
			DamageDealt: sum.Stats.DamageDealtTotal,
			ChipsWon:    sum.Stats.ChipsWon,
			ChipsLost:   sum.Stats.ChipsLost,
			HighestBet:  sum.Stats.HighestBet,
			StartedAt:   sum.StartedAt,
			EndedAt:     sum.EndedAt,
		})
		if err != nil {
			log.Printf("[SessionManager] record run for user %d: %v", sum.UserID, err)
		}
	}

	if m.progress != nil && sum.Victory {
		if _, err := m.progress.CompleteAct(ctx, sum.UserID, 1, nil); err != nil {
			log.Printf("[SessionManager] complete act for user %d: %v", sum.UserID, err)
		}
	}

	m.mu.Lock()
	if cur, ok := m.sessions[sum.UserID]; ok && cur.UserID == sum.UserID {
		delete(m.sessions, sum.UserID)
	}
	m.mu.Unlock()
}
