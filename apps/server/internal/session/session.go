// Package session runs one game per connected player. Each run is an
// actor goroutine: commands come in over a channel with a response
// channel, a ticker drives the engine clock, and frames go back to
// the owning connection through a send callback.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"fiftytwo-lite/blackjack"
	"fiftytwo-lite/blackjack/catalog"

	"fiftytwo-lite/apps/server/internal/codec"
)

const (
	tickInterval = 100 * time.Millisecond
	commandQueue = 64
)

type CommandType int

const (
	CmdPlaceBet CommandType = iota
	CmdPlayerAction
	CmdActivateTrinket
	CmdCancelTargeting
	CmdChooseEvent
	CmdRerollEvent
	CmdSkip
	CmdSnapshot
)

// Command is a player request routed into the actor goroutine. The
// actor writes exactly one error (possibly nil) to Response.
type Command struct {
	Type         CommandType
	Amount       int
	Action       blackjack.ActionType
	Slot         int
	TargetCardID *int
	Choice       int
	Response     chan error
}

// RunSummary is handed to the end callback when a run finishes.
type RunSummary struct {
	UserID    uint64
	Seed      int64
	Class     blackjack.Class
	Victory   bool
	Chips     int
	Stats     *blackjack.RunStats
	StartedAt time.Time
	EndedAt   time.Time
}

// Session owns one run's engine and its actor goroutine.
type Session struct {
	ID     string
	UserID uint64

	game      *blackjack.Game
	seed      int64
	class     blackjack.Class
	startedAt time.Time

	commands chan Command
	done     chan struct{}
	stopOnce sync.Once

	send  func(data []byte)
	onEnd func(RunSummary)

	// Actor-goroutine state, no locking needed.
	serverSeq uint64
	lastState blackjack.State
	ended     bool
}

// New builds a run for the given user and starts its actor. The send
// callback delivers frames to the player's connection; onEnd fires
// once when the run completes or the player is defeated.
func New(userID uint64, class blackjack.Class, seed int64, cat *catalog.Catalog, send func([]byte), onEnd func(RunSummary)) (*Session, error) {
	if send == nil {
		return nil, fmt.Errorf("nil send callback")
	}
	act, err := cat.DefaultAct()
	if err != nil {
		return nil, fmt.Errorf("build act: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	game, err := blackjack.NewGame(blackjack.Config{
		Decks:         6,
		PlayerName:    fmt.Sprintf("player-%d", userID),
		Class:         class,
		StartingChips: 100,
		Act:           act,
		Seed:          seed,
	})
	if err != nil {
		return nil, err
	}
	if key := classTrinketKey(class); key != "" {
		if inst := cat.NewTrinket(key); inst != nil {
			game.EquipClassTrinket(inst)
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		game:      game,
		seed:      seed,
		class:     class,
		startedAt: time.Now().UTC(),
		commands:  make(chan Command, commandQueue),
		done:      make(chan struct{}),
		send:      send,
		onEnd:     onEnd,
		lastState: game.State(),
	}
	go s.run()
	log.Printf("[Session] started run %s for user %d (class=%s seed=%d)", s.ID, userID, class, seed)
	return s, nil
}

// classTrinketKey maps a class to its starting trinket in the
// default catalog. Classes without one start bare.
func classTrinketKey(class blackjack.Class) string {
	switch class {
	case blackjack.ClassDegenerate:
		return "degenerates_gambit"
	default:
		return ""
	}
}

// Submit routes a command into the actor and waits for its result.
func (s *Session) Submit(cmd Command) error {
	if cmd.Response == nil {
		cmd.Response = make(chan error, 1)
	}
	select {
	case s.commands <- cmd:
	case <-s.done:
		return fmt.Errorf("run is over")
	}
	select {
	case err := <-cmd.Response:
		return err
	case <-s.done:
		return fmt.Errorf("run is over")
	}
}

// Stop terminates the actor. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Session) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.pushSnapshot()

	for {
		select {
		case <-s.done:
			log.Printf("[Session] run %s stopped", s.ID)
			return
		case cmd := <-s.commands:
			cmd.Response <- s.handleCommand(cmd)
			s.flush()
		case <-ticker.C:
			s.game.Update(tickInterval.Seconds())
			s.flush()
		}
	}
}

func (s *Session) handleCommand(cmd Command) error {
	switch cmd.Type {
	case CmdPlaceBet:
		return s.game.PlaceBet(cmd.Amount)
	case CmdPlayerAction:
		return s.game.PlayerAct(cmd.Action)
	case CmdActivateTrinket:
		return s.game.ActivateTrinket(cmd.Slot, cmd.TargetCardID)
	case CmdCancelTargeting:
		return s.game.CancelTargeting()
	case CmdChooseEvent:
		return s.game.ChooseEvent(cmd.Choice)
	case CmdRerollEvent:
		return s.game.RerollEvent()
	case CmdSkip:
		return s.game.Skip()
	case CmdSnapshot:
		s.pushSnapshot()
		return nil
	default:
		return fmt.Errorf("unknown command type %d", cmd.Type)
	}
}

// flush drains engine outputs and forwards them, then checks for the
// end of the run.
func (s *Session) flush() {
	if s.ended {
		return
	}

	events := s.game.DrainEvents()
	if len(events) > 0 {
		s.push(codec.ServerEnvelope{
			Type:   codec.ServerEvents,
			Events: codec.EventsToWire(events),
		})
	}
	if deltas := s.game.DrainDeltas(); len(deltas) > 0 {
		s.push(codec.ServerEnvelope{
			Type:   codec.ServerDeltas,
			Deltas: deltas,
		})
	}
	if st := s.game.State(); st != s.lastState {
		s.lastState = st
		s.pushSnapshot()
	}

	for _, ev := range events {
		switch ev.Kind {
		case blackjack.EventRunComplete:
			s.finish(true)
			return
		case blackjack.EventPlayerDefeated:
			s.finish(false)
			return
		}
	}
}

func (s *Session) finish(victory bool) {
	s.ended = true
	snap := s.game.Snapshot()
	stats := s.game.Stats()

	s.push(codec.ServerEnvelope{
		Type: codec.ServerRunEnd,
		RunEnd: &codec.WireRunEnd{
			Victory: victory,
			Chips:   snap.Chips,
			Stats:   stats,
		},
	})
	log.Printf("[Session] run %s ended (victory=%v chips=%d turns=%d)",
		s.ID, victory, snap.Chips, stats.TurnsPlayed)

	if s.onEnd != nil {
		s.onEnd(RunSummary{
			UserID:    s.UserID,
			Seed:      s.seed,
			Class:     s.class,
			Victory:   victory,
			Chips:     snap.Chips,
			Stats:     stats,
			StartedAt: s.startedAt,
			EndedAt:   time.Now().UTC(),
		})
	}
	s.Stop()
}

func (s *Session) pushSnapshot() {
	s.push(codec.ServerEnvelope{
		Type:     codec.ServerSnapshot,
		Snapshot: s.game.Snapshot(),
	})
}

func (s *Session) push(env codec.ServerEnvelope) {
	s.serverSeq++
	s.send(codec.Encode(codec.Wrap(s.serverSeq, env)))
}
