package blackjack

import "fmt"

// GameEvent enumerates everything the core announces on its bus.
// Ability triggers and trinket passives key off these.
type GameEvent byte

const (
	EventNone             GameEvent = 0
	EventCombatStart      GameEvent = 1
	EventCardDrawn        GameEvent = 2
	EventPlayerActionEnd  GameEvent = 3
	EventHandEnd          GameEvent = 4
	EventPlayerWin        GameEvent = 5
	EventPlayerLoss       GameEvent = 6
	EventPlayerPush       GameEvent = 7
	EventPlayerBust       GameEvent = 8
	EventPlayerBlackjack  GameEvent = 9
	EventDealerBust       GameEvent = 10
	EventDamageDealt      GameEvent = 11
	EventEnemyHeal        GameEvent = 12
	EventEnemyDefeated    GameEvent = 13
	EventPlayerDefeated   GameEvent = 14
	EventStatusApplied    GameEvent = 15
	EventStatusExpired    GameEvent = 16
	EventStateChanged     GameEvent = 17
	EventCombatPreview    GameEvent = 18
	EventEventPreview     GameEvent = 19
	EventTrinketActivated GameEvent = 20
	EventCardTagVicious   GameEvent = 21
	EventCardTagVampiric  GameEvent = 22
	EventSoundRequested   GameEvent = 23
	EventRunComplete      GameEvent = 24
	EventAbilityMessage   GameEvent = 25
)

var GameEventDictionary = map[GameEvent]string{
	EventNone:             "none",
	EventCombatStart:      "combat_start",
	EventCardDrawn:        "card_drawn",
	EventPlayerActionEnd:  "player_action_end",
	EventHandEnd:          "hand_end",
	EventPlayerWin:        "player_win",
	EventPlayerLoss:       "player_loss",
	EventPlayerPush:       "player_push",
	EventPlayerBust:       "player_bust",
	EventPlayerBlackjack:  "player_blackjack",
	EventDealerBust:       "dealer_bust",
	EventDamageDealt:      "damage_dealt",
	EventEnemyHeal:        "enemy_heal",
	EventEnemyDefeated:    "enemy_defeated",
	EventPlayerDefeated:   "player_defeated",
	EventStatusApplied:    "status_applied",
	EventStatusExpired:    "status_expired",
	EventStateChanged:     "state_changed",
	EventCombatPreview:    "combat_preview_start",
	EventEventPreview:     "event_preview_start",
	EventTrinketActivated: "trinket_activated",
	EventCardTagVicious:   "card_tag_vicious",
	EventCardTagVampiric:  "card_tag_vampiric",
	EventSoundRequested:   "sound_requested",
	EventRunComplete:      "run_complete",
	EventAbilityMessage:   "ability_message",
}

func (e GameEvent) String() string {
	if name, ok := GameEventDictionary[e]; ok {
		return name
	}
	return "unknown"
}

func GameEventFromString(s string) (GameEvent, error) {
	for ev, name := range GameEventDictionary {
		if name == s {
			return ev, nil
		}
	}
	return 0, fmt.Errorf("unknown game event: %q", s)
}

// Event is one published bus message. Payload fields are sparse;
// which ones are set depends on Kind.
type Event struct {
	Kind GameEvent

	// CardDrawn
	CardID   int
	ByDealer bool

	// HandEnd
	Result TurnResult

	// DamageDealt
	Source DamageSource
	Amount int
	Crit   bool

	// Status events
	Status StatusKind
	Value  int

	// StateChanged
	From State
	To   State

	// TrinketActivated
	Slot int

	// Player action (for OnAction triggers)
	Action ActionType

	// SoundRequested
	Sound SoundToken

	// Ability flavor text riders
	Message string
}

// subscriber receives every published event, depth-first.
type subscriber func(Event)

// bus is the fan-out surface. The subscriber list is fixed at Game
// construction, so no publisher ever sees a partial list. Dispatch is
// synchronous and re-entrant: handlers may publish, and nested events
// are fully drained before the outer publish returns.
type bus struct {
	subs   []subscriber
	outbox []Event
}

func (b *bus) subscribe(s subscriber) {
	b.subs = append(b.subs, s)
}

func (b *bus) publish(ev Event) {
	b.outbox = append(b.outbox, ev)
	for _, s := range b.subs {
		s(ev)
	}
}

// drain hands the accumulated outbox to the host and resets it.
func (b *bus) drain() []Event {
	out := b.outbox
	b.outbox = nil
	return out
}
