// Package codec defines the JSON wire envelopes between the gateway
// and its clients, and the conversions from engine types onto them.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"fiftytwo-lite/blackjack"
)

// Client message types.
const (
	ClientHello           = "hello"
	ClientStartRun        = "start_run"
	ClientPlaceBet        = "place_bet"
	ClientAction          = "action"
	ClientActivateTrinket = "activate_trinket"
	ClientCancelTargeting = "cancel_targeting"
	ClientChooseEvent     = "choose_event"
	ClientRerollEvent     = "reroll_event"
	ClientSkip            = "skip"
	ClientGetSnapshot     = "get_snapshot"
)

// Server message types.
const (
	ServerWelcome  = "welcome"
	ServerError    = "error"
	ServerSnapshot = "snapshot"
	ServerEvents   = "events"
	ServerDeltas   = "deltas"
	ServerRunEnd   = "run_end"
)

// ClientEnvelope is every client -> server message. Fields beyond
// Type are set per message kind.
type ClientEnvelope struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq,omitempty"`

	// hello
	SessionToken string `json:"session_token,omitempty"`

	// start_run
	Class string `json:"class,omitempty"`
	Seed  int64  `json:"seed,omitempty"`

	// place_bet / choose_event / activate_trinket
	Amount       int    `json:"amount,omitempty"`
	Choice       int    `json:"choice,omitempty"`
	Slot         int    `json:"slot,omitempty"`
	TargetCardID *int   `json:"target_card_id,omitempty"`
	Action       string `json:"action,omitempty"`
}

// ServerEnvelope is every server -> client message.
type ServerEnvelope struct {
	Type      string `json:"type"`
	ServerSeq uint64 `json:"server_seq"`
	TsMs      int64  `json:"ts_ms"`

	// welcome
	UserID       uint64 `json:"user_id,omitempty"`
	Username     string `json:"username,omitempty"`
	SessionToken string `json:"session_token,omitempty"`

	// error
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// payloads
	Snapshot *blackjack.Snapshot `json:"snapshot,omitempty"`
	Events   []WireEvent         `json:"events,omitempty"`
	Deltas   []blackjack.Delta   `json:"deltas,omitempty"`
	RunEnd   *WireRunEnd         `json:"run_end,omitempty"`
}

// WireEvent flattens a bus event into string enums the client can
// switch on without the engine's byte values.
type WireEvent struct {
	Kind     string `json:"kind"`
	CardID   int    `json:"card_id,omitempty"`
	ByDealer bool   `json:"by_dealer,omitempty"`
	Result   string `json:"result,omitempty"`
	Source   string `json:"source,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Crit     bool   `json:"crit,omitempty"`
	Status   string `json:"status,omitempty"`
	Value    int    `json:"value,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Slot     int    `json:"slot,omitempty"`
	Action   string `json:"action,omitempty"`
	Sound    string `json:"sound,omitempty"`
	Message  string `json:"message,omitempty"`
}

// WireRunEnd summarizes a finished run.
type WireRunEnd struct {
	Victory bool                `json:"victory"`
	Chips   int                 `json:"chips"`
	Stats   *blackjack.RunStats `json:"stats"`
}

// EventToWire converts a bus event to its wire shape.
func EventToWire(ev blackjack.Event) WireEvent {
	w := WireEvent{
		Kind:     ev.Kind.String(),
		CardID:   ev.CardID,
		ByDealer: ev.ByDealer,
		Amount:   ev.Amount,
		Crit:     ev.Crit,
		Value:    ev.Value,
		Slot:     ev.Slot,
		Message:  ev.Message,
	}
	switch ev.Kind {
	case blackjack.EventHandEnd:
		w.Result = ev.Result.String()
	case blackjack.EventDamageDealt:
		w.Source = blackjack.DamageSourceDictionary[ev.Source]
	case blackjack.EventStatusApplied, blackjack.EventStatusExpired:
		w.Status = ev.Status.String()
	case blackjack.EventStateChanged:
		w.From = ev.From.String()
		w.To = ev.To.String()
	case blackjack.EventPlayerActionEnd:
		w.Action = ev.Action.String()
	case blackjack.EventSoundRequested:
		w.Sound = blackjack.SoundTokenDictionary[ev.Sound]
	}
	return w
}

// EventsToWire maps a drained batch.
func EventsToWire(events []blackjack.Event) []WireEvent {
	out := make([]WireEvent, len(events))
	for i, ev := range events {
		out[i] = EventToWire(ev)
	}
	return out
}

// ParseAction maps a wire action string onto the engine enum.
func ParseAction(s string) (blackjack.ActionType, error) {
	for a, name := range blackjack.ActionTypeDictionary {
		if name == s {
			return a, nil
		}
	}
	return blackjack.ActionNone, fmt.Errorf("unknown action %q", s)
}

// ParseClass maps a wire class string onto the engine enum.
func ParseClass(s string) (blackjack.Class, error) {
	for c, name := range blackjack.ClassDictionary {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class %q", s)
}

// Wrap stamps an envelope with sequence and timestamp.
func Wrap(serverSeq uint64, env ServerEnvelope) ServerEnvelope {
	env.ServerSeq = serverSeq
	env.TsMs = time.Now().UnixMilli()
	return env
}

// Encode marshals an envelope; a marshal failure is a programming
// error and degrades to a generic error frame.
func Encode(env ServerEnvelope) []byte {
	data, err := json.Marshal(env)
	if err != nil {
		fallback, _ := json.Marshal(ServerEnvelope{
			Type: ServerError, Code: 500, Message: "encode failure",
			ServerSeq: env.ServerSeq, TsMs: env.TsMs,
		})
		return fallback
	}
	return data
}

// Decode parses a client envelope.
func Decode(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode client envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("client envelope missing type")
	}
	return &env, nil
}
