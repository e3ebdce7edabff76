package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiftytwo-lite/blackjack"
)

func TestDecodeClientEnvelope(t *testing.T) {
	env, err := Decode([]byte(`{"type":"place_bet","seq":3,"amount":10}`))
	require.NoError(t, err)
	assert.Equal(t, ClientPlaceBet, env.Type)
	assert.Equal(t, uint64(3), env.Seq)
	assert.Equal(t, 10, env.Amount)

	_, err = Decode([]byte(`{"amount":10}`))
	assert.Error(t, err, "missing type must be rejected")

	_, err = Decode([]byte(`{nope`))
	assert.Error(t, err)
}

func TestDecodeTargetCardIDDistinguishesZero(t *testing.T) {
	env, err := Decode([]byte(`{"type":"activate_trinket","slot":1,"target_card_id":0}`))
	require.NoError(t, err)
	require.NotNil(t, env.TargetCardID, "card id 0 is a real target")
	assert.Equal(t, 0, *env.TargetCardID)

	env, err = Decode([]byte(`{"type":"activate_trinket","slot":1}`))
	require.NoError(t, err)
	assert.Nil(t, env.TargetCardID)
}

func TestDecodeClassSlotSentinel(t *testing.T) {
	env, err := Decode([]byte(`{"type":"activate_trinket","slot":-1}`))
	require.NoError(t, err)
	assert.Equal(t, blackjack.ClassTrinketSlot, env.Slot)
}

func TestEncodeWrapStampsEnvelope(t *testing.T) {
	data := Encode(Wrap(7, ServerEnvelope{Type: ServerWelcome, UserID: 42, Username: "guest"}))

	var back ServerEnvelope
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ServerWelcome, back.Type)
	assert.Equal(t, uint64(7), back.ServerSeq)
	assert.Equal(t, uint64(42), back.UserID)
	assert.NotZero(t, back.TsMs)
}

func TestEventToWire(t *testing.T) {
	cases := []struct {
		name string
		in   blackjack.Event
		want WireEvent
	}{
		{
			name: "hand end carries the outcome",
			in:   blackjack.Event{Kind: blackjack.EventHandEnd, Result: blackjack.TurnWin},
			want: WireEvent{Kind: "hand_end", Result: "win"},
		},
		{
			name: "state change carries both ends",
			in: blackjack.Event{
				Kind: blackjack.EventStateChanged,
				From: blackjack.StateBetting,
				To:   blackjack.StateDealing,
			},
			want: WireEvent{
				Kind: "state_changed",
				From: blackjack.StateBetting.String(),
				To:   blackjack.StateDealing.String(),
			},
		},
		{
			name: "status apply names the status",
			in: blackjack.Event{
				Kind:   blackjack.EventStatusApplied,
				Status: blackjack.StatusTilt,
				Value:  20,
			},
			want: WireEvent{Kind: "status_applied", Status: "TILT", Value: 20},
		},
		{
			name: "action end names the action",
			in:   blackjack.Event{Kind: blackjack.EventPlayerActionEnd, Action: blackjack.ActionDouble},
			want: WireEvent{Kind: "player_action_end", Action: "DOUBLE"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EventToWire(tc.in))
		})
	}
}

func TestEventsToWirePreservesOrder(t *testing.T) {
	wire := EventsToWire([]blackjack.Event{
		{Kind: blackjack.EventCardDrawn, CardID: 12},
		{Kind: blackjack.EventPlayerBust},
	})
	require.Len(t, wire, 2)
	assert.Equal(t, "card_drawn", wire[0].Kind)
	assert.Equal(t, 12, wire[0].CardID)
	assert.Equal(t, "player_bust", wire[1].Kind)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("HIT")
	require.NoError(t, err)
	assert.Equal(t, blackjack.ActionHit, a)

	_, err = ParseAction("SPLIT")
	assert.Error(t, err)
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass("Dreamer")
	require.NoError(t, err)
	assert.Equal(t, blackjack.ClassDreamer, c)

	_, err = ParseClass("Janitor")
	assert.Error(t, err)
}
