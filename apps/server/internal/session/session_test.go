package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiftytwo-lite/blackjack"
	"fiftytwo-lite/blackjack/catalog"

	"fiftytwo-lite/apps/server/internal/codec"
)

// frameSink collects outgoing frames so tests can wait on them.
type frameSink struct {
	frames chan []byte
}

func newFrameSink() *frameSink {
	return &frameSink{frames: make(chan []byte, 256)}
}

func (f *frameSink) send(data []byte) {
	select {
	case f.frames <- data:
	default:
	}
}

// waitFor reads frames until one of the wanted type arrives.
func (f *frameSink) waitFor(t *testing.T, frameType string) *codec.ServerEnvelope {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case data := <-f.frames:
			var env codec.ServerEnvelope
			require.NoError(t, json.Unmarshal(data, &env))
			if env.Type == frameType {
				return &env
			}
		case <-deadline:
			t.Fatalf("no %s frame within deadline", frameType)
			return nil
		}
	}
}

func TestSessionCommandFlow(t *testing.T) {
	sink := newFrameSink()
	s, err := New(1, blackjack.ClassDegenerate, 7, catalog.Default(), sink.send, nil)
	require.NoError(t, err)
	defer s.Stop()

	// The actor opens with a snapshot of the combat preview.
	first := sink.waitFor(t, codec.ServerSnapshot)
	require.NotNil(t, first.Snapshot)
	assert.Equal(t, blackjack.StateCombatPreview, first.Snapshot.State)
	assert.Equal(t, 100, first.Snapshot.Chips)

	// Skip the preview, then bet.
	require.NoError(t, s.Submit(Command{Type: CmdSkip}))
	require.NoError(t, s.Submit(Command{Type: CmdPlaceBet, Amount: 10}))

	// Engine rejections surface through Submit.
	err = s.Submit(Command{Type: CmdPlaceBet, Amount: 10})
	reason, ok := blackjack.RejectedReason(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, blackjack.RejectInvalidState, reason)

	// An explicit snapshot request round-trips.
	require.NoError(t, s.Submit(Command{Type: CmdSnapshot}))
	snap := sink.waitFor(t, codec.ServerSnapshot)
	require.NotNil(t, snap.Snapshot)
	assert.Equal(t, 10, snap.Snapshot.CurrentBet)
}

func TestSessionFramesCarryIncreasingSeq(t *testing.T) {
	sink := newFrameSink()
	s, err := New(1, blackjack.ClassDegenerate, 7, catalog.Default(), sink.send, nil)
	require.NoError(t, err)
	defer s.Stop()

	require.NoError(t, s.Submit(Command{Type: CmdSnapshot}))
	require.NoError(t, s.Submit(Command{Type: CmdSnapshot}))

	var last uint64
	for i := 0; i < 3; i++ {
		env := sink.waitFor(t, codec.ServerSnapshot)
		assert.Greater(t, env.ServerSeq, last)
		last = env.ServerSeq
	}
}

func TestSubmitAfterStop(t *testing.T) {
	sink := newFrameSink()
	s, err := New(1, blackjack.ClassDegenerate, 7, catalog.Default(), sink.send, nil)
	require.NoError(t, err)

	s.Stop()
	s.Stop() // idempotent

	err = s.Submit(Command{Type: CmdSnapshot})
	assert.Error(t, err)
}

func TestClassTrinketEquipped(t *testing.T) {
	sink := newFrameSink()
	s, err := New(1, blackjack.ClassDegenerate, 7, catalog.Default(), sink.send, nil)
	require.NoError(t, err)
	defer s.Stop()

	env := sink.waitFor(t, codec.ServerSnapshot)
	require.NotEmpty(t, env.Snapshot.Trinkets)
	assert.Equal(t, "degenerates_gambit", env.Snapshot.Trinkets[0].Key)
	assert.Equal(t, -1, env.Snapshot.Trinkets[0].Slot)
}

func TestManagerReplacesRunPerUser(t *testing.T) {
	m := NewManager(catalog.Default(), nil, nil)
	defer m.StopAll()

	sink := newFrameSink()
	first, err := m.StartRun(1, blackjack.ClassDealer, 1, sink.send)
	require.NoError(t, err)
	assert.Same(t, first, m.Get(1))

	second, err := m.StartRun(1, blackjack.ClassDealer, 2, sink.send)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, m.Get(1))

	// The abandoned actor no longer accepts commands.
	err = first.Submit(Command{Type: CmdSnapshot})
	assert.Error(t, err)

	m.Drop(1)
	assert.Nil(t, m.Get(1))
	err = second.Submit(Command{Type: CmdSnapshot})
	assert.Error(t, err)
}
