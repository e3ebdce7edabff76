package blackjack

import "testing"

func TestSnapshotHidesDealerHoleCard(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)

	snap := g.Snapshot()
	if len(snap.DealerHand) != 2 {
		t.Fatalf("dealer hand = %d cards, want 2", len(snap.DealerHand))
	}
	up, hole := snap.DealerHand[0], snap.DealerHand[1]
	if !up.FaceUp || up.CardID != mustCard(t, "9s").ID() {
		t.Errorf("up card = %+v", up)
	}
	if hole.FaceUp || hole.CardID != -1 {
		t.Errorf("hole card leaked: %+v", hole)
	}
	if snap.DealerValue != 9 {
		t.Errorf("visible dealer value = %d, want 9", snap.DealerValue)
	}

	// The player's own cards are always readable.
	for _, c := range snap.PlayerHand {
		if c.CardID < 0 {
			t.Errorf("player card hidden: %+v", c)
		}
	}
}

func TestSnapshotRevealsDealerAfterShowdown(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	snap := g.Snapshot()
	if snap.LastResult == nil || snap.LastResult.DealerValue != 17 {
		t.Fatalf("dealer showdown value not recorded: %+v", snap.LastResult)
	}
}

func TestSnapshotDoesNotAliasEngineState(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	g.player.applyStatus(StatusChipDrain, 3, 2, 1)

	snap := g.Snapshot()
	snap.Statuses[0].Value = 99

	if got := g.player.status(StatusChipDrain).Value; got != 3 {
		t.Errorf("snapshot write leaked into the engine: %d", got)
	}
}
