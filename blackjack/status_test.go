package blackjack

import "testing"

func TestApplyStatusMergesStackable(t *testing.T) {
	p := NewPlayer("p", ClassDegenerate, 100)
	p.applyStatus(StatusRake, 10, 0, 2)
	p.applyStatus(StatusRake, 15, 0, 1)

	all := p.Statuses()
	if len(all) != 1 {
		t.Fatalf("instances = %d, want 1 merged", len(all))
	}
	s := all[0]
	if s.Stacks != 3 {
		t.Errorf("stacks = %d, want 3", s.Stacks)
	}
	if s.Value != 15 {
		t.Errorf("value = %d, want 15 (max of applies)", s.Value)
	}
}

func TestApplyStatusNonStackableTakesMax(t *testing.T) {
	p := NewPlayer("p", ClassDegenerate, 100)
	p.applyStatus(StatusChipDrain, 3, 2, 1)
	p.applyStatus(StatusChipDrain, 2, 5, 1)

	all := p.Statuses()
	if len(all) != 1 {
		t.Fatalf("instances = %d, want 1", len(all))
	}
	if all[0].Value != 3 || all[0].Remaining != 5 {
		t.Errorf("got value %d remaining %d, want 3 and 5", all[0].Value, all[0].Remaining)
	}
	if all[0].Stacks != 1 {
		t.Errorf("non-stackable status grew stacks: %d", all[0].Stacks)
	}
}

func TestRakeExpiresByStackConsumption(t *testing.T) {
	p := NewPlayer("p", ClassDegenerate, 100)
	p.applyStatus(StatusRake, 10, 0, 2)

	if expired := p.consumeRakeStack(); expired {
		t.Fatalf("expired with a stack remaining")
	}
	if expired := p.consumeRakeStack(); !expired {
		t.Fatalf("did not expire on the last stack")
	}
	if p.hasStatus(StatusRake) {
		t.Errorf("instance survived expiry")
	}
	if p.consumeRakeStack() {
		t.Errorf("consumed from an absent status")
	}
}

func TestRakeSiphonsChipsOnDamage(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	g.player.applyStatus(StatusRake, 20, 0, 1)

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	// Win pays 1:1 for 10, then 20% of the 10 damage is siphoned.
	if snap := g.Snapshot(); snap.Chips != 108 {
		t.Errorf("chips = %d, want 108", snap.Chips)
	}
	if g.player.hasStatus(StatusRake) {
		t.Errorf("single-stack rake survived the damage")
	}

	// Stack exhaustion announces the expiry like the round timer does.
	expired := false
	for _, ev := range g.DrainEvents() {
		if ev.Kind == EventStatusExpired && ev.Status == StatusRake {
			expired = true
		}
	}
	if !expired {
		t.Errorf("no expiry event for the consumed rake")
	}
}

func TestTiltReducesDamageDealt(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	g.player.applyStatus(StatusTilt, 50, 2, 1)

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	if res := g.LastResult(); res.Damage != 5 {
		t.Errorf("damage = %d, want 5 under a 50%% tilt", res.Damage)
	}
}

func TestGreedCapsWinnings(t *testing.T) {
	// Natural blackjack normally pays 3:2; greed caps it at 1:2.
	g := scriptedGame(t, 100, "As", "9c", "Th", "5d")
	g.player.applyStatus(StatusGreed, 0, 2, 1)

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StateBetting)

	res := g.LastResult()
	if res.ChipsDelta != 5 {
		t.Errorf("chips delta = %d, want 5", res.ChipsDelta)
	}
	if snap := g.Snapshot(); snap.Chips != 105 {
		t.Errorf("chips = %d, want 105", snap.Chips)
	}
}

func TestNoAdjustLocksBetToPreviousRound(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h", "Tc", "9c", "8c", "8s")
	if err := g.PlaceBet(5); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	g.player.applyStatus(StatusNoAdjust, 0, 2, 1)
	err := g.PlaceBet(10)
	if rejectReason(t, err) != RejectIllegalAction {
		t.Fatalf("changed bet accepted under no-adjust: %v", err)
	}
	if err := g.PlaceBet(5); err != nil {
		t.Errorf("repeat bet rejected: %v", err)
	}
}

func TestStatusKindStringRoundTrip(t *testing.T) {
	for kind, name := range StatusKindDictionary {
		got, err := StatusKindFromString(name)
		if err != nil || got != kind {
			t.Errorf("%s: round trip gave %v, %v", name, got, err)
		}
	}
	if _, err := StatusKindFromString("NOPE"); err == nil {
		t.Errorf("unknown name accepted")
	}
}
