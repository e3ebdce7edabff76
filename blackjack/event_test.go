package blackjack

import (
	"math/rand"
	"testing"
)

func testEvent(title string) *EventPrompt {
	req := TagLucky
	return &EventPrompt{
		Title:       title,
		Description: "a fork in the road",
		Choices: [3]EventChoice{
			{Text: "take the chips", ChipsDelta: 20, SanityDelta: -10},
			{Text: "anger the house", EnemyHPMultiplier: 1.5},
			{Text: "cash in a charm", ChipsDelta: 50, RequiresTag: &req},
		},
	}
}

func eventGame(t *testing.T, skipPreviews bool) *Game {
	t.Helper()
	pool := NewEventPool()
	pool.Add(1, func() *EventPrompt { return testEvent("Omen") })
	act := &Act{
		Name: "Test",
		Encounters: []Encounter{
			{Kind: EncounterEvent},
			{Kind: EncounterNormal, Enemy: func() *Enemy { return NewEnemy("Dummy", 100) }},
		},
		Pool: pool,
	}
	g, err := NewGame(Config{
		Decks:         1,
		PlayerName:    "tester",
		Class:         ClassDegenerate,
		StartingChips: 100,
		Act:           act,
		Seed:          1,
		SkipPreviews:  skipPreviews,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestEventPoolAvoidsBackToBackRepeat(t *testing.T) {
	// The forbidden title is rare enough that ten redraws always find
	// the alternative; a heavy forbidden title would legitimately be
	// accepted once the retries run out.
	pool := NewEventPool()
	pool.Add(9, func() *EventPrompt { return testEvent("A") })
	pool.Add(1, func() *EventPrompt { return testEvent("B") })
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		if ev := pool.Pick(rng, "B"); ev.Title == "B" {
			t.Fatalf("pick %d repeated the previous title", i)
		}
	}
}

func TestEventPoolSingleEntryAcceptsRepeat(t *testing.T) {
	pool := NewEventPool()
	pool.Add(1, func() *EventPrompt { return testEvent("Only") })
	rng := rand.New(rand.NewSource(1))
	if ev := pool.Pick(rng, "Only"); ev == nil || ev.Title != "Only" {
		t.Fatalf("single-entry pool must hand back the duplicate")
	}
}

func TestEventPoolEmptyAndZeroWeight(t *testing.T) {
	pool := NewEventPool()
	pool.Add(0, func() *EventPrompt { return testEvent("ignored") })
	pool.Add(2, nil)
	if pool.Len() != 0 {
		t.Fatalf("zero-weight or nil entries were admitted")
	}
	if ev := pool.Pick(rand.New(rand.NewSource(1)), ""); ev != nil {
		t.Fatalf("empty pool returned an event")
	}
}

func TestEventChoiceAppliesDeltas(t *testing.T) {
	g := eventGame(t, true)
	if g.State() != StateEventActive {
		t.Fatalf("state = %s, want event active", g.State())
	}
	if err := g.ChooseEvent(0); err != nil {
		t.Fatalf("ChooseEvent: %v", err)
	}

	snap := g.Snapshot()
	if snap.Chips != 120 || snap.Sanity != 90 {
		t.Errorf("chips/sanity = %d/%d, want 120/90", snap.Chips, snap.Sanity)
	}
	// The next encounter is combat, entered immediately without previews.
	if snap.State != StateBetting || !snap.CombatMode || snap.Enemy == nil {
		t.Errorf("did not land in combat betting: %+v", snap.State)
	}
}

func TestEventChoiceGatedByTag(t *testing.T) {
	g := eventGame(t, true)

	if snap := g.Snapshot(); snap.Event == nil || !snap.Event.Choices[2].Locked {
		t.Fatalf("gated choice not reported locked")
	}
	if err := g.ChooseEvent(2); rejectReason(t, err) != RejectInvalidTarget {
		t.Fatalf("gated choice accepted: %v", err)
	}

	g.tags.Assign(0, TagLucky)
	if snap := g.Snapshot(); snap.Event.Choices[2].Locked {
		t.Fatalf("choice still locked after the tag landed")
	}
	if err := g.ChooseEvent(2); err != nil {
		t.Fatalf("ChooseEvent: %v", err)
	}
	if snap := g.Snapshot(); snap.Chips != 150 {
		t.Errorf("chips = %d, want 150", snap.Chips)
	}
}

func TestEventChoiceScalesNextEnemyHP(t *testing.T) {
	g := eventGame(t, true)
	if err := g.ChooseEvent(1); err != nil {
		t.Fatalf("ChooseEvent: %v", err)
	}
	snap := g.Snapshot()
	if snap.Enemy == nil || snap.Enemy.MaxHP != 150 || snap.Enemy.CurrentHP != 150 {
		t.Errorf("enemy HP not scaled: %+v", snap.Enemy)
	}
}

func TestRerollDoublesCost(t *testing.T) {
	g := eventGame(t, false)
	if g.State() != StateEventPreview {
		t.Fatalf("state = %s, want event preview", g.State())
	}
	if snap := g.Snapshot(); snap.RerollCost != 50 {
		t.Fatalf("opening reroll cost = %d, want 50", snap.RerollCost)
	}

	if err := g.RerollEvent(); err != nil {
		t.Fatalf("RerollEvent: %v", err)
	}
	snap := g.Snapshot()
	if snap.Chips != 50 || snap.RerollCost != 100 {
		t.Errorf("after reroll chips/cost = %d/%d, want 50/100", snap.Chips, snap.RerollCost)
	}

	if err := g.RerollEvent(); rejectReason(t, err) != RejectCannotAfford {
		t.Errorf("unaffordable reroll accepted: %v", err)
	}
}

func TestSkipCollapsesPreviews(t *testing.T) {
	g := eventGame(t, false)
	if err := g.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if g.State() != StateEventActive {
		t.Fatalf("state = %s after skip, want event active", g.State())
	}
	if err := g.Skip(); rejectReason(t, err) != RejectInvalidState {
		t.Errorf("skip accepted outside a preview: %v", err)
	}

	if err := g.ChooseEvent(0); err != nil {
		t.Fatalf("ChooseEvent: %v", err)
	}
	if g.State() != StateCombatPreview {
		t.Fatalf("state = %s, want combat preview", g.State())
	}
	if err := g.Skip(); err != nil {
		t.Fatalf("Skip combat preview: %v", err)
	}
	if g.State() != StateBetting {
		t.Errorf("state = %s, want betting", g.State())
	}
}

func TestChooseEventRejectsBadInput(t *testing.T) {
	g := eventGame(t, true)
	if err := g.ChooseEvent(3); rejectReason(t, err) != RejectInvalidTarget {
		t.Errorf("out-of-range choice accepted: %v", err)
	}

	combat := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	if err := combat.ChooseEvent(0); rejectReason(t, err) != RejectInvalidState {
		t.Errorf("choice accepted outside an event: %v", err)
	}
}
