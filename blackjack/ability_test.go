package blackjack

import (
	"math/rand"
	"testing"

	"fiftytwo-lite/card"
)

func TestCounterTrigger(t *testing.T) {
	a := &Ability{
		Name:    "counter",
		Trigger: Trigger{Kind: TriggerCounter, Event: EventHandEnd, Max: 3},
	}
	e := NewEnemy("e", 100)
	rng := rand.New(rand.NewSource(1))

	ev := Event{Kind: EventHandEnd}
	if a.fireCount(ev, e, rng) != 0 || a.fireCount(ev, e, rng) != 0 {
		t.Fatalf("counter fired early")
	}
	if a.fireCount(ev, e, rng) != 1 {
		t.Fatalf("counter did not fire on the third occurrence")
	}
	if a.CounterCurrent() != 0 {
		t.Errorf("counter not reset after firing")
	}
	// Other events never advance the counter.
	if a.fireCount(Event{Kind: EventCardDrawn}, e, rng) != 0 || a.CounterCurrent() != 0 {
		t.Errorf("foreign event advanced the counter")
	}
}

func TestHpThresholdFiresOnce(t *testing.T) {
	a := &Ability{
		Name:    "threshold",
		Trigger: Trigger{Kind: TriggerHpThreshold, Ratio: 0.5},
	}
	e := NewEnemy("e", 100)
	rng := rand.New(rand.NewSource(1))
	ev := Event{Kind: EventDamageDealt}

	if a.fireCount(ev, e, rng) != 0 {
		t.Fatalf("fired at full HP")
	}
	e.takeDamage(60)
	if a.fireCount(ev, e, rng) != 1 {
		t.Fatalf("did not fire below the threshold")
	}
	if a.fireCount(ev, e, rng) != 0 {
		t.Fatalf("fired twice")
	}
}

func TestHpSegmentFiresPerSegment(t *testing.T) {
	a := &Ability{
		Name:    "segment",
		Trigger: Trigger{Kind: TriggerHpSegment, Percent: 25},
	}
	e := NewEnemy("e", 100)
	rng := rand.New(rand.NewSource(1))
	ev := Event{Kind: EventDamageDealt}

	e.takeDamage(30) // one 25% segment crossed
	if got := a.fireCount(ev, e, rng); got != 1 {
		t.Fatalf("fires = %d, want 1", got)
	}
	// One big hit crossing two segments fires twice at once.
	e.takeDamage(50) // 80 lost, segments 3
	if got := a.fireCount(ev, e, rng); got != 2 {
		t.Fatalf("fires = %d, want 2", got)
	}
	if got := a.fireCount(ev, e, rng); got != 0 {
		t.Fatalf("refired with no new segment")
	}
}

func TestDamageAccumulator(t *testing.T) {
	a := &Ability{
		Name:    "accumulator",
		Trigger: Trigger{Kind: TriggerDamageAccumulator, Threshold: 40},
	}
	e := NewEnemy("e", 1000)
	rng := rand.New(rand.NewSource(1))
	ev := Event{Kind: EventDamageDealt}

	e.takeDamage(30)
	if a.fireCount(ev, e, rng) != 0 {
		t.Fatalf("fired under the threshold")
	}
	e.takeDamage(30) // 60 total, one fire, 20 carried
	if a.fireCount(ev, e, rng) != 1 {
		t.Fatalf("did not fire at the threshold")
	}
	e.takeDamage(25) // 85 total, 45 pending after 40 consumed
	if a.fireCount(ev, e, rng) != 1 {
		t.Fatalf("carry-over not honored")
	}
}

func TestOnActionTrigger(t *testing.T) {
	a := &Ability{
		Name:    "on double",
		Trigger: Trigger{Kind: TriggerOnAction, Action: ActionDouble},
	}
	e := NewEnemy("e", 100)
	rng := rand.New(rand.NewSource(1))

	if a.fireCount(Event{Kind: EventPlayerActionEnd, Action: ActionHit}, e, rng) != 0 {
		t.Errorf("fired on the wrong action")
	}
	if a.fireCount(Event{Kind: EventPlayerActionEnd, Action: ActionDouble}, e, rng) != 1 {
		t.Errorf("did not fire on the matching action")
	}
}

func TestResetStateClearsEncounterMemory(t *testing.T) {
	a := &Ability{
		Name:    "threshold",
		Trigger: Trigger{Kind: TriggerHpThreshold, Ratio: 0.5},
	}
	e := NewEnemy("e", 100, a)
	rng := rand.New(rand.NewSource(1))
	e.takeDamage(60)
	a.fireCount(Event{Kind: EventDamageDealt}, e, rng)
	if !a.HasTriggered() {
		t.Fatalf("trigger did not burn")
	}
	e.resetAbilityStates()
	if a.HasTriggered() {
		t.Errorf("reset did not clear the burned trigger")
	}
}

func TestForcedDiscardStripsDoubledTag(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)

	doubled := mustCard(t, "Th").ID()
	g.tags.Assign(doubled, TagDoubled)

	g.executeAbilityLocked(&Ability{
		Name:    "Sweep",
		Effects: []AbilityEffect{{Kind: AbilityDiscardHand}},
	})

	if got := g.player.Hand.Len(); got != 0 {
		t.Fatalf("hand size = %d after forced discard, want 0", got)
	}
	if g.tags.Has(doubled, TagDoubled) {
		t.Errorf("discarded card kept its doubled tag")
	}
}

func TestAbilityDamagesPlayerOnBust(t *testing.T) {
	// Enemy punishes a bust with a 10-chip hit.
	act := &Act{
		Name: "Test",
		Encounters: []Encounter{
			{Kind: EncounterNormal, Enemy: func() *Enemy {
				return NewEnemy("Punisher", 100, &Ability{
					Name:    "Red Pen",
					Trigger: Trigger{Kind: TriggerOnEvent, Event: EventPlayerBust},
					Effects: []AbilityEffect{{Kind: AbilityDamage, Target: TargetPlayer, Value: 10}},
				})
			}},
		},
	}
	names := []string{"Td", "7s", "9c", "Th", "5h"}
	override := make([]card.Card, len(names))
	for i, name := range names {
		override[len(names)-1-i] = mustCard(t, name)
	}

	g, err := NewGame(Config{
		Decks:         1,
		PlayerName:    "tester",
		Class:         ClassDegenerate,
		StartingChips: 100,
		Act:           act,
		Seed:          1,
		DeckOverride:  override,
		SkipPreviews:  true,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	if err := g.PlaceBet(5); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionHit); err != nil {
		t.Fatalf("hit: %v", err)
	}
	advanceTo(t, g, StateBetting)

	// 100 - 5 lost bet - 10 ability hit.
	if snap := g.Snapshot(); snap.Chips != 85 {
		t.Errorf("chips = %d, want 85", snap.Chips)
	}
}
