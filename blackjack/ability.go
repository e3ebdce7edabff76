package blackjack

import (
	"fmt"
	"math/rand"
)

// TriggerKind enumerates when an enemy ability fires.
type TriggerKind byte

const (
	TriggerPassive           TriggerKind = 0 // never fires; always-on effects applied elsewhere
	TriggerOnEvent           TriggerKind = 1
	TriggerCounter           TriggerKind = 2
	TriggerHpThreshold       TriggerKind = 3
	TriggerRandom            TriggerKind = 4
	TriggerOnAction          TriggerKind = 5
	TriggerHpSegment         TriggerKind = 6
	TriggerDamageAccumulator TriggerKind = 7
)

var TriggerKindDictionary = map[TriggerKind]string{
	TriggerPassive:           "passive",
	TriggerOnEvent:           "on_event",
	TriggerCounter:           "counter",
	TriggerHpThreshold:       "hp_threshold",
	TriggerRandom:            "random",
	TriggerOnAction:          "on_action",
	TriggerHpSegment:         "hp_segment",
	TriggerDamageAccumulator: "damage_accumulator",
}

func (k TriggerKind) String() string {
	if name, ok := TriggerKindDictionary[k]; ok {
		return name
	}
	return "unknown"
}

func TriggerKindFromString(s string) (TriggerKind, error) {
	for k, name := range TriggerKindDictionary {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger kind: %q", s)
}

// Trigger is the condition half of an ability. Field use depends on
// Kind.
type Trigger struct {
	Kind      TriggerKind
	Event     GameEvent  // OnEvent, Counter, Random
	Max       int        // Counter: fires every Max occurrences
	Ratio     float64    // HpThreshold: fires once at hp/max <= Ratio
	Chance    float64    // Random: fire probability per occurrence
	Action    ActionType // OnAction
	Percent   int        // HpSegment: fires per Percent% of max HP lost
	Threshold int        // DamageAccumulator: fires per Threshold damage
}

// AbilityEffectKind enumerates ability effect operations.
type AbilityEffectKind byte

const (
	AbilityApplyStatus  AbilityEffectKind = 0
	AbilityRemoveStatus AbilityEffectKind = 1
	AbilityHeal         AbilityEffectKind = 2
	AbilityDamage       AbilityEffectKind = 3
	AbilityShuffleDeck  AbilityEffectKind = 4
	AbilityDiscardHand  AbilityEffectKind = 5
	AbilityForceHit     AbilityEffectKind = 6
	AbilityRevealHole   AbilityEffectKind = 7
	AbilityMessage      AbilityEffectKind = 8
)

var AbilityEffectKindDictionary = map[AbilityEffectKind]string{
	AbilityApplyStatus:  "apply_status",
	AbilityRemoveStatus: "remove_status",
	AbilityHeal:         "heal",
	AbilityDamage:       "damage",
	AbilityShuffleDeck:  "shuffle_deck",
	AbilityDiscardHand:  "discard_hand",
	AbilityForceHit:     "force_hit",
	AbilityRevealHole:   "reveal_hole",
	AbilityMessage:      "message",
}

func AbilityEffectKindFromString(s string) (AbilityEffectKind, error) {
	for k, name := range AbilityEffectKindDictionary {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown ability effect: %q", s)
}

// EffectTarget selects who an ability effect lands on. Player-side
// heal/damage moves chips; enemy-side moves HP.
type EffectTarget byte

const (
	TargetSelf   EffectTarget = 0
	TargetPlayer EffectTarget = 1
)

// AbilityEffect is one typed operation in an ability's effect list.
type AbilityEffect struct {
	Kind   AbilityEffectKind
	Target EffectTarget

	// apply_status
	Status         StatusKind
	StatusValue    int
	StatusDuration int
	StatusStacks   int

	// heal / damage amount
	Value int

	// message
	Text string
}

// Ability pairs a trigger with an ordered effect list plus the
// per-encounter runtime fields the trigger kinds need.
type Ability struct {
	Name    string
	Flavor  string
	Trigger Trigger
	Effects []AbilityEffect

	counter      int
	hasTriggered bool
	// hp_segment: segments already fired. damage_accumulator: damage
	// already consumed by past fires.
	segmentsFired  int
	damageConsumed int
}

func (a *Ability) resetState() {
	a.counter = 0
	a.hasTriggered = false
	a.segmentsFired = 0
	a.damageConsumed = 0
}

// CounterCurrent exposes the counter for snapshots and tests.
func (a *Ability) CounterCurrent() int { return a.counter }

// HasTriggered reports whether a once-per-encounter trigger burned.
func (a *Ability) HasTriggered() bool { return a.hasTriggered }

// fireCount evaluates the trigger against one published event and
// returns how many times the ability fires (hp_segment and
// damage_accumulator can fire several times off one big hit).
func (a *Ability) fireCount(ev Event, enemy *Enemy, rng *rand.Rand) int {
	switch a.Trigger.Kind {
	case TriggerPassive:
		return 0

	case TriggerOnEvent:
		if ev.Kind == a.Trigger.Event {
			return 1
		}

	case TriggerCounter:
		if ev.Kind != a.Trigger.Event || a.Trigger.Max <= 0 {
			return 0
		}
		a.counter++
		if a.counter >= a.Trigger.Max {
			a.counter = 0
			return 1
		}

	case TriggerHpThreshold:
		if a.hasTriggered {
			return 0
		}
		if enemy.HPPercent() <= a.Trigger.Ratio {
			a.hasTriggered = true
			return 1
		}

	case TriggerRandom:
		if ev.Kind != a.Trigger.Event {
			return 0
		}
		if rng.Float64() < a.Trigger.Chance {
			return 1
		}

	case TriggerOnAction:
		if ev.Kind == EventPlayerActionEnd && ev.Action == a.Trigger.Action {
			return 1
		}

	case TriggerHpSegment:
		if a.Trigger.Percent <= 0 || enemy.MaxHP <= 0 {
			return 0
		}
		lostPercent := (enemy.MaxHP - enemy.CurrentHP) * 100 / enemy.MaxHP
		segments := lostPercent / a.Trigger.Percent
		if segments > a.segmentsFired {
			fires := segments - a.segmentsFired
			a.segmentsFired = segments
			return fires
		}

	case TriggerDamageAccumulator:
		if a.Trigger.Threshold <= 0 {
			return 0
		}
		pending := enemy.TotalDamageTaken - a.damageConsumed
		fires := pending / a.Trigger.Threshold
		if fires > 0 {
			a.damageConsumed += fires * a.Trigger.Threshold
			return fires
		}
	}
	return 0
}

// Validate is the catalog-load check.
func (a *Ability) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("ability missing name")
	}
	switch a.Trigger.Kind {
	case TriggerCounter:
		if a.Trigger.Max <= 0 {
			return fmt.Errorf("ability %q: counter trigger needs max > 0", a.Name)
		}
	case TriggerHpThreshold:
		if a.Trigger.Ratio <= 0 || a.Trigger.Ratio > 1 {
			return fmt.Errorf("ability %q: threshold ratio out of (0,1]", a.Name)
		}
	case TriggerRandom:
		if a.Trigger.Chance < 0 || a.Trigger.Chance > 1 {
			return fmt.Errorf("ability %q: chance out of [0,1]", a.Name)
		}
	case TriggerHpSegment:
		if a.Trigger.Percent <= 0 || a.Trigger.Percent > 100 {
			return fmt.Errorf("ability %q: segment percent out of (0,100]", a.Name)
		}
	case TriggerDamageAccumulator:
		if a.Trigger.Threshold <= 0 {
			return fmt.Errorf("ability %q: accumulator threshold must be > 0", a.Name)
		}
	}
	if a.Trigger.Kind != TriggerPassive && len(a.Effects) == 0 {
		return fmt.Errorf("ability %q has no effects", a.Name)
	}
	return nil
}
