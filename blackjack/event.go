package blackjack

import (
	"fmt"
	"math/rand"
)

// EventChoice is one of an encounter event's three options.
type EventChoice struct {
	Text        string
	ChipsDelta  int
	SanityDelta int

	// Tag grants land on random untagged card ids.
	GrantTag      Tag
	GrantTagCount int

	// Optional trinket reward, by catalog key.
	TrinketKey string

	// Scales the next combat enemy's HP (1.0 = unchanged).
	EnemyHPMultiplier float64

	// Requirement: the player's deck must carry at least one card
	// with this tag. Choice 3 always has one.
	RequiresTag *Tag
}

// EventPrompt is a three-choice prompt drawn from an act's pool.
type EventPrompt struct {
	Title       string
	Description string
	Choices     [3]EventChoice
}

// Validate is the catalog-load check: choice 3 must be gated.
func (e *EventPrompt) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("event missing title")
	}
	for i, c := range e.Choices {
		if c.Text == "" {
			return fmt.Errorf("event %q: choice %d missing text", e.Title, i)
		}
		if c.GrantTagCount < 0 {
			return fmt.Errorf("event %q: choice %d negative tag count", e.Title, i)
		}
		if c.EnemyHPMultiplier < 0 {
			return fmt.Errorf("event %q: choice %d negative hp multiplier", e.Title, i)
		}
	}
	if e.Choices[2].RequiresTag == nil {
		return fmt.Errorf("event %q: choice 3 must carry a requirement", e.Title)
	}
	return nil
}

// EventFactory materializes a fresh event template.
type EventFactory func() *EventPrompt

type poolEntry struct {
	factory EventFactory
	weight  int
}

// EventPool is a weighted bag of event factories.
type EventPool struct {
	entries     []poolEntry
	totalWeight int
}

func NewEventPool() *EventPool {
	return &EventPool{}
}

func (p *EventPool) Add(weight int, factory EventFactory) {
	if weight <= 0 || factory == nil {
		return
	}
	p.entries = append(p.entries, poolEntry{factory: factory, weight: weight})
	p.totalWeight += weight
}

func (p *EventPool) Len() int { return len(p.entries) }

// noRepeatRetries bounds the redraw loop when the pool hands back the
// same title twice in a row.
const noRepeatRetries = 10

// Pick draws a weighted random event. If the draw matches lastTitle
// it retries up to noRepeatRetries times, then accepts the duplicate.
func (p *EventPool) Pick(rng *rand.Rand, lastTitle string) *EventPrompt {
	if len(p.entries) == 0 || p.totalWeight <= 0 {
		return nil
	}
	ev := p.draw(rng)
	for retry := 0; retry < noRepeatRetries && ev.Title == lastTitle; retry++ {
		ev = p.draw(rng)
	}
	return ev
}

func (p *EventPool) draw(rng *rand.Rand) *EventPrompt {
	roll := rng.Intn(p.totalWeight)
	for _, e := range p.entries {
		roll -= e.weight
		if roll < 0 {
			return e.factory()
		}
	}
	// Unreachable while totalWeight matches entries.
	return p.entries[len(p.entries)-1].factory()
}
