package blackjack

import (
	"fmt"

	"fiftytwo-lite/card"
)

type Config struct {
	// Shoe
	Decks int

	// Player
	PlayerName    string
	Class         Class
	StartingChips int

	// Run content. Act is required; nil falls back to a bare
	// single-combat act so the engine is usable without a catalog.
	Act *Act

	// RNG seed (0 => time-based)
	Seed int64

	// Test hook: exact draw order; the last element is dealt first.
	// Replaces the shuffled shoe when non-empty.
	DeckOverride []card.Card

	// Test hook: skip the combat preview countdown of the first
	// encounter so rounds start immediately.
	SkipPreviews bool
}

func (c *Config) validate() error {
	if c.Decks <= 0 {
		c.Decks = 1
	}
	if c.Decks > 8 {
		return fmt.Errorf("Decks must be <= 8")
	}
	if c.StartingChips == 0 {
		c.StartingChips = StartingChips
	}
	if c.StartingChips < 0 {
		return fmt.Errorf("StartingChips must be > 0")
	}
	if c.PlayerName == "" {
		c.PlayerName = "Player"
	}
	if _, ok := ClassDictionary[c.Class]; !ok {
		return fmt.Errorf("unknown class: %d", c.Class)
	}
	for _, over := range c.DeckOverride {
		if over == card.CardInvalid || over == card.CardRear {
			return fmt.Errorf("DeckOverride contains invalid card")
		}
	}
	return nil
}
