// Package catalog holds the immutable content registries: trinket
// templates, enemy blueprints, and encounter events. Entries come
// from built-in presets or TOML files; either way they are validated
// once at load and never mutated afterwards.
package catalog

import (
	"fmt"
	"os"
	"sync"

	"fiftytwo-lite/blackjack"
)

// EnemyTemplate is the spawnable blueprint of an enemy. Spawn hands
// the engine a fresh Enemy with zeroed ability state each time.
type EnemyTemplate struct {
	Key       string
	Name      string
	MaxHP     int
	Elite     bool
	Abilities []blackjack.Ability
}

// Spawn materializes a fresh combat instance.
func (t *EnemyTemplate) Spawn() *blackjack.Enemy {
	abilities := make([]*blackjack.Ability, len(t.Abilities))
	for i := range t.Abilities {
		cp := t.Abilities[i]
		abilities[i] = &cp
	}
	return blackjack.NewEnemy(t.Name, t.MaxHP, abilities...)
}

type eventEntry struct {
	weight   int
	template blackjack.EventPrompt
}

// Catalog is the registry of all loaded content.
type Catalog struct {
	mu       sync.RWMutex
	trinkets map[string]*blackjack.TrinketTemplate
	enemies  map[string]*EnemyTemplate
	events   map[string]*eventEntry
	// Registration order; pools built from it draw identically for
	// the same seed on every run.
	eventOrder []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		trinkets: make(map[string]*blackjack.TrinketTemplate),
		enemies:  make(map[string]*EnemyTemplate),
		events:   make(map[string]*eventEntry),
	}
}

// Default returns a catalog populated with the built-in presets.
func Default() *Catalog {
	c := New()
	registerPresetTrinkets(c)
	registerPresetEnemies(c)
	registerPresetEvents(c)
	return c
}

// LoadFile reads one TOML catalog file, which may carry any mix of
// [[trinket]], [[enemy]], and [[event]] tables.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	return c.LoadTOML(data)
}

// Trinket returns a template by key, nil when absent.
func (c *Catalog) Trinket(key string) *blackjack.TrinketTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trinkets[key]
}

// NewTrinket instantiates a template by key.
func (c *Catalog) NewTrinket(key string) *blackjack.TrinketInstance {
	return blackjack.NewTrinketInstance(c.Trinket(key))
}

// Enemy returns an enemy blueprint by key, nil when absent.
func (c *Catalog) Enemy(key string) *EnemyTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enemies[key]
}

// TrinketKeys lists registered trinket keys in unspecified order.
func (c *Catalog) TrinketKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.trinkets))
	for k := range c.trinkets {
		out = append(out, k)
	}
	return out
}

// TrinketCount reports the number of registered templates.
func (c *Catalog) TrinketCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.trinkets)
}

// EnemyCount reports the number of registered enemy blueprints.
func (c *Catalog) EnemyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.enemies)
}

// EventCount reports the number of registered events.
func (c *Catalog) EventCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// EventPool builds a weighted pool over every registered event.
func (c *Catalog) EventPool() *blackjack.EventPool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pool := blackjack.NewEventPool()
	for _, title := range c.eventOrder {
		e := c.events[title]
		tpl := e.template
		pool.Add(e.weight, func() *blackjack.EventPrompt {
			cp := tpl
			return &cp
		})
	}
	return pool
}

func (c *Catalog) putTrinket(t *blackjack.TrinketTemplate) error {
	if err := t.Validate(); err != nil {
		return schemaErr(t.Key, "", err.Error())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trinkets[t.Key] = t
	return nil
}

func (c *Catalog) putEnemy(t *EnemyTemplate) error {
	if t.Key == "" {
		return missingKey("", "key")
	}
	if t.MaxHP <= 0 {
		return rangeErr(t.Key, "max_hp", "must be > 0")
	}
	for i := range t.Abilities {
		if err := t.Abilities[i].Validate(); err != nil {
			return schemaErr(t.Key, "ability", err.Error())
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enemies[t.Key] = t
	return nil
}

func (c *Catalog) putEvent(weight int, ev blackjack.EventPrompt) error {
	if err := ev.Validate(); err != nil {
		return schemaErr(ev.Title, "", err.Error())
	}
	if weight <= 0 {
		return rangeErr(ev.Title, "weight", "must be > 0")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.events[ev.Title]; !seen {
		c.eventOrder = append(c.eventOrder, ev.Title)
	}
	c.events[ev.Title] = &eventEntry{weight: weight, template: ev}
	return nil
}
