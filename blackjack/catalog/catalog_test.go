package catalog

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"fiftytwo-lite/blackjack"
)

func TestDefaultCatalogCounts(t *testing.T) {
	c := Default()
	if c.TrinketCount() != 12 {
		t.Errorf("trinkets = %d, want 12", c.TrinketCount())
	}
	if c.EnemyCount() != 2 {
		t.Errorf("enemies = %d, want 2", c.EnemyCount())
	}
	if c.EventCount() != 6 {
		t.Errorf("events = %d, want 6", c.EventCount())
	}

	for _, key := range c.TrinketKeys() {
		if c.NewTrinket(key) == nil {
			t.Errorf("key %q does not instantiate", key)
		}
	}
	if c.NewTrinket("no_such_trinket") != nil {
		t.Errorf("unknown key instantiated")
	}
}

func TestSpawnIsolatesInstances(t *testing.T) {
	c := Default()
	tpl := c.Enemy("the_didact")
	if tpl == nil {
		t.Fatalf("preset enemy missing")
	}
	a := tpl.Spawn()
	b := tpl.Spawn()
	if a == b {
		t.Fatalf("spawn returned a shared instance")
	}
	if len(a.Abilities) == 0 || a.Abilities[0] == b.Abilities[0] {
		t.Errorf("spawned enemies share ability state")
	}
	if a.CurrentHP != tpl.MaxHP || a.MaxHP != tpl.MaxHP {
		t.Errorf("spawned hp = %d/%d, want %d", a.CurrentHP, a.MaxHP, tpl.MaxHP)
	}
}

func TestDefaultAct(t *testing.T) {
	c := Default()
	act, err := c.DefaultAct()
	if err != nil {
		t.Fatalf("DefaultAct: %v", err)
	}
	wantKinds := []blackjack.EncounterKind{
		blackjack.EncounterNormal,
		blackjack.EncounterEvent,
		blackjack.EncounterElite,
		blackjack.EncounterEvent,
	}
	if len(act.Encounters) != len(wantKinds) {
		t.Fatalf("encounters = %d, want %d", len(act.Encounters), len(wantKinds))
	}
	for i, k := range wantKinds {
		if act.Encounters[i].Kind != k {
			t.Errorf("encounter %d kind = %s, want %s", i, act.Encounters[i].Kind, k)
		}
	}
	if act.Pool == nil || act.Pool.Len() != c.EventCount() {
		t.Errorf("pool does not cover the registered events")
	}

	if _, err := New().DefaultAct(); err == nil {
		t.Errorf("empty catalog built an act")
	}
}

func TestEventPoolDrawsAreSeedStable(t *testing.T) {
	first := Default().EventPool()
	second := Default().EventPool()
	a, b := rand.New(rand.NewSource(42)), rand.New(rand.NewSource(42))
	last := ""
	for i := 0; i < 20; i++ {
		x := first.Pick(a, last)
		y := second.Pick(b, last)
		if x.Title != y.Title {
			t.Fatalf("draw %d diverged: %q vs %q", i, x.Title, y.Title)
		}
		last = x.Title
	}
}

const sampleTOML = `
[[trinket]]
key = "loaded_dice"
name = "Loaded Dice"
rarity = "Rare"
trigger = "player_win"

[trinket.primary]
type = "add_chips"
value = 3

[trinket.passive]
crit_chance = 5

[trinket.active]
value = 8
cooldown = 2

[[enemy]]
key = "pit_fiend"
name = "Pit Fiend"
max_hp = 80

[[enemy.ability]]
name = "Tantrum"

[enemy.ability.trigger]
kind = "on_action"
action = "DOUBLE"

[[enemy.ability.effect]]
kind = "apply_status"
target = "player"
status = "TILT"
status_value = 20
status_duration = 2

[[event]]
title = "Rigged Table"
description = "The felt hums."
weight = 3

[[event.choice]]
text = "Walk away."

[[event.choice]]
text = "Pay the rake."
chips = -10

[[event.choice]]
text = "Flash a sharp card."
requires_tag = "SHARP"
chips = 30
`

func TestLoadTOMLRegistersEntries(t *testing.T) {
	c := New()
	if err := c.LoadTOML([]byte(sampleTOML)); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}

	tr := c.Trinket("loaded_dice")
	if tr == nil {
		t.Fatalf("trinket not registered")
	}
	if tr.Rarity != blackjack.RarityRare || tr.Trigger != blackjack.EventPlayerWin {
		t.Errorf("trinket enums: %v / %v", tr.Rarity, tr.Trigger)
	}
	if tr.Primary.Type != blackjack.EffectTypeAddChips || tr.Primary.Value != 3 {
		t.Errorf("primary effect: %+v", tr.Primary)
	}
	if tr.Passive["crit_chance"] != 5 {
		t.Errorf("passive map: %+v", tr.Passive)
	}
	if tr.Active == nil || tr.Active.CooldownMax != 2 {
		t.Errorf("active spec: %+v", tr.Active)
	}

	en := c.Enemy("pit_fiend")
	if en == nil || en.MaxHP != 80 || len(en.Abilities) != 1 {
		t.Fatalf("enemy not converted: %+v", en)
	}
	ab := en.Abilities[0]
	if ab.Trigger.Kind != blackjack.TriggerOnAction || ab.Trigger.Action != blackjack.ActionDouble {
		t.Errorf("ability trigger: %+v", ab.Trigger)
	}
	if ab.Effects[0].Status != blackjack.StatusTilt || ab.Effects[0].Target != blackjack.TargetPlayer {
		t.Errorf("ability effect: %+v", ab.Effects[0])
	}

	if c.EventCount() != 1 {
		t.Errorf("event not registered")
	}
}

func TestLoadTOMLRejections(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		kind  ErrorKind
		field string
	}{
		{
			name:  "trinket without key",
			doc:   "[[trinket]]\nname = \"Nameless\"\n",
			kind:  MissingKey,
			field: "key",
		},
		{
			name:  "bad rarity",
			doc:   "[[trinket]]\nkey = \"x\"\nname = \"X\"\nrarity = \"Mythic\"\n",
			kind:  SchemaViolation,
			field: "rarity",
		},
		{
			name:  "trigger without primary",
			doc:   "[[trinket]]\nkey = \"x\"\nname = \"X\"\ntrigger = \"player_win\"\n",
			kind:  MissingKey,
			field: "primary",
		},
		{
			name:  "zero cooldown active",
			doc:   "[[trinket]]\nkey = \"x\"\nname = \"X\"\n[trinket.active]\nvalue = 5\n",
			kind:  RangeViolation,
			field: "active.cooldown",
		},
		{
			name:  "enemy without hp",
			doc:   "[[enemy]]\nkey = \"x\"\nname = \"X\"\n",
			kind:  RangeViolation,
			field: "max_hp",
		},
		{
			name:  "event with two choices",
			doc:   "[[event]]\ntitle = \"T\"\n[[event.choice]]\ntext = \"a\"\n[[event.choice]]\ntext = \"b\"\n",
			kind:  SchemaViolation,
			field: "choice",
		},
		{
			name:  "unknown status in ability",
			doc:   "[[enemy]]\nkey = \"x\"\nname = \"X\"\nmax_hp = 10\n[[enemy.ability]]\nname = \"A\"\n[enemy.ability.trigger]\nkind = \"on_event\"\nevent = \"player_bust\"\n[[enemy.ability.effect]]\nkind = \"apply_status\"\nstatus = \"WRATH\"\n",
			kind:  SchemaViolation,
			field: "effect.status",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := New().LoadTOML([]byte(tc.doc))
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error = %v, want LoadError", err)
			}
			if le.Kind != tc.kind || le.Field != tc.field {
				t.Errorf("got %s on %q, want %s on %q", le.Kind, le.Field, tc.kind, tc.field)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := Default()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Trinket("loaded_dice") == nil {
		t.Errorf("file entries not merged into the presets")
	}

	if err := c.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Errorf("missing file accepted")
	}
}
