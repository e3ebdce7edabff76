package blackjack

import "fmt"

// EncounterKind tags the entries of an act.
type EncounterKind byte

const (
	EncounterNormal EncounterKind = 0
	EncounterElite  EncounterKind = 1
	EncounterBoss   EncounterKind = 2
	EncounterEvent  EncounterKind = 3
)

var EncounterKindDictionary = map[EncounterKind]string{
	EncounterNormal: "normal",
	EncounterElite:  "elite",
	EncounterBoss:   "boss",
	EncounterEvent:  "event",
}

func (k EncounterKind) String() string {
	if name, ok := EncounterKindDictionary[k]; ok {
		return name
	}
	return "unknown"
}

// EnemyFactory materializes a fresh enemy for a combat encounter.
type EnemyFactory func() *Enemy

// Encounter is one scheduled act entry. Combat kinds carry an enemy
// factory; Event kind pulls from the owning act's pool.
type Encounter struct {
	Kind  EncounterKind
	Enemy EnemyFactory
}

// Act is an ordered run segment: encounters, a shared event pool, and
// a cursor. Acts chain through Next; a nil Next ends the run.
type Act struct {
	Name       string
	Encounters []Encounter
	Pool       *EventPool
	Next       *Act

	cursor int
}

func (a *Act) Validate() error {
	if len(a.Encounters) == 0 {
		return fmt.Errorf("act %q has no encounters", a.Name)
	}
	for i, enc := range a.Encounters {
		switch enc.Kind {
		case EncounterNormal, EncounterElite, EncounterBoss:
			if enc.Enemy == nil {
				return fmt.Errorf("act %q: combat encounter %d has no enemy factory", a.Name, i)
			}
		case EncounterEvent:
			if a.Pool == nil || a.Pool.Len() == 0 {
				return fmt.Errorf("act %q: event encounter %d but empty pool", a.Name, i)
			}
		default:
			return fmt.Errorf("act %q: unknown encounter kind %d", a.Name, enc.Kind)
		}
	}
	return nil
}

// Current returns the encounter under the cursor, nil when complete.
func (a *Act) Current() *Encounter {
	if a.cursor >= len(a.Encounters) {
		return nil
	}
	return &a.Encounters[a.cursor]
}

// Advance moves the cursor one encounter forward.
func (a *Act) Advance() {
	if a.cursor < len(a.Encounters) {
		a.cursor++
	}
}

// Complete reports cursor exhaustion.
func (a *Act) Complete() bool { return a.cursor >= len(a.Encounters) }

// Cursor exposes progress for snapshots.
func (a *Act) Cursor() int { return a.cursor }
