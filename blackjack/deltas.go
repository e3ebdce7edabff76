package blackjack

// DeltaKind enumerates renderer delta messages. Deltas are
// declarative and idempotent: a host that drops them re-reads the
// snapshot, nothing replays.
type DeltaKind byte

const (
	DeltaCardDealt    DeltaKind = 0
	DeltaCardFlipped  DeltaKind = 1
	DeltaDamageNumber DeltaKind = 2
	DeltaScreenShake  DeltaKind = 3
	DeltaChipChange   DeltaKind = 4
	DeltaEnemyHP      DeltaKind = 5
)

var DeltaKindDictionary = map[DeltaKind]string{
	DeltaCardDealt:    "card_dealt",
	DeltaCardFlipped:  "card_flipped",
	DeltaDamageNumber: "damage_number",
	DeltaScreenShake:  "screen_shake",
	DeltaChipChange:   "chip_change",
	DeltaEnemyHP:      "enemy_hp",
}

// Delta is one renderer-facing change notice.
type Delta struct {
	Kind DeltaKind

	// card deltas
	CardID   int
	Index    int
	ByDealer bool
	FaceUp   bool

	// damage_number / chip_change / enemy_hp
	Amount  int
	Crit    bool
	Healing bool

	// screen_shake
	Intensity float64
	Duration  float64
}

func (g *Game) pushDelta(d Delta) {
	g.deltas = append(g.deltas, d)
}

// DrainDeltas hands the renderer queue to the host and clears it.
func (g *Game) DrainDeltas() []Delta {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.deltas
	g.deltas = nil
	return out
}
