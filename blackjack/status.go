package blackjack

import "fmt"

// StatusKind enumerates player status effects.
type StatusKind byte

const (
	StatusGreed       StatusKind = 0 // winnings this round capped at bet/2
	StatusChipDrain   StatusKind = 1 // lose value chips at each round end
	StatusRake        StatusKind = 2 // value% of dealt damage siphoned as chips; one stack per application
	StatusTilt        StatusKind = 3 // dealt damage reduced by value%
	StatusMadness     StatusKind = 4 // lose value sanity at each round end
	StatusForcedAllIn StatusKind = 5 // next bet must be the whole stack
	StatusEscalation  StatusKind = 6 // minimum bet rises by value each round held
	StatusNoAdjust    StatusKind = 7 // bet must repeat the previous round's bet
	StatusMinimumBet  StatusKind = 8 // bet must be at least value
	StatusLuckyStreak StatusKind = 9 // +value% crit chance while active
)

var StatusKindDictionary = map[StatusKind]string{
	StatusGreed:       "GREED",
	StatusChipDrain:   "CHIP_DRAIN",
	StatusRake:        "RAKE",
	StatusTilt:        "TILT",
	StatusMadness:     "MADNESS",
	StatusForcedAllIn: "FORCED_ALL_IN",
	StatusEscalation:  "ESCALATION",
	StatusNoAdjust:    "NO_ADJUST",
	StatusMinimumBet:  "MINIMUM_BET",
	StatusLuckyStreak: "LUCKY_STREAK",
}

func (k StatusKind) String() string {
	if name, ok := StatusKindDictionary[k]; ok {
		return name
	}
	return "UNKNOWN"
}

func StatusKindFromString(s string) (StatusKind, error) {
	for kind, name := range StatusKindDictionary {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown status kind: %q", s)
}

// stackable kinds add stacks and refresh duration on reapply instead
// of creating a second instance.
func (k StatusKind) stackable() bool {
	switch k {
	case StatusRake, StatusEscalation:
		return true
	}
	return false
}

// debuff kinds can be eaten by a trinket debuff-block charge.
func (k StatusKind) isDebuff() bool {
	switch k {
	case StatusLuckyStreak:
		return false
	}
	return true
}

// StatusInstance is one active effect on the player. For Rake,
// Remaining counts stacks rather than rounds.
type StatusInstance struct {
	Kind      StatusKind
	Value     int
	Remaining int
	Stacks    int
}

// applyStatus adds or merges an effect on the player. Returns false
// when the apply was consumed by a debuff block.
func (p *Player) applyStatus(kind StatusKind, value, duration, stacks int) bool {
	if kind.isDebuff() && p.consumeDebuffBlock() {
		return false
	}
	if stacks < 1 {
		stacks = 1
	}
	for i := range p.statuses {
		if p.statuses[i].Kind != kind {
			continue
		}
		if kind.stackable() {
			p.statuses[i].Stacks += stacks
		}
		if duration > p.statuses[i].Remaining {
			p.statuses[i].Remaining = duration
		}
		if value > p.statuses[i].Value {
			p.statuses[i].Value = value
		}
		return true
	}
	p.statuses = append(p.statuses, StatusInstance{
		Kind:      kind,
		Value:     value,
		Remaining: duration,
		Stacks:    stacks,
	})
	return true
}

func (p *Player) removeStatus(kind StatusKind) bool {
	for i := range p.statuses {
		if p.statuses[i].Kind == kind {
			// Swap-remove; pipeline order only matters within a tick.
			last := len(p.statuses) - 1
			p.statuses[i] = p.statuses[last]
			p.statuses = p.statuses[:last]
			return true
		}
	}
	return false
}

func (p *Player) hasStatus(kind StatusKind) bool {
	return p.status(kind) != nil
}

func (p *Player) status(kind StatusKind) *StatusInstance {
	for i := range p.statuses {
		if p.statuses[i].Kind == kind {
			return &p.statuses[i]
		}
	}
	return nil
}

// Statuses exposes a copy of the active effects for snapshots.
func (p *Player) Statuses() []StatusInstance {
	out := make([]StatusInstance, len(p.statuses))
	copy(out, p.statuses)
	return out
}

// consumeRakeStack burns one Rake stack after a damage application
// and reports whether the status expired with it.
func (p *Player) consumeRakeStack() (expired bool) {
	s := p.status(StatusRake)
	if s == nil {
		return false
	}
	s.Stacks--
	if s.Stacks <= 0 {
		p.removeStatus(StatusRake)
		return true
	}
	return false
}
