package blackjack

// Enemy is the encounter that takes damage in combat. It is distinct
// from the dealer: the dealer is the mechanical blackjack opponent,
// the enemy is the thing the chips hurt.
type Enemy struct {
	Name        string
	Description string
	MaxHP       int
	CurrentHP   int
	Abilities   []*Ability

	// Cumulative damage, never decreases even when the enemy heals.
	// Accumulator triggers key off this.
	TotalDamageTaken int

	Defeated bool
}

func NewEnemy(name string, maxHP int, abilities ...*Ability) *Enemy {
	if maxHP < 1 {
		maxHP = 1
	}
	return &Enemy{
		Name:      name,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		Abilities: abilities,
	}
}

// takeDamage applies damage, clamps HP at zero, and reports whether
// this hit defeated the enemy. Defeat latches: later hits on a dead
// enemy report false.
func (e *Enemy) takeDamage(amount int) (defeated bool) {
	if amount <= 0 {
		return false
	}
	e.CurrentHP -= amount
	e.TotalDamageTaken += amount
	if e.CurrentHP < 0 {
		e.CurrentHP = 0
	}
	if e.CurrentHP == 0 && !e.Defeated {
		e.Defeated = true
		return true
	}
	return false
}

// heal restores HP, clamped at MaxHP. Returns the amount actually
// restored.
func (e *Enemy) heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := e.CurrentHP
	e.CurrentHP += amount
	if e.CurrentHP > e.MaxHP {
		e.CurrentHP = e.MaxHP
	}
	return e.CurrentHP - before
}

// HPPercent is current/max in [0,1].
func (e *Enemy) HPPercent() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return float64(e.CurrentHP) / float64(e.MaxHP)
}

// ScaleHP multiplies both max and current HP; event choices use this
// to toughen or soften the next combat.
func (e *Enemy) ScaleHP(multiplier float64) {
	if multiplier <= 0 {
		return
	}
	e.MaxHP = int(float64(e.MaxHP) * multiplier)
	if e.MaxHP < 1 {
		e.MaxHP = 1
	}
	e.CurrentHP = e.MaxHP
}

// resetAbilityStates clears per-encounter trigger bookkeeping.
func (e *Enemy) resetAbilityStates() {
	for _, a := range e.Abilities {
		a.resetState()
	}
}
