package blackjack

// SanityTier buckets the sanity bar for the class modifier tables.
type SanityTier byte

const (
	SanityHigh    SanityTier = 0 // > 75%
	SanityMedium  SanityTier = 1 // 51-75%
	SanityLow     SanityTier = 2 // 26-50%
	SanityVeryLow SanityTier = 3 // 1-25%
	SanityZero    SanityTier = 4 // exactly 0
)

var SanityTierDictionary = map[SanityTier]string{
	SanityHigh:    "high",
	SanityMedium:  "medium",
	SanityLow:     "low",
	SanityVeryLow: "very_low",
	SanityZero:    "zero",
}

func (t SanityTier) String() string {
	if name, ok := SanityTierDictionary[t]; ok {
		return name
	}
	return "unknown"
}

// TierOf buckets a sanity value against its maximum.
func TierOf(sanity, maxSanity int) SanityTier {
	if sanity <= 0 {
		return SanityZero
	}
	if maxSanity <= 0 {
		return SanityHigh
	}
	pct := sanity * 100 / maxSanity
	switch {
	case pct > 75:
		return SanityHigh
	case pct > 50:
		return SanityMedium
	case pct > 25:
		return SanityLow
	default:
		return SanityVeryLow
	}
}

// BettingOptions is what the betting surface shows: three bet sizes
// and whether each is available at the player's current sanity tier.
type BettingOptions struct {
	Amounts [3]int
	Enabled [3]bool
}

// sanityBetting applies the per-class tier table to the MIN/MED/MAX
// bases. Each class degrades differently as sanity drops.
func sanityBetting(class Class, tier SanityTier) BettingOptions {
	opts := BettingOptions{
		Amounts: [3]int{BetMin, BetMed, BetMax},
		Enabled: [3]bool{true, true, true},
	}

	switch class {
	case ClassDegenerate:
		// The Degenerate's options polarize: small bets vanish, the
		// big bet balloons.
		switch tier {
		case SanityMedium:
			opts.Enabled[0] = false
		case SanityLow:
			opts.Enabled[0] = false
			opts.Amounts[2] = BetMax * 2
		case SanityVeryLow:
			opts.Enabled[0] = false
			opts.Enabled[1] = false
			opts.Amounts[2] = BetMax * 2
		case SanityZero:
			opts.Enabled[0] = false
			opts.Enabled[1] = false
			opts.Amounts[2] = BetMax * 4
		}

	case ClassDealer:
		// The Dealer loses the nerve for big bets first.
		switch tier {
		case SanityMedium:
			opts.Enabled[2] = false
		case SanityLow:
			opts.Enabled[2] = false
			opts.Amounts[1] = BetMed * 2
		case SanityVeryLow:
			opts.Enabled[2] = false
			opts.Enabled[0] = false
		case SanityZero:
			opts.Enabled[2] = false
			opts.Enabled[0] = false
			opts.Amounts[1] = BetMed * 2
		}

	case ClassDetective:
		// The Detective narrows to the middle line.
		switch tier {
		case SanityMedium:
			opts.Enabled[0] = false
			opts.Enabled[2] = false
		case SanityLow:
			opts.Enabled[0] = false
			opts.Enabled[2] = false
		case SanityVeryLow:
			opts.Enabled[0] = false
			opts.Enabled[2] = false
			opts.Amounts[1] = BetMed * 2
		case SanityZero:
			opts.Enabled[0] = false
			opts.Enabled[2] = false
			opts.Amounts[1] = BetMed * 4
		}

	case ClassDreamer:
		// The Dreamer drifts: amounts scale up gently instead of
		// options closing.
		switch tier {
		case SanityLow:
			opts.Amounts[1] = BetMed * 2
		case SanityVeryLow:
			opts.Amounts[1] = BetMed * 2
			opts.Amounts[2] = BetMax * 2
		case SanityZero:
			opts.Enabled[0] = false
			opts.Amounts[1] = BetMed * 2
			opts.Amounts[2] = BetMax * 4
		}
	}

	return opts
}

// ApplySanityEffectsToBetting reports the betting options for the
// player's class at their current tier, with status overlays
// (escalation, minimum bet) folded in.
func (g *Game) ApplySanityEffectsToBetting() BettingOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bettingOptionsLocked()
}

func (g *Game) bettingOptionsLocked() BettingOptions {
	p := g.player
	opts := sanityBetting(p.Class, TierOf(p.Sanity, p.MaxSanity))

	floor := g.minimumBetLocked()
	for i := range opts.Amounts {
		if opts.Amounts[i] < floor {
			opts.Enabled[i] = false
		}
		if opts.Amounts[i] > p.Chips {
			opts.Enabled[i] = false
		}
	}
	if p.hasStatus(StatusForcedAllIn) {
		// Only the whole stack is playable.
		for i := range opts.Enabled {
			opts.Enabled[i] = false
		}
	}
	return opts
}

// minimumBetLocked folds MINIMUM_BET and ESCALATION statuses into a
// floor for bet validation.
func (g *Game) minimumBetLocked() int {
	floor := 1
	if s := g.player.status(StatusMinimumBet); s != nil && s.Value > floor {
		floor = s.Value
	}
	if s := g.player.status(StatusEscalation); s != nil {
		escalated := s.Value * s.Stacks
		if escalated > floor {
			floor = escalated
		}
	}
	return floor
}
