package blackjack

// RunStats is the run-scoped accumulator. All mutation goes through
// Record* entry points so the bus never touches fields directly.
type RunStats struct {
	CardsDrawn int

	DamageDealtTotal int
	DamageBySource   map[DamageSource]int

	TurnsPlayed int
	TurnsWon    int
	TurnsLost   int
	TurnsPushed int
	CombatsWon  int

	ChipsBet     int
	ChipsWon     int
	ChipsLost    int
	ChipsDrained int

	HighestChips     int
	HighestChipsTurn int
	LowestChips      int
	LowestChipsTurn  int
	HighestBet       int
	HighestBetTurn   int
}

func NewRunStats(startingChips int) *RunStats {
	return &RunStats{
		DamageBySource: make(map[DamageSource]int),
		HighestChips:   startingChips,
		LowestChips:    startingChips,
	}
}

func (s *RunStats) RecordCardDrawn() { s.CardsDrawn++ }

func (s *RunStats) RecordDamage(source DamageSource, amount int) {
	if amount <= 0 {
		return
	}
	s.DamageDealtTotal += amount
	s.DamageBySource[source] += amount
}

func (s *RunStats) RecordBet(amount, turn int) {
	s.ChipsBet += amount
	if amount > s.HighestBet {
		s.HighestBet = amount
		s.HighestBetTurn = turn
	}
}

func (s *RunStats) RecordTurnWon(chipsWon int) {
	s.TurnsPlayed++
	s.TurnsWon++
	s.ChipsWon += chipsWon
}

func (s *RunStats) RecordTurnLost(chipsLost int) {
	s.TurnsPlayed++
	s.TurnsLost++
	s.ChipsLost += chipsLost
}

func (s *RunStats) RecordTurnPushed() {
	s.TurnsPlayed++
	s.TurnsPushed++
}

func (s *RunStats) RecordCombatWon() { s.CombatsWon++ }

func (s *RunStats) RecordChipsDrained(amount int) {
	if amount > 0 {
		s.ChipsDrained += amount
	}
}

// RecordChipPeak updates the high/low chip marks with a turn stamp.
func (s *RunStats) RecordChipPeak(chips, turn int) {
	if chips > s.HighestChips {
		s.HighestChips = chips
		s.HighestChipsTurn = turn
	}
	if chips < s.LowestChips {
		s.LowestChips = chips
		s.LowestChipsTurn = turn
	}
}

// Clone deep-copies for snapshots.
func (s *RunStats) Clone() *RunStats {
	out := *s
	out.DamageBySource = make(map[DamageSource]int, len(s.DamageBySource))
	for k, v := range s.DamageBySource {
		out.DamageBySource[k] = v
	}
	return &out
}
