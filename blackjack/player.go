package blackjack

// TrinketSlots is the number of regular trinket slots; the class
// trinket rides in its own slot.
const TrinketSlots = 6

// ClassTrinketSlot addresses the class trinket in slot-keyed commands
// and snapshots.
const ClassTrinketSlot = -1

// CombatStats are the derived modifiers recomputed from trinkets and
// face-up tagged cards whenever the dirty flag is set.
type CombatStats struct {
	DamageFlat        int
	DamagePercent     int
	CritChance        int // percent, 0-100
	CritBonus         int // extra percent on top of the doubled crit
	WinBonusPercent   int
	LossRefundPercent int
	PushDamagePercent int
	FlatChipsOnWin    int
}

// Player holds everything the run knows about the human: currency,
// sanity, hand, trinkets, and active statuses. Chips double as HP in
// combat.
type Player struct {
	Name       string
	Class      Class
	Chips      int
	MaxSanity  int
	Sanity     int
	CurrentBet int
	Hand       Hand

	Trinkets     [TrinketSlots]*TrinketInstance
	ClassTrinket *TrinketInstance

	statuses   []StatusInstance
	stats      CombatStats
	statsDirty bool

	// Bet placed the previous round, for NO_ADJUST validation.
	lastBet int
}

func NewPlayer(name string, class Class, chips int) *Player {
	return &Player{
		Name:       name,
		Class:      class,
		Chips:      chips,
		MaxSanity:  100,
		Sanity:     100,
		statsDirty: true,
	}
}

// placeBet moves chips into the current bet. Validation happens at
// the command boundary; this just guards the arithmetic.
func (p *Player) placeBet(amount int) bool {
	if amount <= 0 || p.Chips < amount {
		return false
	}
	p.Chips -= amount
	p.CurrentBet = amount
	return true
}

// winBet pays bet + bet*num/den (blackjack pays 3:2, regular 1:1)
// and returns the net winnings.
func (p *Player) winBet(num, den int) int {
	bonus := p.CurrentBet * num / den
	p.Chips += p.CurrentBet + bonus
	p.settleBet()
	return bonus
}

// loseBet forfeits the bet, already deducted at placeBet.
func (p *Player) loseBet() {
	p.settleBet()
}

// returnBet pushes the bet back to the stack.
func (p *Player) returnBet() {
	p.Chips += p.CurrentBet
	p.settleBet()
}

func (p *Player) settleBet() {
	p.lastBet = p.CurrentBet
	p.CurrentBet = 0
}

// AddChips credits (or, negative, debits) chips, clamped at zero.
func (p *Player) AddChips(delta int) int {
	p.Chips += delta
	if p.Chips < 0 {
		p.Chips = 0
	}
	return p.Chips
}

// AddSanity moves sanity, clamped to [0, MaxSanity].
func (p *Player) AddSanity(delta int) int {
	p.Sanity += delta
	if p.Sanity < 0 {
		p.Sanity = 0
	}
	if p.Sanity > p.MaxSanity {
		p.Sanity = p.MaxSanity
	}
	return p.Sanity
}

// allTrinkets yields the class trinket first, then the slots, the
// dispatch order the effect pipeline guarantees.
func (p *Player) allTrinkets() []*TrinketInstance {
	out := make([]*TrinketInstance, 0, TrinketSlots+1)
	if p.ClassTrinket != nil {
		out = append(out, p.ClassTrinket)
	}
	for _, t := range p.Trinkets {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// EquipTrinket places an instance in the first empty slot.
func (p *Player) EquipTrinket(inst *TrinketInstance) bool {
	if inst == nil {
		return false
	}
	for i := range p.Trinkets {
		if p.Trinkets[i] == nil {
			p.Trinkets[i] = inst
			p.statsDirty = true
			return true
		}
	}
	return false
}

func (p *Player) TrinketAt(slot int) *TrinketInstance {
	if slot == ClassTrinketSlot {
		return p.ClassTrinket
	}
	if slot < 0 || slot >= TrinketSlots {
		return nil
	}
	return p.Trinkets[slot]
}

// consumeDebuffBlock spends one block charge from the first trinket
// holding any; only one trinket pays per blocked apply.
func (p *Player) consumeDebuffBlock() bool {
	for _, t := range p.allTrinkets() {
		if t.DebuffBlocksRemaining > 0 {
			t.DebuffBlocksRemaining--
			t.addStat(TrinketStatDebuffsBlocked, 1)
			return true
		}
	}
	return false
}

// consumePunishHeal spends one punish charge from the first trinket
// holding any.
func (p *Player) consumePunishHeal() *TrinketInstance {
	for _, t := range p.allTrinkets() {
		if t.HealPunishesRemaining > 0 {
			t.HealPunishesRemaining--
			return t
		}
	}
	return nil
}

// markStatsDirty forces a recompute before the next damage or payout.
func (p *Player) markStatsDirty() { p.statsDirty = true }

// CombatStats returns the aggregated modifiers, recomputing when
// dirty. Tag passives need the hands currently on the table.
func (p *Player) combatStats(tags *TagSet, hands ...*Hand) CombatStats {
	if p.statsDirty {
		p.aggregateStats()
		p.statsDirty = false
	}
	stats := p.stats
	if tags != nil {
		flat, pct, crit := tags.passiveBonuses(hands...)
		stats.DamageFlat += flat
		stats.DamagePercent += pct
		stats.CritChance += crit
	}
	if s := p.status(StatusLuckyStreak); s != nil {
		stats.CritChance += s.Value
	}
	if s := p.status(StatusTilt); s != nil {
		stats.DamagePercent -= s.Value
	}

	// buff_tag_damage: flat damage per face-up card carrying the tag.
	if tags != nil {
		for _, t := range p.allTrinkets() {
			for _, e := range t.Template.effects() {
				if e.Type != EffectTypeBuffTagDamage {
					continue
				}
				stats.DamageFlat += e.Value * countFaceUpTagged(tags, e.Tag, hands...)
			}
		}
	}
	return stats
}

func countFaceUpTagged(tags *TagSet, tag Tag, hands ...*Hand) int {
	n := 0
	for _, h := range hands {
		if h == nil {
			continue
		}
		for _, hc := range h.Cards() {
			if hc.FaceUp && tags.Has(hc.Card.ID(), tag) {
				n++
			}
		}
	}
	return n
}

// aggregateStats rebuilds the trinket-derived stats from scratch:
// aggregation-deferred template effects plus stack bonuses. Tag
// passives layer on top in combatStats because they need the table.
func (p *Player) aggregateStats() {
	p.stats = CombatStats{}
	for _, t := range p.allTrinkets() {
		tpl := t.Template

		for key, v := range tpl.Passive {
			applyStatBonus(&p.stats, key, v)
		}

		// Template-level deferred contributions (win bonus, refund,
		// damage multiplier, push damage).
		for _, e := range tpl.effects() {
			applyStatBonus(&p.stats, e.statKey(), e.Value)
		}

		// Per-stack contribution.
		if t.Stacks > 0 && tpl.StackStat != "" {
			applyStatBonus(&p.stats, tpl.StackStat, t.Stacks*tpl.StackValue)
		}
	}
}

// applyStatBonus maps a stat key to its CombatStats field. Unknown
// keys belong to passive effects handled elsewhere and are ignored.
func applyStatBonus(stats *CombatStats, key string, value int) {
	if key == "" || value == 0 {
		return
	}
	switch key {
	case StatKeyDamageFlat:
		stats.DamageFlat += value
	case StatKeyDamagePercent:
		stats.DamagePercent += value
	case StatKeyCritChance:
		stats.CritChance += value
	case StatKeyCritBonus:
		stats.CritBonus += value
	case StatKeyWinBonusPercent:
		stats.WinBonusPercent += value
	case StatKeyLossRefundPercent:
		stats.LossRefundPercent += value
	case StatKeyPushDamagePercent:
		stats.PushDamagePercent += value
	case StatKeyFlatChipsOnWin:
		stats.FlatChipsOnWin += value
	}
}
