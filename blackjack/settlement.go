package blackjack

// RoundResult is the settled outcome of one betting round, kept for
// the host until the next showdown overwrites it.
type RoundResult struct {
	Round   int
	Outcome TurnResult

	PlayerValue int
	DealerValue int

	PlayerBlackjack bool
	PlayerBust      bool
	DealerBust      bool

	Bet        int
	ChipsDelta int
	WinBonus   int // trinket win-percent and flat-chip bonuses
	Refund     int // loss refund from trinkets

	Damage int
	Crit   bool
}

// resolveRoundLocked settles the showdown: outcome, chip movement,
// combat damage, stats, and the result-specific bus events. Trinket
// passives triggered by those events run inline, so their deferred
// percent effects are aggregated before the central chip movement.
func (g *Game) resolveRoundLocked() {
	p := g.player
	bet := p.CurrentBet
	g.resolvingBet = bet

	pv := p.Hand.Value()
	dv := g.dealer.Value()

	res := &RoundResult{
		Round:           g.round + 1,
		PlayerValue:     pv,
		DealerValue:     dv,
		PlayerBlackjack: p.Hand.IsBlackjack(),
		PlayerBust:      p.Hand.IsBust(),
		DealerBust:      g.dealer.IsBust(),
		Bet:             bet,
	}

	switch {
	case res.PlayerBust:
		res.Outcome = TurnLose
	case res.DealerBust:
		res.Outcome = TurnWin
	case res.PlayerBlackjack && !g.dealer.IsBlackjack():
		res.Outcome = TurnWin
	case pv > dv:
		res.Outcome = TurnWin
	case dv > pv:
		res.Outcome = TurnLose
	default:
		res.Outcome = TurnPush
	}

	g.events.publish(Event{Kind: EventHandEnd, Result: res.Outcome})

	switch res.Outcome {
	case TurnWin:
		// Result events fire before chips move so win-triggered
		// stack trinkets are counted in this round's bonuses.
		g.events.publish(Event{Kind: EventPlayerWin})
		stats := p.combatStats(g.tags, &p.Hand, &g.dealer)

		num, den := 1, 1
		if res.PlayerBlackjack {
			num, den = 3, 2
		}
		// Greed caps the payout at half the wager.
		if p.hasStatus(StatusGreed) {
			num, den = 1, 2
		}
		winnings := p.winBet(num, den)

		res.WinBonus = bet*stats.WinBonusPercent/100 + stats.FlatChipsOnWin
		if res.WinBonus > 0 {
			p.AddChips(res.WinBonus)
		}
		chipsIn := winnings + res.WinBonus
		res.ChipsDelta = chipsIn
		g.pushDelta(Delta{Kind: DeltaChipChange, Amount: chipsIn, Healing: true})
		g.stats.RecordTurnWon(chipsIn)

		if g.combatMode && g.enemy != nil {
			base := g.turnDamageBaseLocked(bet)
			dmg, crit := g.applyPlayerDamageModifiersLocked(base)
			res.Damage, res.Crit = dmg, crit
			g.damageEnemyLocked(SourceTurnWin, dmg, crit)
			g.pushDelta(Delta{Kind: DeltaScreenShake, Intensity: 12, Duration: 0.35})
		}

	case TurnLose:
		g.events.publish(Event{Kind: EventPlayerLoss})
		stats := p.combatStats(g.tags, &p.Hand, &g.dealer)

		p.loseBet()
		res.Refund = bet * stats.LossRefundPercent / 100
		if res.Refund > 0 {
			p.AddChips(res.Refund)
		}
		res.ChipsDelta = res.Refund - bet
		g.pushDelta(Delta{Kind: DeltaChipChange, Amount: res.ChipsDelta})
		g.stats.RecordTurnLost(bet - res.Refund)

	case TurnPush:
		g.events.publish(Event{Kind: EventPlayerPush})
		stats := p.combatStats(g.tags, &p.Hand, &g.dealer)

		p.returnBet()
		g.stats.RecordTurnPushed()

		// A push still chips the enemy for half the wager.
		if g.combatMode && g.enemy != nil {
			base := g.turnDamageBaseLocked(bet) / 2
			dmg, crit := g.applyPlayerDamageModifiersLocked(base)
			dmg = dmg * (100 + stats.PushDamagePercent) / 100
			res.Damage, res.Crit = dmg, crit
			g.damageEnemyLocked(SourceTurnPush, dmg, crit)
		}
	}

	g.resolvingBet = 0
	g.lastResult = res
}

// turnDamageBaseLocked is the pre-modifier damage of a settled turn:
// the wager, doubled again per DOUBLED card showing in the player's
// hand.
func (g *Game) turnDamageBaseLocked(bet int) int {
	doubled := countFaceUpTagged(g.tags, TagDoubled, &g.player.Hand)
	return bet * (100 + 100*doubled) / 100
}
