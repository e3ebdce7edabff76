package blackjack

import "testing"

func equip(t *testing.T, g *Game, tpl *TrinketTemplate) *TrinketInstance {
	t.Helper()
	if err := tpl.Validate(); err != nil {
		t.Fatalf("template %s: %v", tpl.Key, err)
	}
	inst := NewTrinketInstance(tpl)
	if err := g.GrantTrinket(inst); err != nil {
		t.Fatalf("equip %s: %v", tpl.Key, err)
	}
	return inst
}

func TestPassiveStatContribution(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	equip(t, g, &TrinketTemplate{
		Key:     "test_knuckles",
		Name:    "Test Knuckles",
		Passive: map[string]int{StatKeyDamageFlat: 5},
	})

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	if res := g.LastResult(); res.Damage != 15 {
		t.Errorf("damage = %d, want 10 base + 5 flat", res.Damage)
	}
}

func TestCritBonusScalesDamage(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	equip(t, g, &TrinketTemplate{
		Key:  "test_scope",
		Name: "Test Scope",
		Passive: map[string]int{
			StatKeyCritChance: 100,
			StatKeyCritBonus:  50,
		},
	})

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	res := g.LastResult()
	if !res.Crit {
		t.Fatalf("expected a guaranteed crit, got %+v", res)
	}
	if res.Damage != 15 {
		t.Errorf("crit damage = %d, want 10 * 150%%", res.Damage)
	}
}

func TestWinBonusPercentTrinket(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	inst := equip(t, g, &TrinketTemplate{
		Key:     "test_membership",
		Name:    "Test Membership",
		Trigger: EventPlayerWin,
		Primary: TrinketEffect{Type: EffectTypeAddChipsPercent, Value: 50},
	})

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	res := g.LastResult()
	if res.WinBonus != 5 {
		t.Errorf("win bonus = %d, want 50%% of 10", res.WinBonus)
	}
	// 100 - 10 bet + 20 payout + 5 bonus.
	if snap := g.Snapshot(); snap.Chips != 115 {
		t.Errorf("chips = %d, want 115", snap.Chips)
	}
	if inst.Stat(TrinketStatBonusChips) != 5 {
		t.Errorf("instance stat = %d, want 5", inst.Stat(TrinketStatBonusChips))
	}
}

func TestLossRefundTrinket(t *testing.T) {
	// Player 15 stands into a dealer 20.
	g := scriptedGame(t, 100, "Th", "Ts", "5d", "Kh")
	equip(t, g, &TrinketTemplate{
		Key:     "test_medal",
		Name:    "Test Medal",
		Trigger: EventPlayerLoss,
		Primary: TrinketEffect{Type: EffectTypeRefundChipsPercent, Value: 25},
	})

	if err := g.PlaceBet(20); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	res := g.LastResult()
	if res.Outcome != TurnLose {
		t.Fatalf("expected loss, got %+v", res)
	}
	if res.Refund != 5 {
		t.Errorf("refund = %d, want 25%% of 20", res.Refund)
	}
	if snap := g.Snapshot(); snap.Chips != 85 {
		t.Errorf("chips = %d, want 85", snap.Chips)
	}
}

func TestStackTrinketGrowsAndResets(t *testing.T) {
	g := scriptedGame(t, 1000, "Th", "9s", "8d", "8h")
	inst := equip(t, g, &TrinketTemplate{
		Key:        "test_streak",
		Name:       "Test Streak",
		Trigger:    EventPlayerWin,
		Primary:    TrinketEffect{Type: EffectTypeTrinketStack},
		StackValue: 2,
		StackStat:  StatKeyDamagePercent,
		ResetOn:    EventPlayerLoss,
	})

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	if inst.Stacks != 1 {
		t.Fatalf("stacks = %d after a win, want 1", inst.Stacks)
	}
	stats := g.player.combatStats(nil)
	if stats.DamagePercent != 2 {
		t.Errorf("damage percent = %d, want stacks*value = 2", stats.DamagePercent)
	}

	// A loss wipes the streak.
	g.events.publish(Event{Kind: EventPlayerLoss})
	if inst.Stacks != 0 {
		t.Errorf("stacks = %d after reset event, want 0", inst.Stacks)
	}
}

func TestStackMaxResetToOne(t *testing.T) {
	tpl := &TrinketTemplate{
		Key:        "test_trace",
		Name:       "Test Trace",
		Trigger:    EventCardDrawn,
		Primary:    TrinketEffect{Type: EffectTypeTrinketStack},
		StackMax:   3,
		StackValue: 1,
		StackStat:  StatKeyDamageFlat,
		OnMax:      OnMaxResetToOne,
	}
	inst := NewTrinketInstance(tpl)
	for i := 0; i < 3; i++ {
		inst.incStack()
	}
	if inst.Stacks != 3 {
		t.Fatalf("stacks = %d, want 3 at max", inst.Stacks)
	}
	inst.incStack()
	if inst.Stacks != 1 {
		t.Errorf("stacks = %d after overflow, want reset to 1", inst.Stacks)
	}
}

func TestStackMaxClamp(t *testing.T) {
	inst := NewTrinketInstance(&TrinketTemplate{
		Key:        "test_clamp",
		Name:       "Test Clamp",
		StackMax:   2,
		StackValue: 1,
		StackStat:  StatKeyDamageFlat,
		OnMax:      OnMaxClamp,
	})
	for i := 0; i < 5; i++ {
		inst.incStack()
	}
	if inst.Stacks != 2 {
		t.Errorf("stacks = %d, want clamped 2", inst.Stacks)
	}
}

func TestDebuffBlockEatsStatusApply(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "5h")
	inst := equip(t, g, &TrinketTemplate{
		Key:                 "test_charm",
		Name:                "Test Charm",
		InitialDebuffBlocks: 1,
	})

	g.applyStatusLocked(StatusTilt, 20, 2, 1)
	if g.player.hasStatus(StatusTilt) {
		t.Errorf("debuff landed through the block")
	}
	if inst.DebuffBlocksRemaining != 0 {
		t.Errorf("block charge not consumed")
	}

	// Charges spent; the next apply lands.
	g.applyStatusLocked(StatusTilt, 20, 2, 1)
	if !g.player.hasStatus(StatusTilt) {
		t.Errorf("status blocked with no charges left")
	}
}

func TestPunishHealConvertsHealToDamage(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "5h")
	equip(t, g, &TrinketTemplate{
		Key:                 "test_heart",
		Name:                "Test Heart",
		InitialHealPunishes: 1,
	})
	g.enemy.takeDamage(30) // drop to 70 so a heal would matter

	g.healEnemyLocked(20)
	if g.enemy.CurrentHP != 50 {
		t.Errorf("hp = %d, want 70 - 20 punished", g.enemy.CurrentHP)
	}

	g.healEnemyLocked(20)
	if g.enemy.CurrentHP != 70 {
		t.Errorf("hp = %d, want healed back to 70", g.enemy.CurrentHP)
	}
}

func TestTaggedCardPassives(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "8h")
	g.tags.Assign(mustCard(t, "Th").ID(), TagJagged)
	g.tags.Assign(mustCard(t, "8d").ID(), TagSharp)

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	advanceTo(t, g, StatePlayerTurn)
	if err := g.PlayerAct(ActionStand); err != nil {
		t.Fatalf("stand: %v", err)
	}
	advanceTo(t, g, StateBetting)

	// (10 base + 5 jagged) * 110% sharp = 16.
	if res := g.LastResult(); res.Damage != 16 {
		t.Errorf("damage = %d, want 16", res.Damage)
	}
}

func TestClassTrinketDispatchesFirst(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "5h")
	class := NewTrinketInstance(&TrinketTemplate{
		Key:     "test_class",
		Name:    "Test Class",
		Rarity:  RarityClass,
		Passive: map[string]int{StatKeyCritBonus: 50},
	})
	g.EquipClassTrinket(class)

	all := g.player.allTrinkets()
	if len(all) != 1 || all[0] != class {
		t.Fatalf("class trinket not in dispatch order")
	}
	if stats := g.player.combatStats(nil); stats.CritBonus != 50 {
		t.Errorf("crit bonus = %d, want 50", stats.CritBonus)
	}
}
