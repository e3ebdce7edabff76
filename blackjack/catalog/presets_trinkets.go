package catalog

import "fiftytwo-lite/blackjack"

// Built-in trinket templates. These register through the same
// validation path as TOML entries; a bad preset panics at startup
// because it is a programming error, not input.
func registerPresetTrinkets(c *Catalog) {
	presets := []*blackjack.TrinketTemplate{
		{
			Key:         "lucky_chip",
			Name:        "Lucky Chip",
			Description: "A casino chip worn smooth by nervous thumbs. +10% crit chance.",
			Rarity:      blackjack.RarityCommon,
			Passive:     map[string]int{blackjack.StatKeyCritChance: 10},
		},
		{
			Key:         "broken_watch",
			Name:        "Broken Watch",
			Description: "Right twice a day. +3 chips at the end of every hand.",
			Rarity:      blackjack.RarityCommon,
			Trigger:     blackjack.EventHandEnd,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypeAddChips, Value: 3},
		},
		{
			Key:         "iron_knuckles",
			Name:        "Iron Knuckles",
			Description: "+5 flat damage. Activated: sacrifice a card to strike for 150% of its value.",
			Rarity:      blackjack.RarityUncommon,
			Passive:     map[string]int{blackjack.StatKeyDamageFlat: 5},
			Active:      &blackjack.ActiveSpec{Value: 150, CooldownMax: 4, NeedsTarget: true},
		},
		{
			Key:         "streak_counter",
			Name:        "Streak Counter",
			Description: "Counts wins. +2% damage per consecutive win; a loss wipes it.",
			Rarity:      blackjack.RarityRare,
			Trigger:     blackjack.EventPlayerWin,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypeTrinketStack},
			StackValue:  2,
			StackStat:   blackjack.StatKeyDamagePercent,
			ResetOn:     blackjack.EventPlayerLoss,
		},
		{
			Key:         "cursed_skull",
			Name:        "Cursed Skull",
			Description: "Curses two cards each combat. The dead hit 25% harder.",
			Rarity:      blackjack.RarityRare,
			Trigger:     blackjack.EventCombatStart,
			Primary: blackjack.TrinketEffect{
				Type:     blackjack.EffectTypeAddTagToCards,
				Tag:      blackjack.TagCursed,
				TagCount: 2,
			},
			Secondary: &blackjack.TrinketEffect{Type: blackjack.EffectTypeDamageMultiplier, Value: 25},
		},
		{
			Key:                 "warded_charm",
			Name:                "Warded Charm",
			Description:         "Absorbs the next three debuffs aimed at you.",
			Rarity:              blackjack.RarityUncommon,
			InitialDebuffBlocks: 3,
		},
		{
			Key:                 "bleeding_heart",
			Name:                "Bleeding Heart",
			Description:         "Punishes healing: charges convert enemy heals into wounds.",
			Rarity:              blackjack.RarityRare,
			Trigger:             blackjack.EventCombatStart,
			Primary:             blackjack.TrinketEffect{Type: blackjack.EffectTypePunishHeal, Value: 1},
			InitialHealPunishes: 2,
		},
		{
			Key:         "tarnished_medal",
			Name:        "Tarnished Medal",
			Description: "A consolation prize. Refunds 25% of a lost bet.",
			Rarity:      blackjack.RarityCommon,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypeRefundChipsPercent, Value: 25},
		},
		{
			Key:         "elite_membership",
			Name:        "Elite Membership",
			Description: "The house comps you: +50% winnings and 5 chips on every win.",
			Rarity:      blackjack.RarityLegendary,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypeAddChipsPercent, Value: 50},
			Passive:     map[string]int{blackjack.StatKeyFlatChipsOnWin: 5},
		},
		{
			Key:         "stack_trace",
			Name:        "Stack Trace",
			Description: "+1 flat damage per card drawn, five deep, then it unwinds.",
			Rarity:      blackjack.RarityUncommon,
			Trigger:     blackjack.EventCardDrawn,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypeTrinketStack},
			StackMax:    5,
			StackValue:  1,
			StackStat:   blackjack.StatKeyDamageFlat,
			OnMax:       blackjack.OnMaxResetToOne,
		},
		{
			Key:         "pushers_pebble",
			Name:        "Pusher's Pebble",
			Description: "A tie is a win if you squint. Pushes deal full damage.",
			Rarity:      blackjack.RarityUncommon,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypePushDamagePercent, Value: 100},
		},
		{
			Key:         "degenerates_gambit",
			Name:        "Degenerate's Gambit",
			Description: "Blackjack pays the bold: +25 chips on a natural, crits hit 50% harder.",
			Rarity:      blackjack.RarityClass,
			Trigger:     blackjack.EventPlayerBlackjack,
			Primary:     blackjack.TrinketEffect{Type: blackjack.EffectTypeAddChips, Value: 25},
			Passive:     map[string]int{blackjack.StatKeyCritBonus: 50},
			Active:      &blackjack.ActiveSpec{Value: 20, CooldownMax: 3},
		},
	}

	for _, t := range presets {
		if err := c.putTrinket(t); err != nil {
			panic(err)
		}
	}
}
