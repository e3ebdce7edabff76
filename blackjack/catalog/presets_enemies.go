package catalog

import "fiftytwo-lite/blackjack"

// Built-in enemy blueprints. Between them the two presets exercise
// every trigger kind except passive.
func registerPresetEnemies(c *Catalog) {
	presets := []*EnemyTemplate{
		{
			Key:   "the_didact",
			Name:  "The Didact",
			MaxHP: 100,
			Abilities: []blackjack.Ability{
				{
					Name:   "Lecture",
					Flavor: "You are not listening.",
					Trigger: blackjack.Trigger{
						Kind:  blackjack.TriggerCounter,
						Event: blackjack.EventHandEnd,
						Max:   3,
					},
					Effects: []blackjack.AbilityEffect{
						{
							Kind:           blackjack.AbilityApplyStatus,
							Target:         blackjack.TargetPlayer,
							Status:         blackjack.StatusChipDrain,
							StatusValue:    5,
							StatusDuration: 2,
						},
					},
				},
				{
					Name:   "Red Pen",
					Flavor: "Marked down.",
					Trigger: blackjack.Trigger{
						Kind:  blackjack.TriggerOnEvent,
						Event: blackjack.EventPlayerBust,
					},
					Effects: []blackjack.AbilityEffect{
						{Kind: blackjack.AbilityDamage, Target: blackjack.TargetPlayer, Value: 10},
					},
				},
				{
					Name:   "Pop Quiz",
					Flavor: "Eyes on your own hand.",
					Trigger: blackjack.Trigger{
						Kind:   blackjack.TriggerRandom,
						Event:  blackjack.EventPlayerActionEnd,
						Chance: 0.25,
					},
					Effects: []blackjack.AbilityEffect{
						{Kind: blackjack.AbilityMessage, Text: "The Didact peers over your shoulder."},
					},
				},
				{
					Name:   "Office Hours",
					Flavor: "A moment to collect himself.",
					Trigger: blackjack.Trigger{
						Kind:  blackjack.TriggerHpThreshold,
						Ratio: 0.5,
					},
					Effects: []blackjack.AbilityEffect{
						{Kind: blackjack.AbilityHeal, Target: blackjack.TargetSelf, Value: 20},
					},
				},
			},
		},
		{
			Key:   "the_daemon",
			Name:  "The Daemon",
			MaxHP: 150,
			Elite: true,
			Abilities: []blackjack.Ability{
				{
					Name:   "Fork Bomb",
					Flavor: "It multiplies.",
					Trigger: blackjack.Trigger{
						Kind:    blackjack.TriggerHpSegment,
						Percent: 25,
					},
					Effects: []blackjack.AbilityEffect{
						{Kind: blackjack.AbilityForceHit},
						{Kind: blackjack.AbilityMessage, Text: "The Daemon forces a card into your hand."},
					},
				},
				{
					Name:   "Memory Leak",
					Flavor: "Everything you take, it takes back.",
					Trigger: blackjack.Trigger{
						Kind:      blackjack.TriggerDamageAccumulator,
						Threshold: 40,
					},
					Effects: []blackjack.AbilityEffect{
						{
							Kind:         blackjack.AbilityApplyStatus,
							Target:       blackjack.TargetPlayer,
							Status:       blackjack.StatusRake,
							StatusValue:  10,
							StatusStacks: 3,
						},
					},
				},
				{
					Name:   "Kernel Panic",
					Flavor: "All or nothing.",
					Trigger: blackjack.Trigger{
						Kind:  blackjack.TriggerHpThreshold,
						Ratio: 0.25,
					},
					Effects: []blackjack.AbilityEffect{
						{
							Kind:           blackjack.AbilityApplyStatus,
							Target:         blackjack.TargetPlayer,
							Status:         blackjack.StatusForcedAllIn,
							StatusDuration: 1,
						},
						{Kind: blackjack.AbilityMessage, Text: "The Daemon screams in machine code."},
					},
				},
				{
					Name:   "Segfault",
					Flavor: "It punishes ambition.",
					Trigger: blackjack.Trigger{
						Kind:   blackjack.TriggerOnAction,
						Action: blackjack.ActionDouble,
					},
					Effects: []blackjack.AbilityEffect{
						{
							Kind:           blackjack.AbilityApplyStatus,
							Target:         blackjack.TargetPlayer,
							Status:         blackjack.StatusTilt,
							StatusValue:    20,
							StatusDuration: 2,
						},
					},
				},
			},
		},
	}

	for _, t := range presets {
		if err := c.putEnemy(t); err != nil {
			panic(err)
		}
	}
}
