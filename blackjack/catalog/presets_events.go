package catalog

import "fiftytwo-lite/blackjack"

func tagp(t blackjack.Tag) *blackjack.Tag { return &t }

// Built-in encounter events. Every third choice is gated on a tag
// the other events can grant.
func registerPresetEvents(c *Catalog) {
	presets := []struct {
		weight int
		event  blackjack.EventPrompt
	}{
		{
			weight: 3,
			event: blackjack.EventPrompt{
				Title:       "The Dealer's Favor",
				Description: "The dealer slides something across the felt without looking at you.",
				Choices: [3]blackjack.EventChoice{
					{Text: "Take the chips.", ChipsDelta: 30},
					{Text: "Take the blessing.", SanityDelta: -10, GrantTag: blackjack.TagLucky, GrantTagCount: 2},
					{Text: "[LUCKY] Show your charmed cards.", ChipsDelta: 60, RequiresTag: tagp(blackjack.TagLucky)},
				},
			},
		},
		{
			weight: 3,
			event: blackjack.EventPrompt{
				Title:       "Back Alley Shrine",
				Description: "Candle wax over old card stock. Someone prayed here and lost anyway.",
				Choices: [3]blackjack.EventChoice{
					{Text: "Pray for clarity.", SanityDelta: 15},
					{Text: "Offer chips, sharpen your deck.", ChipsDelta: -20, GrantTag: blackjack.TagJagged, GrantTagCount: 2},
					{Text: "[JAGGED] Press a torn card into the wax.", TrinketKey: "iron_knuckles", RequiresTag: tagp(blackjack.TagJagged)},
				},
			},
		},
		{
			weight: 2,
			event: blackjack.EventPrompt{
				Title:       "Blood Pact",
				Description: "A stranger offers to sign your deck. The pen is not filled with ink.",
				Choices: [3]blackjack.EventChoice{
					{Text: "Refuse politely.", ChipsDelta: -15, SanityDelta: 10},
					{Text: "Sign two cards.", SanityDelta: -10, GrantTag: blackjack.TagVampiric, GrantTagCount: 2},
					{Text: "[VAMPIRIC] Show your signature.", ChipsDelta: 40, SanityDelta: -5, RequiresTag: tagp(blackjack.TagVampiric)},
				},
			},
		},
		{
			weight: 2,
			event: blackjack.EventPrompt{
				Title:       "The Collector",
				Description: "Shelves of confiscated charms. He knows what you are carrying.",
				Choices: [3]blackjack.EventChoice{
					{Text: "Buy the watch.", ChipsDelta: -25, TrinketKey: "broken_watch"},
					{Text: "Sell him a story.", ChipsDelta: 10},
					{Text: "[CURSED] Trade in kind.", ChipsDelta: 10, TrinketKey: "cursed_skull", RequiresTag: tagp(blackjack.TagCursed)},
				},
			},
		},
		{
			weight: 2,
			event: blackjack.EventPrompt{
				Title:       "Whispering Cards",
				Description: "The deck murmurs when you are not playing it.",
				Choices: [3]blackjack.EventChoice{
					{Text: "Listen closely.", SanityDelta: -5, GrantTag: blackjack.TagVicious, GrantTagCount: 2},
					{Text: "Hone one card on the table edge.", GrantTag: blackjack.TagSharp, GrantTagCount: 1},
					{Text: "[VICIOUS] Let them hunt ahead.", EnemyHPMultiplier: 0.75, RequiresTag: tagp(blackjack.TagVicious)},
				},
			},
		},
		{
			weight: 3,
			event: blackjack.EventPrompt{
				Title:       "A Moment's Rest",
				Description: "A quiet booth, a warm drink, nobody dealing.",
				Choices: [3]blackjack.EventChoice{
					{Text: "Sleep.", SanityDelta: 20},
					{Text: "Count your winnings twice.", ChipsDelta: 20, SanityDelta: -10},
					{Text: "[SHARP] Polish the edge and breathe.", SanityDelta: 25, RequiresTag: tagp(blackjack.TagSharp)},
				},
			},
		},
	}

	for _, p := range presets {
		if err := c.putEvent(p.weight, p.event); err != nil {
			panic(err)
		}
	}
}
