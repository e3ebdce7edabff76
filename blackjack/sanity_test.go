package blackjack

import "testing"

func TestTierOf(t *testing.T) {
	cases := []struct {
		sanity, max int
		want        SanityTier
	}{
		{100, 100, SanityHigh},
		{76, 100, SanityHigh},
		{75, 100, SanityMedium},
		{51, 100, SanityMedium},
		{50, 100, SanityLow},
		{26, 100, SanityLow},
		{25, 100, SanityVeryLow},
		{1, 100, SanityVeryLow},
		{0, 100, SanityZero},
		{-5, 100, SanityZero},
	}
	for _, tc := range cases {
		if got := TierOf(tc.sanity, tc.max); got != tc.want {
			t.Errorf("TierOf(%d, %d) = %s, want %s", tc.sanity, tc.max, got, tc.want)
		}
	}
}

func TestDegenerateBettingTable(t *testing.T) {
	cases := []struct {
		tier    SanityTier
		amounts [3]int
		enabled [3]bool
	}{
		{SanityHigh, [3]int{BetMin, BetMed, BetMax}, [3]bool{true, true, true}},
		{SanityMedium, [3]int{BetMin, BetMed, BetMax}, [3]bool{false, true, true}},
		{SanityLow, [3]int{BetMin, BetMed, BetMax * 2}, [3]bool{false, true, true}},
		{SanityVeryLow, [3]int{BetMin, BetMed, BetMax * 2}, [3]bool{false, false, true}},
		{SanityZero, [3]int{BetMin, BetMed, BetMax * 4}, [3]bool{false, false, true}},
	}
	for _, tc := range cases {
		opts := sanityBetting(ClassDegenerate, tc.tier)
		if opts.Amounts != tc.amounts || opts.Enabled != tc.enabled {
			t.Errorf("tier %s: got %v/%v, want %v/%v",
				tc.tier, opts.Amounts, opts.Enabled, tc.amounts, tc.enabled)
		}
	}
}

func TestDealerBettingLosesTopEnd(t *testing.T) {
	opts := sanityBetting(ClassDealer, SanityLow)
	if opts.Enabled[2] {
		t.Errorf("dealer should lose the max bet at low sanity")
	}
	if opts.Amounts[1] != BetMed*2 {
		t.Errorf("dealer medium bet = %d, want %d", opts.Amounts[1], BetMed*2)
	}
}

func TestDreamerBettingScalesInstead(t *testing.T) {
	opts := sanityBetting(ClassDreamer, SanityVeryLow)
	if !opts.Enabled[0] || !opts.Enabled[1] || !opts.Enabled[2] {
		t.Errorf("dreamer keeps all options at very low sanity")
	}
	if opts.Amounts[1] != BetMed*2 || opts.Amounts[2] != BetMax*2 {
		t.Errorf("dreamer amounts = %v", opts.Amounts)
	}
}

func TestBettingOptionsFoldInChipsAndStatuses(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "5h")

	g.player.Chips = 7
	opts := g.ApplySanityEffectsToBetting()
	if !opts.Enabled[0] || !opts.Enabled[1] {
		t.Errorf("affordable options disabled: %v", opts.Enabled)
	}
	if opts.Enabled[2] {
		t.Errorf("unaffordable max bet left enabled")
	}

	g.player.Chips = 100
	g.player.applyStatus(StatusMinimumBet, 3, 2, 1)
	opts = g.ApplySanityEffectsToBetting()
	if opts.Enabled[0] {
		t.Errorf("bet below the floor left enabled")
	}

	g.player.applyStatus(StatusForcedAllIn, 0, 2, 1)
	opts = g.ApplySanityEffectsToBetting()
	for i, on := range opts.Enabled {
		if on {
			t.Errorf("option %d enabled under forced all-in", i)
		}
	}
}

func TestEscalationRaisesFloor(t *testing.T) {
	g := scriptedGame(t, 100, "Th", "9s", "8d", "5h")
	g.player.applyStatus(StatusEscalation, 2, 3, 2)
	if floor := g.minimumBetLocked(); floor != 4 {
		t.Errorf("floor = %d, want value*stacks = 4", floor)
	}
}
