package card

import "testing"

func TestIDRoundTrip(t *testing.T) {
	for id := 0; id < 52; id++ {
		c := FromID(id)
		if c == CardInvalid {
			t.Fatalf("FromID(%d) invalid", id)
		}
		if got := c.ID(); got != id {
			t.Errorf("FromID(%d).ID() = %d", id, got)
		}
	}
	if FromID(-1) != CardInvalid || FromID(52) != CardInvalid {
		t.Errorf("out-of-range ids should be invalid")
	}
	if CardInvalid.ID() != -1 || CardRear.ID() != -1 {
		t.Errorf("sentinel cards should report id -1")
	}
}

func TestBlackjackValue(t *testing.T) {
	cases := []struct {
		card string
		want int
	}{
		{"As", 11},
		{"2h", 2},
		{"9c", 9},
		{"Td", 10},
		{"Js", 10},
		{"Qh", 10},
		{"Kc", 10},
	}
	for _, tc := range cases {
		c, err := ParseCard(tc.card)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.card, err)
		}
		if got := c.BlackjackValue(); got != tc.want {
			t.Errorf("%s value = %d, want %d", tc.card, got, tc.want)
		}
	}
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("10h")
	if err != nil {
		t.Fatalf("parse 10h: %v", err)
	}
	if c.Rank() != 10 || c.Suit() != Heart {
		t.Errorf("10h parsed to rank %d suit %v", c.Rank(), c.Suit())
	}

	if _, err := ParseCard("Xq"); err == nil {
		t.Errorf("expected error for bad suit")
	}
	if _, err := ParseCard("A"); err == nil {
		t.Errorf("expected error for short string")
	}
}
