package card

import "math/rand"

// Shoe is a multi-deck draw pile plus a discard pile. Cards leave the
// shoe through Deal and come back through Discard; when the draw pile
// runs dry the discard pile is merged back in and reshuffled before
// the next card is served.
type Shoe struct {
	draw    CardList
	discard CardList
	decks   int
}

// NewShoe builds a shoe of decks*52 cards in canonical order. Call
// Shuffle before play; tests rely on the unshuffled order.
func NewShoe(decks int) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{decks: decks}
	s.draw = make(CardList, 0, decks*52)
	for i := 0; i < decks; i++ {
		s.draw.Add(FullDeck()...)
	}
	s.discard = make(CardList, 0, decks*52)
	return s
}

// Shuffle permutes the draw pile only. The discard pile keeps its
// order until it is recycled.
func (s *Shoe) Shuffle(rng *rand.Rand) {
	s.draw.Shuffle(rng)
}

// Deal serves the top card of the draw pile. An empty draw pile first
// recycles the discard pile (merge + reshuffle), atomically with the
// deal. Returns (CardInvalid, false) only when both piles are empty.
func (s *Shoe) Deal(rng *rand.Rand) (Card, bool) {
	if s.draw.Count() == 0 {
		if s.discard.Count() == 0 {
			return CardInvalid, false
		}
		s.draw.Add(s.discard...)
		s.discard = s.discard[:0]
		s.draw.Shuffle(rng)
	}
	return s.draw.PopCard(), true
}

// Discard returns a card to the discard pile.
func (s *Shoe) Discard(cards ...Card) {
	for _, c := range cards {
		if c == CardInvalid || c == CardRear {
			continue
		}
		s.discard.Add(c)
	}
}

func (s *Shoe) Size() int        { return s.draw.Count() }
func (s *Shoe) DiscardSize() int { return s.discard.Count() }
func (s *Shoe) Empty() bool      { return s.draw.Count() == 0 && s.discard.Count() == 0 }

// Decks reports how many 52-card decks the shoe was built from.
func (s *Shoe) Decks() int { return s.decks }

// ForceDraw replaces the draw pile. Cards are served from the end of
// the slice, so the last element is the first card dealt.
func (s *Shoe) ForceDraw(cards []Card) {
	s.draw.Init(cards)
}

// DrawCards exposes a copy of the draw pile, top of the pile last.
func (s *Shoe) DrawCards() []Card {
	out := make([]Card, len(s.draw))
	copy(out, s.draw)
	return out
}
