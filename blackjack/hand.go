package blackjack

import (
	"strings"

	"fiftytwo-lite/card"
)

// HandCard is a card in someone's hand plus its table-facing state.
type HandCard struct {
	Card   card.Card
	FaceUp bool
}

// Hand is an ordered set of cards with cached blackjack scoring.
type Hand struct {
	cards       []HandCard
	value       int
	isBlackjack bool
	isBust      bool
}

func (h *Hand) Add(c card.Card, faceUp bool) {
	h.cards = append(h.cards, HandCard{Card: c, FaceUp: faceUp})
	h.rescore()
}

func (h *Hand) Len() int { return len(h.cards) }

func (h *Hand) Cards() []HandCard {
	out := make([]HandCard, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) CardAt(i int) (HandCard, bool) {
	if i < 0 || i >= len(h.cards) {
		return HandCard{}, false
	}
	return h.cards[i], true
}

// RemoveAt takes a card out of the hand, preserving order.
func (h *Hand) RemoveAt(i int) (card.Card, bool) {
	if i < 0 || i >= len(h.cards) {
		return card.CardInvalid, false
	}
	c := h.cards[i].Card
	h.cards = append(h.cards[:i], h.cards[i+1:]...)
	h.rescore()
	return c, true
}

// Value is the greedy-ace blackjack total: aces count 11, demoted one
// at a time (last ace first) while the total busts.
func (h *Hand) Value() int { return h.value }

// IsBlackjack reports a natural: exactly two cards totaling 21.
func (h *Hand) IsBlackjack() bool { return h.isBlackjack }

func (h *Hand) IsBust() bool { return h.isBust }

// VisibleValue scores only the face-up cards, what the table shows
// while the hole card is down.
func (h *Hand) VisibleValue() int {
	visible := make([]card.Card, 0, len(h.cards))
	for _, hc := range h.cards {
		if hc.FaceUp {
			visible = append(visible, hc.Card)
		}
	}
	v, _ := scoreCards(visible)
	return v
}

// AceValue reports what the ace at index i currently counts for (11
// or 1) under the greedy demotion; 0 if the card is not an ace.
func (h *Hand) AceValue(i int) int {
	if i < 0 || i >= len(h.cards) || !h.cards[i].Card.IsAce() {
		return 0
	}
	all := make([]card.Card, 0, len(h.cards))
	for _, hc := range h.cards {
		all = append(all, hc.Card)
	}
	_, demoted := scoreCards(all)

	// Demotion walks from the last ace backwards.
	acesSeen := 0
	for j := len(h.cards) - 1; j >= 0; j-- {
		if !h.cards[j].Card.IsAce() {
			continue
		}
		acesSeen++
		if j == i {
			if acesSeen <= demoted {
				return 1
			}
			return 11
		}
	}
	return 0
}

// RevealAll flips every card face up.
func (h *Hand) RevealAll() {
	for i := range h.cards {
		h.cards[i].FaceUp = true
	}
}

// RevealAt flips one card face up. Reports whether it was face down.
func (h *Hand) RevealAt(i int) bool {
	if i < 0 || i >= len(h.cards) || h.cards[i].FaceUp {
		return false
	}
	h.cards[i].FaceUp = true
	return true
}

// Clear empties the hand into the shoe's discard pile and returns the
// discarded cards so the caller can strip temporary tags.
func (h *Hand) Clear(shoe *card.Shoe) []card.Card {
	out := make([]card.Card, 0, len(h.cards))
	for _, hc := range h.cards {
		out = append(out, hc.Card)
	}
	if shoe != nil {
		shoe.Discard(out...)
	}
	h.cards = h.cards[:0]
	h.rescore()
	return out
}

func (h *Hand) String() string {
	var sb strings.Builder
	for i, hc := range h.cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if hc.FaceUp {
			sb.WriteString(hc.Card.String())
		} else {
			sb.WriteString("??")
		}
	}
	return sb.String()
}

func (h *Hand) rescore() {
	all := make([]card.Card, 0, len(h.cards))
	for _, hc := range h.cards {
		all = append(all, hc.Card)
	}
	h.value, _ = scoreCards(all)
	h.isBlackjack = len(h.cards) == 2 && h.value == 21
	h.isBust = h.value > 21
}

// scoreCards returns the greedy-ace total and how many aces were
// demoted from 11 to 1 to get there.
func scoreCards(cards []card.Card) (total int, demoted int) {
	aces := 0
	for _, c := range cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && demoted < aces {
		total -= 10
		demoted++
	}
	return total, demoted
}
