package card

// FullDeck returns the 52 cards in canonical order (suit-major, A..K).
func FullDeck() []Card {
	out := make([]Card, 0, 52)
	for id := 0; id < 52; id++ {
		out = append(out, FromID(id))
	}
	return out
}
