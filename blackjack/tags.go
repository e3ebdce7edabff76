package blackjack

import "fmt"

// Tag is a modifier attached to a card identity (suit+rank), not to a
// physical card: every copy of that identity carries it.
type Tag byte

const (
	TagVicious  Tag = 0 // on draw: 10 damage to the enemy
	TagVampiric Tag = 1 // on draw: 5 damage, 5 chips to the drawer
	TagLucky    Tag = 2 // passive while face up: +10% crit chance
	TagJagged   Tag = 3 // passive while face up: +5 flat damage
	TagSharp    Tag = 4 // passive while face up: +10% damage
	TagDoubled  Tag = 5 // doubles this card's win-damage share; stripped on hand clear
	TagCursed   Tag = 6 // on draw: lose 5 chips; read as a flag by events
)

var TagDictionary = map[Tag]string{
	TagVicious:  "VICIOUS",
	TagVampiric: "VAMPIRIC",
	TagLucky:    "LUCKY",
	TagJagged:   "JAGGED",
	TagSharp:    "SHARP",
	TagDoubled:  "DOUBLED",
	TagCursed:   "CURSED",
}

func (t Tag) String() string {
	if name, ok := TagDictionary[t]; ok {
		return name
	}
	return "UNKNOWN"
}

func TagFromString(s string) (Tag, error) {
	for tag, name := range TagDictionary {
		if name == s {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("unknown card tag: %q", s)
}

// On-draw tag payloads.
const (
	viciousDamage  = 10
	vampiricDamage = 5
	vampiricChips  = 5
	cursedChipLoss = 5
)

// Passive tag contributions while the tagged card is face up.
const (
	luckyCritPercent   = 10
	jaggedFlatDamage   = 5
	sharpDamagePercent = 10
)

// TagSet is the per-run registry of tags keyed by card id [0,51].
// Order of tags on an id is insertion order.
type TagSet struct {
	tags map[int][]Tag
}

func NewTagSet() *TagSet {
	return &TagSet{tags: make(map[int][]Tag)}
}

// Assign appends the tag unless the id already carries it.
func (ts *TagSet) Assign(cardID int, tag Tag) bool {
	if cardID < 0 || cardID > 51 {
		return false
	}
	for _, t := range ts.tags[cardID] {
		if t == tag {
			return false
		}
	}
	ts.tags[cardID] = append(ts.tags[cardID], tag)
	return true
}

func (ts *TagSet) Remove(cardID int, tag Tag) bool {
	list := ts.tags[cardID]
	for i, t := range list {
		if t == tag {
			ts.tags[cardID] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

func (ts *TagSet) Has(cardID int, tag Tag) bool {
	for _, t := range ts.tags[cardID] {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns the ordered tag list for an id.
func (ts *TagSet) Tags(cardID int) []Tag {
	list := ts.tags[cardID]
	out := make([]Tag, len(list))
	copy(out, list)
	return out
}

func (ts *TagSet) Clear(cardID int) {
	delete(ts.tags, cardID)
}

// AnyWith reports whether any card id carries the tag; event
// requirements key off this.
func (ts *TagSet) AnyWith(tag Tag) bool {
	for _, list := range ts.tags {
		for _, t := range list {
			if t == tag {
				return true
			}
		}
	}
	return false
}

// Untagged returns the card ids carrying no tags at all, in ascending
// order so random grants are deterministic under a seeded RNG.
func (ts *TagSet) Untagged() []int {
	out := make([]int, 0, 52)
	for id := 0; id < 52; id++ {
		if len(ts.tags[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// TaggedCount reports how many ids carry at least one tag.
func (ts *TagSet) TaggedCount() int {
	n := 0
	for _, list := range ts.tags {
		if len(list) > 0 {
			n++
		}
	}
	return n
}

// passiveBonuses sums the always-on contributions of face-up tagged
// cards across the given hands.
func (ts *TagSet) passiveBonuses(hands ...*Hand) (flatDamage, damagePercent, critPercent int) {
	for _, h := range hands {
		if h == nil {
			continue
		}
		for _, hc := range h.Cards() {
			if !hc.FaceUp {
				continue
			}
			for _, t := range ts.tags[hc.Card.ID()] {
				switch t {
				case TagJagged:
					flatDamage += jaggedFlatDamage
				case TagSharp:
					damagePercent += sharpDamagePercent
				case TagLucky:
					critPercent += luckyCritPercent
				}
			}
		}
	}
	return flatDamage, damagePercent, critPercent
}
