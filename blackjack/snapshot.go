package blackjack

// SnapshotCard is one card as the host may see it. Face-down cards
// carry a negative id so a renderer cannot leak the hole card.
type SnapshotCard struct {
	CardID int
	FaceUp bool
}

// SnapshotTrinket is the host view of an equipped trinket.
type SnapshotTrinket struct {
	Key               string
	Name              string
	Slot              int
	Stacks            int
	CooldownRemaining int
	ActiveReady       bool
	Stats             map[string]int
}

// SnapshotEnemy is the host view of the active enemy.
type SnapshotEnemy struct {
	Name             string
	CurrentHP        int
	MaxHP            int
	TotalDamageTaken int
	Defeated         bool
}

// SnapshotEvent is the host view of a drawn encounter event.
type SnapshotEvent struct {
	Title       string
	Description string
	Choices     [3]EventChoiceView
}

// EventChoiceView strips an EventChoice to what a renderer needs.
type EventChoiceView struct {
	Text   string
	Locked bool
}

// Snapshot is a deep copy of everything a host needs to render the
// run. Nothing in it aliases live engine state.
type Snapshot struct {
	State      State
	Round      int
	StateTimer float64
	RunOver    bool

	PlayerName string
	Class      Class
	Chips      int
	Sanity     int
	MaxSanity  int
	CurrentBet int

	PlayerHand  []SnapshotCard
	PlayerValue int
	DealerHand  []SnapshotCard
	DealerValue int // visible cards only until showdown

	Trinkets []SnapshotTrinket
	Statuses []StatusInstance

	CombatMode bool
	Enemy      *SnapshotEnemy

	ActName    string
	ActCursor  int
	ActLength  int
	Event      *SnapshotEvent
	RerollCost int

	Betting    BettingOptions
	MinimumBet int

	ShoeSize    int
	DiscardSize int
	TaggedCards int

	LastResult *RoundResult
}

// Snapshot deep-copies the current run state.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := &Snapshot{
		State:      g.state,
		Round:      g.round,
		StateTimer: g.stateTimer,
		RunOver:    g.runOver,

		PlayerName: g.player.Name,
		Class:      g.player.Class,
		Chips:      g.player.Chips,
		Sanity:     g.player.Sanity,
		MaxSanity:  g.player.MaxSanity,
		CurrentBet: g.player.CurrentBet,

		PlayerHand:  snapshotHand(&g.player.Hand, true),
		PlayerValue: g.player.Hand.Value(),
		DealerHand:  snapshotHand(&g.dealer, false),
		DealerValue: g.dealer.VisibleValue(),

		Statuses:   g.player.Statuses(),
		CombatMode: g.combatMode,

		ActName:    g.act.Name,
		ActCursor:  g.act.Cursor(),
		ActLength:  len(g.act.Encounters),
		RerollCost: g.rerollCost,

		Betting:    g.bettingOptionsLocked(),
		MinimumBet: g.minimumBetLocked(),

		ShoeSize:    g.shoe.Size(),
		DiscardSize: g.shoe.DiscardSize(),
		TaggedCards: g.tags.TaggedCount(),
	}

	if ct := g.player.ClassTrinket; ct != nil {
		s.Trinkets = append(s.Trinkets, snapshotTrinket(ct, ClassTrinketSlot))
	}
	for slot, t := range g.player.Trinkets {
		if t != nil {
			s.Trinkets = append(s.Trinkets, snapshotTrinket(t, slot))
		}
	}

	if g.enemy != nil {
		s.Enemy = &SnapshotEnemy{
			Name:             g.enemy.Name,
			CurrentHP:        g.enemy.CurrentHP,
			MaxHP:            g.enemy.MaxHP,
			TotalDamageTaken: g.enemy.TotalDamageTaken,
			Defeated:         g.enemy.Defeated,
		}
	}

	if g.pendingEvent != nil {
		ev := &SnapshotEvent{Title: g.pendingEvent.Title, Description: g.pendingEvent.Description}
		for i, c := range g.pendingEvent.Choices {
			locked := c.RequiresTag != nil && !g.tags.AnyWith(*c.RequiresTag)
			ev.Choices[i] = EventChoiceView{Text: c.Text, Locked: locked}
		}
		s.Event = ev
	}

	if g.lastResult != nil {
		res := *g.lastResult
		s.LastResult = &res
	}
	return s
}

func snapshotTrinket(t *TrinketInstance, slot int) SnapshotTrinket {
	stats := make(map[string]int, len(t.Stats))
	for k, v := range t.Stats {
		stats[k] = v
	}
	return SnapshotTrinket{
		Key:               t.Template.Key,
		Name:              t.Template.Name,
		Slot:              slot,
		Stacks:            t.Stacks,
		CooldownRemaining: t.CooldownRemaining,
		ActiveReady:       t.Template.Active != nil && t.activeReady(),
		Stats:             stats,
	}
}

func snapshotHand(h *Hand, owner bool) []SnapshotCard {
	out := make([]SnapshotCard, 0, h.Len())
	for _, hc := range h.Cards() {
		sc := SnapshotCard{FaceUp: hc.FaceUp}
		if hc.FaceUp || owner {
			sc.CardID = hc.Card.ID()
		} else {
			sc.CardID = -1
		}
		out = append(out, sc)
	}
	return out
}
