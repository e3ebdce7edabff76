package blackjack

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"fiftytwo-lite/card"
)

// Game is the run context: shoe, player, enemy, act progression, the
// state machine, and the event bus. All engine time advances through
// Update(dt); there are no background goroutines and no blocking
// calls. The mutex only guards the host-facing surface.
type Game struct {
	cfg Config
	rng *rand.Rand
	mu  sync.Mutex

	state      State
	round      int
	stateTimer float64

	// One scheduled callback per state; entering a new state clears
	// any in-flight schedule.
	pendingAt float64
	pendingFn func()

	shoe   *card.Shoe
	tags   *TagSet
	player *Player
	dealer Hand

	enemy      *Enemy
	combatMode bool

	act            *Act
	pendingEvent   *EventPrompt
	lastEventTitle string
	rerollCost     int
	// HP multiplier from an event choice, applied to the next combat.
	pendingHPMult float64

	// Bet being settled, visible to trinket percent effects.
	resolvingBet int
	lastResult   *RoundResult

	// Trinket slot waiting in the Targeting state; -1 when none.
	targetSlot int

	stats  *RunStats
	events bus
	deltas []Delta

	runOver bool
}

// NewGame builds a run from the config. The subscriber list of the
// bus is fixed here and never changes afterwards.
func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(seed)),
		state:         StateBetting,
		tags:          NewTagSet(),
		player:        NewPlayer(cfg.PlayerName, cfg.Class, cfg.StartingChips),
		stats:         NewRunStats(cfg.StartingChips),
		pendingHPMult: 1.0,
		targetSlot:    -1,
	}

	g.shoe = card.NewShoe(cfg.Decks)
	g.shoe.Shuffle(g.rng)
	if len(cfg.DeckOverride) > 0 {
		g.shoe.ForceDraw(cfg.DeckOverride)
	}

	g.act = cfg.Act
	if g.act == nil {
		g.act = fallbackAct()
	}
	if err := g.act.Validate(); err != nil {
		return nil, err
	}

	g.events.subscribe(g.onEventStats)
	g.events.subscribe(g.onEventAbilities)
	g.events.subscribe(g.onEventTrinkets)

	g.enterEncounterLocked()
	return g, nil
}

// fallbackAct keeps the engine usable without a catalog: one plain
// combat against a featureless enemy.
func fallbackAct() *Act {
	return &Act{
		Name: "Fallback",
		Encounters: []Encounter{
			{Kind: EncounterNormal, Enemy: func() *Enemy {
				return NewEnemy("Sparring Dummy", 100)
			}},
		},
	}
}

// SeedRNG reseeds the run's PRNG. Meant for the moment a run starts,
// before any cards move.
func (g *Game) SeedRNG(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng = rand.New(rand.NewSource(seed))
}

// State reports the current machine state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Round reports the number of completed betting rounds this run.
func (g *Game) Round() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

// Stats returns a copy of the run accumulator.
func (g *Game) Stats() *RunStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats.Clone()
}

// LastResult returns the most recent settled round, nil before the
// first showdown.
func (g *Game) LastResult() *RoundResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastResult == nil {
		return nil
	}
	out := *g.lastResult
	return &out
}

// DrainEvents hands the host every event published since the last
// drain, in publish order.
func (g *Game) DrainEvents() []Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.events.drain()
}

// Tags exposes the tag registry (shared, not copied; hosts read only).
func (g *Game) Tags() *TagSet { return g.tags }

// ---------------------------------------------------------------------------
// Tick

// Update advances engine time. dt only moves timers past thresholds;
// it never changes decisions, so a seeded run replays identically at
// any frame rate.
func (g *Game) Update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.runOver {
		return
	}
	g.stateTimer += dt
	if g.pendingFn != nil && g.stateTimer >= g.pendingAt {
		fn := g.pendingFn
		g.pendingFn = nil
		fn()
	}
}

// schedule queues one callback at stateTimer >= the given offset from
// now. A newer schedule replaces an older one.
func (g *Game) schedule(delay float64, fn func()) {
	g.pendingAt = g.stateTimer + delay
	g.pendingFn = fn
}

// ---------------------------------------------------------------------------
// State machine

// wildcard targets reachable from any state.
func isWildcardTarget(to State) bool {
	switch to {
	case StateEventPreview, StateCombatPreview, StateDefeat:
		return true
	}
	return false
}

var allowedTransitions = map[State][]State{
	StateBetting:       {StateDealing},
	StateDealing:       {StatePlayerTurn, StateShowdown},
	StatePlayerTurn:    {StateDealerTurn, StateShowdown, StateTargeting},
	StateDealerTurn:    {StateShowdown},
	StateShowdown:      {StateRoundEnd},
	StateRoundEnd:      {StateBetting, StateCombatVictory},
	StateCombatVictory: {StateBetting},
	StateEventPreview:  {StateEventActive},
	StateEventActive:   {StateBetting},
	StateCombatPreview: {StateBetting},
	StateTargeting:     {StatePlayerTurn},
	StateDefeat:        {},
}

func transitionAllowed(from, to State) bool {
	if isWildcardTarget(to) {
		return from != StateDefeat
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transitionLocked moves the machine, resets the state timer, and
// runs the entry side-effects. Illegal transitions are invariant
// violations: logged loudly and dropped.
func (g *Game) transitionLocked(to State) {
	from := g.state
	if !transitionAllowed(from, to) {
		log.Printf("[Game] FATAL illegal transition %s -> %s", from, to)
		return
	}
	log.Printf("[Game] %s -> %s", from, to)

	g.state = to
	g.stateTimer = 0
	g.pendingFn = nil

	g.events.publish(Event{Kind: EventStateChanged, From: from, To: to})

	switch to {
	case StateDealing:
		g.enterDealingLocked()
	case StateDealerTurn:
		g.enterDealerTurnLocked()
	case StateShowdown:
		g.enterShowdownLocked()
	case StateRoundEnd:
		g.enterRoundEndLocked()
	case StateCombatVictory:
		g.enterCombatVictoryLocked()
	case StateEventPreview:
		g.enterEventPreviewLocked()
	case StateCombatPreview:
		g.enterCombatPreviewLocked()
	case StateDefeat:
		g.runOver = true
		g.events.publish(Event{Kind: EventPlayerDefeated})
	}
}

// ---------------------------------------------------------------------------
// Encounter progression

// enterEncounterLocked routes to the preview of the encounter under
// the cursor, or winds the run down when the act chain is spent.
func (g *Game) enterEncounterLocked() {
	for g.act.Complete() && g.act.Next != nil {
		g.act = g.act.Next
	}
	if g.act.Complete() {
		g.combatMode = false
		g.enemy = nil
		g.events.publish(Event{Kind: EventRunComplete})
		if g.state != StateBetting {
			g.transitionLocked(StateBetting)
		}
		return
	}

	enc := g.act.Current()
	if enc.Kind == EncounterEvent {
		g.transitionLocked(StateEventPreview)
	} else {
		g.transitionLocked(StateCombatPreview)
	}
}

func (g *Game) enterEventPreviewLocked() {
	g.pendingEvent = g.act.Pool.Pick(g.rng, g.lastEventTitle)
	g.rerollCost = baseRerollCost
	g.events.publish(Event{Kind: EventEventPreview})
	if g.cfg.SkipPreviews {
		g.transitionLocked(StateEventActive)
		return
	}
	g.schedule(previewCountdown, func() { g.transitionLocked(StateEventActive) })
}

func (g *Game) enterCombatPreviewLocked() {
	g.events.publish(Event{Kind: EventCombatPreview})
	if g.cfg.SkipPreviews {
		g.beginCombatLocked()
		return
	}
	g.schedule(previewCountdown, g.beginCombatLocked)
}

// beginCombatLocked materializes the encounter's enemy and opens the
// betting table in combat mode.
func (g *Game) beginCombatLocked() {
	enc := g.act.Current()
	g.enemy = enc.Enemy()
	if g.pendingHPMult != 1.0 {
		g.enemy.ScaleHP(g.pendingHPMult)
		g.pendingHPMult = 1.0
	}
	g.enemy.resetAbilityStates()
	g.combatMode = true
	g.events.publish(Event{Kind: EventCombatStart})
	g.transitionLocked(StateBetting)
}

func (g *Game) enterCombatVictoryLocked() {
	g.events.publish(Event{Kind: EventSoundRequested, Sound: SoundEnemyDown})
	g.combatMode = false
	g.enemy = nil
	g.act.Advance()
	g.schedule(victoryDelay, g.enterEncounterLocked)
	if g.cfg.SkipPreviews {
		g.pendingFn = nil
		g.enterEncounterLocked()
	}
}

// ---------------------------------------------------------------------------
// Round lifecycle

func (g *Game) enterDealingLocked() {
	// Initial deal: player, dealer up, player, dealer hole.
	g.dealCardLocked(false, true)
	g.dealCardLocked(true, true)
	g.dealCardLocked(false, true)
	g.dealCardLocked(true, false)

	if g.player.Hand.IsBlackjack() {
		g.events.publish(Event{Kind: EventPlayerBlackjack})
		g.schedule(4*cardRevealDelay, func() { g.transitionLocked(StateShowdown) })
		return
	}
	g.schedule(4*cardRevealDelay, func() { g.transitionLocked(StatePlayerTurn) })
}

// dealer phases: reveal the hole card, then hit to 17, then stand.
func (g *Game) enterDealerTurnLocked() {
	g.schedule(cardRevealDelay, g.dealerRevealLocked)
}

func (g *Game) dealerRevealLocked() {
	if g.dealer.RevealAt(g.dealer.Len() - 1) {
		g.pushDelta(Delta{Kind: DeltaCardFlipped, ByDealer: true, Index: g.dealer.Len() - 1, FaceUp: true})
		g.events.publish(Event{Kind: EventSoundRequested, Sound: SoundCardFlip})
	}
	// A busted player ends the round on the reveal alone.
	if g.player.Hand.IsBust() {
		g.schedule(dealerActionDelay, func() { g.transitionLocked(StateShowdown) })
		return
	}
	g.schedule(dealerActionDelay, g.dealerStepLocked)
}

func (g *Game) dealerStepLocked() {
	if g.dealer.Value() <= 16 {
		g.dealCardLocked(true, true)
		if g.dealer.IsBust() {
			g.events.publish(Event{Kind: EventDealerBust})
			g.schedule(dealerActionDelay, func() { g.transitionLocked(StateShowdown) })
			return
		}
		g.schedule(dealerActionDelay, g.dealerStepLocked)
		return
	}
	g.schedule(dealerActionDelay, func() { g.transitionLocked(StateShowdown) })
}

func (g *Game) enterShowdownLocked() {
	g.dealer.RevealAll()
	g.resolveRoundLocked()
	g.schedule(playerActionDelay, func() { g.transitionLocked(StateRoundEnd) })
}

func (g *Game) enterRoundEndLocked() {
	g.round++
	g.processStatusesLocked()

	for _, t := range g.player.allTrinkets() {
		t.tickCooldown()
	}

	// Hands go to the discard pile; DOUBLED is a one-hand tag.
	for _, c := range g.player.Hand.Clear(g.shoe) {
		g.tags.Remove(c.ID(), TagDoubled)
	}
	for _, c := range g.dealer.Clear(g.shoe) {
		g.tags.Remove(c.ID(), TagDoubled)
	}

	g.stats.RecordChipPeak(g.player.Chips, g.round)

	if g.player.Chips <= 0 {
		g.transitionLocked(StateDefeat)
		return
	}
	if g.combatMode && g.enemy != nil && g.enemy.Defeated {
		g.schedule(roundEndDelay, func() { g.transitionLocked(StateCombatVictory) })
		if g.cfg.SkipPreviews {
			g.pendingFn = nil
			g.transitionLocked(StateCombatVictory)
		}
		return
	}
	g.schedule(roundEndDelay, func() { g.transitionLocked(StateBetting) })
	if g.cfg.SkipPreviews {
		g.pendingFn = nil
		g.transitionLocked(StateBetting)
	}
}

// processStatusesLocked is the RoundEnd pipeline: per-round actions
// in insertion order, duration decrement, expiry.
func (g *Game) processStatusesLocked() {
	p := g.player
	kept := p.statuses[:0]
	for i := range p.statuses {
		s := p.statuses[i]
		switch s.Kind {
		case StatusChipDrain:
			p.AddChips(-s.Value)
			g.stats.RecordChipsDrained(s.Value)
			g.pushDelta(Delta{Kind: DeltaChipChange, Amount: -s.Value})
		case StatusMadness:
			p.AddSanity(-s.Value)
		case StatusEscalation:
			// The floor climbs each round the status is held.
			s.Stacks++
		}

		if s.Kind == StatusRake {
			// Rake expires by stacks, consumed on damage application.
			if s.Stacks > 0 {
				kept = append(kept, s)
			} else {
				g.events.publish(Event{Kind: EventStatusExpired, Status: s.Kind})
			}
			continue
		}

		s.Remaining--
		if s.Remaining > 0 {
			kept = append(kept, s)
		} else {
			g.events.publish(Event{Kind: EventStatusExpired, Status: s.Kind})
		}
	}
	p.statuses = kept
}

// ---------------------------------------------------------------------------
// Commands (host -> core). Every command returns nil for accepted or
// a *RejectedError.

// PlaceBet wagers chips and opens the deal.
func (g *Game) PlaceBet(amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.runOver {
		return reject(RejectInvalidState, "run over")
	}
	if g.state != StateBetting {
		return reject(RejectInvalidState, "not in betting state")
	}
	if amount <= 0 {
		return reject(RejectIllegalAction, "bet must be positive")
	}
	if amount > g.player.Chips {
		return reject(RejectInsufficientChips, "")
	}
	if g.player.hasStatus(StatusForcedAllIn) && amount != g.player.Chips {
		return reject(RejectIllegalAction, "forced all-in")
	}
	if floor := g.minimumBetLocked(); amount < floor {
		return reject(RejectIllegalAction, "below minimum bet")
	}
	if g.player.hasStatus(StatusNoAdjust) && g.player.lastBet > 0 && amount != g.player.lastBet {
		return reject(RejectIllegalAction, "bet locked to previous round")
	}

	g.player.placeBet(amount)
	g.stats.RecordBet(amount, g.round+1)
	g.events.publish(Event{Kind: EventSoundRequested, Sound: SoundChipStack})
	g.transitionLocked(StateDealing)
	return nil
}

// PlayerAct handles Hit, Stand, and Double during the player's turn.
func (g *Game) PlayerAct(action ActionType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePlayerTurn {
		return reject(RejectInvalidState, "not the player's turn")
	}

	switch action {
	case ActionHit:
		g.dealCardLocked(false, true)
		g.events.publish(Event{Kind: EventPlayerActionEnd, Action: ActionHit})
		if g.player.Hand.IsBust() {
			g.events.publish(Event{Kind: EventPlayerBust})
			g.schedule(playerActionDelay, func() { g.transitionLocked(StateDealerTurn) })
		}
		return nil

	case ActionStand:
		g.events.publish(Event{Kind: EventPlayerActionEnd, Action: ActionStand})
		g.schedule(playerActionDelay, func() { g.transitionLocked(StateDealerTurn) })
		return nil

	case ActionDouble:
		if g.player.Hand.Len() != 2 {
			return reject(RejectIllegalAction, "double requires exactly 2 cards")
		}
		if g.player.Chips < g.player.CurrentBet {
			return reject(RejectInsufficientChips, "cannot cover double")
		}
		g.player.Chips -= g.player.CurrentBet
		g.player.CurrentBet *= 2
		g.dealCardLocked(false, true)
		g.events.publish(Event{Kind: EventPlayerActionEnd, Action: ActionDouble})
		if g.player.Hand.IsBust() {
			g.events.publish(Event{Kind: EventPlayerBust})
		}
		g.schedule(cardRevealDelay, func() { g.transitionLocked(StateDealerTurn) })
		return nil
	}
	return reject(RejectIllegalAction, "unknown action")
}

// ActivateTrinket fires a trinket active. Targeted actives without a
// target route through the Targeting state; calling again with a
// target (or CancelTargeting) resolves it.
func (g *Game) ActivateTrinket(slot int, targetCardID *int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePlayerTurn && g.state != StateTargeting {
		return reject(RejectInvalidState, "trinkets fire on the player's turn")
	}
	t := g.player.TrinketAt(slot)
	if t == nil {
		return reject(RejectInvalidTarget, "empty slot")
	}
	spec := t.Template.Active
	if spec == nil {
		return reject(RejectIllegalAction, "trinket has no active")
	}
	if !t.activeReady() {
		return reject(RejectIllegalAction, "on cooldown")
	}

	if spec.NeedsTarget && targetCardID == nil {
		g.targetSlot = slot
		g.transitionLocked(StateTargeting)
		return nil
	}

	if spec.NeedsTarget {
		idx := -1
		for i, hc := range g.player.Hand.Cards() {
			if hc.Card.ID() == *targetCardID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return reject(RejectInvalidTarget, "card not in hand")
		}
		discarded, _ := g.player.Hand.RemoveAt(idx)
		g.shoe.Discard(discarded)

		base := discarded.BlackjackValue() * spec.Value / 100
		dmg, crit := g.applyPlayerDamageModifiersLocked(base)
		t.addStat(TrinketStatDamageDealt, dmg)
		g.damageEnemyLocked(SourceTrinketActive, dmg, crit)
	} else {
		dmg, crit := g.applyPlayerDamageModifiersLocked(spec.Value)
		t.addStat(TrinketStatDamageDealt, dmg)
		g.damageEnemyLocked(SourceTrinketActive, dmg, crit)
	}

	t.CooldownRemaining = spec.CooldownMax
	g.events.publish(Event{Kind: EventTrinketActivated, Slot: slot})

	if g.state == StateTargeting {
		g.targetSlot = -1
		g.transitionLocked(StatePlayerTurn)
	}
	return nil
}

// CancelTargeting backs out of the Targeting state.
func (g *Game) CancelTargeting() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateTargeting {
		return reject(RejectInvalidState, "not targeting")
	}
	g.targetSlot = -1
	g.transitionLocked(StatePlayerTurn)
	return nil
}

// ChooseEvent resolves an event encounter choice.
func (g *Game) ChooseEvent(choice int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateEventActive {
		return reject(RejectInvalidState, "no event active")
	}
	if choice < 0 || choice > 2 {
		return reject(RejectInvalidTarget, "choice out of range")
	}
	ev := g.pendingEvent
	if ev == nil {
		return reject(RejectInvalidState, "no event drawn")
	}
	c := ev.Choices[choice]
	if c.RequiresTag != nil && !g.tags.AnyWith(*c.RequiresTag) {
		return reject(RejectInvalidTarget, "requirement not met")
	}

	g.player.AddChips(c.ChipsDelta)
	g.player.AddSanity(c.SanityDelta)
	if c.GrantTagCount > 0 {
		g.grantTagsLocked(c.GrantTag, c.GrantTagCount)
	}
	if c.TrinketKey != "" && g.cfg.Act != nil {
		// Trinket grants resolve by key against the host's catalog;
		// the engine only records the key on the outgoing event.
		g.events.publish(Event{Kind: EventTrinketActivated, Slot: -1, Message: c.TrinketKey})
	}
	if c.EnemyHPMultiplier > 0 && c.EnemyHPMultiplier != 1.0 {
		g.pendingHPMult = c.EnemyHPMultiplier
	}

	g.lastEventTitle = ev.Title
	g.pendingEvent = nil
	g.act.Advance()
	g.enterEncounterLocked()
	return nil
}

// GrantTrinket equips a materialized trinket instance; hosts call
// this when resolving an event's trinket reward against a catalog.
func (g *Game) GrantTrinket(inst *TrinketInstance) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.player.EquipTrinket(inst) {
		return reject(RejectIllegalAction, "no empty trinket slot")
	}
	return nil
}

// EquipClassTrinket sets the class slot.
func (g *Game) EquipClassTrinket(inst *TrinketInstance) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.player.ClassTrinket = inst
	g.player.markStatsDirty()
}

// RerollEvent trades chips for a fresh event draw during the preview.
// The price doubles per reroll.
func (g *Game) RerollEvent() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateEventPreview {
		return reject(RejectInvalidState, "no event preview")
	}
	if g.player.Chips < g.rerollCost {
		return reject(RejectCannotAfford, "")
	}
	g.player.AddChips(-g.rerollCost)
	g.rerollCost *= 2

	g.pendingEvent = g.act.Pool.Pick(g.rng, g.lastEventTitle)
	g.stateTimer = 0
	if !g.cfg.SkipPreviews {
		g.schedule(previewCountdown, func() { g.transitionLocked(StateEventActive) })
	}
	return nil
}

// Skip collapses a preview countdown immediately.
func (g *Game) Skip() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateEventPreview:
		g.transitionLocked(StateEventActive)
		return nil
	case StateCombatPreview:
		g.beginCombatLocked()
		return nil
	}
	return reject(RejectInvalidState, "nothing to skip")
}

// ---------------------------------------------------------------------------
// Card flow

// dealCardLocked is the single funnel every card takes out of the
// shoe. Returns CardInvalid when both piles are empty.
func (g *Game) dealCardLocked(toDealer, faceUp bool) card.Card {
	c, ok := g.shoe.Deal(g.rng)
	if !ok {
		log.Printf("[Game] shoe exhausted, no card served")
		return card.CardInvalid
	}

	var index int
	if toDealer {
		g.dealer.Add(c, faceUp)
		index = g.dealer.Len() - 1
	} else {
		g.player.Hand.Add(c, faceUp)
		index = g.player.Hand.Len() - 1
	}

	g.pushDelta(Delta{Kind: DeltaCardDealt, CardID: c.ID(), Index: index, ByDealer: toDealer, FaceUp: faceUp})
	g.events.publish(Event{Kind: EventSoundRequested, Sound: SoundCardSlide})
	g.events.publish(Event{Kind: EventCardDrawn, CardID: c.ID(), ByDealer: toDealer})

	if !toDealer && faceUp {
		g.processDrawTagsLocked(c)
	}
	return c
}

// processDrawTagsLocked fires the on-draw card tags for a player
// draw. Damage tags only land in combat.
func (g *Game) processDrawTagsLocked(c card.Card) {
	for _, tag := range g.tags.Tags(c.ID()) {
		switch tag {
		case TagVicious:
			if !g.combatMode || g.enemy == nil {
				continue
			}
			dmg, crit := g.applyPlayerDamageModifiersLocked(viciousDamage)
			g.damageEnemyLocked(SourceCardTag, dmg, crit)
			g.pushDelta(Delta{Kind: DeltaScreenShake, Intensity: 15, Duration: 0.4})
			g.events.publish(Event{Kind: EventCardTagVicious, CardID: c.ID()})

		case TagVampiric:
			if !g.combatMode || g.enemy == nil {
				continue
			}
			dmg, crit := g.applyPlayerDamageModifiersLocked(vampiricDamage)
			g.damageEnemyLocked(SourceCardTag, dmg, crit)
			g.player.AddChips(vampiricChips)
			g.pushDelta(Delta{Kind: DeltaChipChange, Amount: vampiricChips, Healing: true})
			g.pushDelta(Delta{Kind: DeltaScreenShake, Intensity: 10, Duration: 0.3})
			g.events.publish(Event{Kind: EventCardTagVampiric, CardID: c.ID()})

		case TagCursed:
			g.player.AddChips(-cursedChipLoss)
			g.pushDelta(Delta{Kind: DeltaChipChange, Amount: -cursedChipLoss})
		}
	}
}

// grantTagsLocked assigns a tag to n random untagged card ids.
func (g *Game) grantTagsLocked(tag Tag, n int) int {
	granted := 0
	for i := 0; i < n; i++ {
		pool := g.tags.Untagged()
		if len(pool) == 0 {
			break
		}
		id := pool[g.rng.Intn(len(pool))]
		if g.tags.Assign(id, tag) {
			granted++
		}
	}
	return granted
}

// ---------------------------------------------------------------------------
// Damage funnel

// applyPlayerDamageModifiersLocked runs base damage through the
// aggregated stats: flat, then percent, then the crit roll.
func (g *Game) applyPlayerDamageModifiersLocked(base int) (int, bool) {
	stats := g.player.combatStats(g.tags, &g.player.Hand, &g.dealer)

	dmg := base + stats.DamageFlat
	dmg = dmg * (100 + stats.DamagePercent) / 100
	if dmg < 0 {
		dmg = 0
	}

	crit := false
	if stats.CritChance > 0 && g.rng.Float64()*100 < float64(stats.CritChance) {
		crit = true
		dmg = dmg * (100 + stats.CritBonus) / 100
	}
	return dmg, crit
}

// damageEnemyLocked is the single funnel all enemy damage takes:
// rake siphon, HP application, stats, events, deltas, defeat latch.
func (g *Game) damageEnemyLocked(source DamageSource, amount int, crit bool) {
	if !g.combatMode || g.enemy == nil || amount <= 0 {
		return
	}

	if s := g.player.status(StatusRake); s != nil {
		siphon := amount * s.Value / 100
		if siphon > 0 {
			g.player.AddChips(-siphon)
			g.pushDelta(Delta{Kind: DeltaChipChange, Amount: -siphon})
		}
		if g.player.consumeRakeStack() {
			g.events.publish(Event{Kind: EventStatusExpired, Status: StatusRake})
		}
	}

	defeated := g.enemy.takeDamage(amount)

	g.pushDelta(Delta{Kind: DeltaDamageNumber, Amount: amount, Crit: crit})
	g.pushDelta(Delta{Kind: DeltaEnemyHP, Amount: g.enemy.CurrentHP})
	g.events.publish(Event{Kind: EventSoundRequested, Sound: SoundEnemyHurt})
	g.events.publish(Event{Kind: EventDamageDealt, Source: source, Amount: amount, Crit: crit})

	if defeated {
		g.stats.RecordCombatWon()
		g.events.publish(Event{Kind: EventEnemyDefeated})
	}
}

// healEnemyLocked restores enemy HP unless a punish-heal trinket
// charge intercepts, converting the heal into damage.
func (g *Game) healEnemyLocked(amount int) {
	if g.enemy == nil || amount <= 0 {
		return
	}
	if t := g.player.consumePunishHeal(); t != nil {
		t.addStat(TrinketStatHealDamageDealt, amount)
		g.damageEnemyLocked(SourceTrinketPassive, amount, false)
		return
	}
	healed := g.enemy.heal(amount)
	g.pushDelta(Delta{Kind: DeltaDamageNumber, Amount: healed, Healing: true})
	g.pushDelta(Delta{Kind: DeltaEnemyHP, Amount: g.enemy.CurrentHP})
	g.events.publish(Event{Kind: EventEnemyHeal, Amount: healed})
}

// applyStatusLocked routes a status apply through debuff blocks and
// publishes the outcome.
func (g *Game) applyStatusLocked(kind StatusKind, value, duration, stacks int) {
	if g.player.applyStatus(kind, value, duration, stacks) {
		g.events.publish(Event{Kind: EventStatusApplied, Status: kind, Value: value})
		g.events.publish(Event{Kind: EventSoundRequested, Sound: SoundStatusHiss})
	}
}

// ---------------------------------------------------------------------------
// Bus subscribers

func (g *Game) onEventStats(ev Event) {
	switch ev.Kind {
	case EventCardDrawn:
		g.stats.RecordCardDrawn()
	case EventDamageDealt:
		g.stats.RecordDamage(ev.Source, ev.Amount)
	}
}

// onEventAbilities runs every enemy ability's trigger against each
// published event. Dispatch is depth-first: an ability's own damage
// can cascade into more fires before this call returns.
func (g *Game) onEventAbilities(ev Event) {
	if !g.combatMode || g.enemy == nil || g.enemy.Defeated {
		return
	}
	for _, a := range g.enemy.Abilities {
		fires := a.fireCount(ev, g.enemy, g.rng)
		for i := 0; i < fires; i++ {
			g.executeAbilityLocked(a)
			if g.enemy == nil || g.enemy.Defeated {
				return
			}
		}
	}
}

func (g *Game) executeAbilityLocked(a *Ability) {
	log.Printf("[Game] ability fired: %s", a.Name)
	for _, eff := range a.Effects {
		switch eff.Kind {
		case AbilityApplyStatus:
			g.applyStatusLocked(eff.Status, eff.StatusValue, eff.StatusDuration, eff.StatusStacks)

		case AbilityRemoveStatus:
			if g.player.removeStatus(eff.Status) {
				g.events.publish(Event{Kind: EventStatusExpired, Status: eff.Status})
			}

		case AbilityHeal:
			if eff.Target == TargetSelf {
				g.healEnemyLocked(eff.Value)
			} else {
				g.player.AddChips(eff.Value)
				g.pushDelta(Delta{Kind: DeltaChipChange, Amount: eff.Value, Healing: true})
			}

		case AbilityDamage:
			if eff.Target == TargetSelf {
				// Self-damage skips player modifiers and rake.
				defeated := g.enemy.takeDamage(eff.Value)
				g.pushDelta(Delta{Kind: DeltaEnemyHP, Amount: g.enemy.CurrentHP})
				g.events.publish(Event{Kind: EventDamageDealt, Source: SourceAbility, Amount: eff.Value})
				if defeated {
					g.stats.RecordCombatWon()
					g.events.publish(Event{Kind: EventEnemyDefeated})
				}
			} else {
				g.player.AddChips(-eff.Value)
				g.pushDelta(Delta{Kind: DeltaChipChange, Amount: -eff.Value})
			}

		case AbilityShuffleDeck:
			g.shoe.Shuffle(g.rng)

		case AbilityDiscardHand:
			// DOUBLED is a one-hand tag, forced discards included.
			for _, c := range g.player.Hand.Clear(g.shoe) {
				g.tags.Remove(c.ID(), TagDoubled)
			}
			if g.state == StatePlayerTurn {
				g.schedule(playerActionDelay, func() { g.transitionLocked(StateDealerTurn) })
			}

		case AbilityForceHit:
			g.dealCardLocked(false, true)
			if g.player.Hand.IsBust() && g.state == StatePlayerTurn {
				g.events.publish(Event{Kind: EventPlayerBust})
				g.schedule(playerActionDelay, func() { g.transitionLocked(StateDealerTurn) })
			}

		case AbilityRevealHole:
			if g.dealer.RevealAt(g.dealer.Len() - 1) {
				g.pushDelta(Delta{Kind: DeltaCardFlipped, ByDealer: true, Index: g.dealer.Len() - 1, FaceUp: true})
			}

		case AbilityMessage:
			g.events.publish(Event{Kind: EventAbilityMessage, Message: eff.Text})
		}
	}
}

// onEventTrinkets dispatches trinket passives: class slot first, then
// the regular slots in order.
func (g *Game) onEventTrinkets(ev Event) {
	for _, t := range g.player.allTrinkets() {
		if t.Template.ResetOn != EventNone && t.Template.ResetOn == ev.Kind {
			if t.resetStacks() {
				g.player.markStatsDirty()
			}
		}
		if t.Template.Trigger != EventNone && t.Template.Trigger == ev.Kind {
			for _, eff := range t.Template.effects() {
				g.executeTrinketEffectLocked(t, eff)
			}
		}
	}
}

func (g *Game) executeTrinketEffectLocked(t *TrinketInstance, eff TrinketEffect) {
	switch eff.Type {
	case EffectTypeAddChips:
		g.player.AddChips(eff.Value)
		t.addStat(TrinketStatBonusChips, eff.Value)
		g.pushDelta(Delta{Kind: DeltaChipChange, Amount: eff.Value, Healing: true})

	case EffectTypeAddChipsPercent:
		// Chips move centrally in the showdown path; the instance
		// only tracks its share to avoid double counting.
		if g.resolvingBet > 0 {
			t.addStat(TrinketStatBonusChips, g.resolvingBet*eff.Value/100)
		}

	case EffectTypeLoseChips:
		g.player.AddChips(-eff.Value)
		t.addStat(TrinketStatChipsLost, eff.Value)
		g.pushDelta(Delta{Kind: DeltaChipChange, Amount: -eff.Value})

	case EffectTypeApplyStatus:
		g.applyStatusLocked(eff.Status, eff.StatusValue, eff.StatusDuration, eff.StatusStacks)

	case EffectTypeClearStatus:
		if g.player.removeStatus(eff.Status) {
			g.events.publish(Event{Kind: EventStatusExpired, Status: eff.Status})
		}

	case EffectTypeTrinketStack:
		if t.incStack() {
			g.player.markStatsDirty()
		}

	case EffectTypeTrinketStackReset:
		if t.resetStacks() {
			g.player.markStatsDirty()
		}

	case EffectTypeRefundChipsPercent:
		if g.resolvingBet > 0 {
			t.addStat(TrinketStatRefundedChips, g.resolvingBet*eff.Value/100)
		}

	case EffectTypeAddTagToCards:
		n := g.grantTagsLocked(eff.Tag, eff.TagCount)
		t.addStat(TrinketStatTagsGranted, n)

	case EffectTypeAddDamageFlat:
		if !g.combatMode || g.enemy == nil {
			return
		}
		dmg, crit := g.applyPlayerDamageModifiersLocked(eff.Value)
		t.addStat(TrinketStatDamageDealt, dmg)
		g.damageEnemyLocked(SourceTrinketPassive, dmg, crit)

	case EffectTypeBlockDebuff:
		t.DebuffBlocksRemaining += eff.Value

	case EffectTypePunishHeal:
		t.HealPunishesRemaining += eff.Value

	case EffectTypeBuffTagDamage, EffectTypeDamageMultiplier, EffectTypePushDamagePercent:
		// Aggregation-deferred; nothing at dispatch time.
	}
}
