package blackjack

// State is the lifecycle state of a run's state machine.
type State byte

const (
	StateBetting       State = 0
	StateDealing       State = 1
	StatePlayerTurn    State = 2
	StateDealerTurn    State = 3
	StateShowdown      State = 4
	StateRoundEnd      State = 5
	StateCombatVictory State = 6
	StateEventPreview  State = 7
	StateEventActive   State = 8
	StateCombatPreview State = 9
	StateTargeting     State = 10
	StateDefeat        State = 11
)

var StateDictionary = map[State]string{
	StateBetting:       "betting",
	StateDealing:       "dealing",
	StatePlayerTurn:    "player_turn",
	StateDealerTurn:    "dealer_turn",
	StateShowdown:      "showdown",
	StateRoundEnd:      "round_end",
	StateCombatVictory: "combat_victory",
	StateEventPreview:  "event_preview",
	StateEventActive:   "event_active",
	StateCombatPreview: "combat_preview",
	StateTargeting:     "targeting",
	StateDefeat:        "defeat",
}

func (s State) String() string {
	if name, ok := StateDictionary[s]; ok {
		return name
	}
	return "unknown"
}

// ActionType is a player turn action.
type ActionType byte

const (
	ActionNone   ActionType = 0
	ActionHit    ActionType = 1
	ActionStand  ActionType = 2
	ActionDouble ActionType = 3
)

var ActionTypeDictionary = map[ActionType]string{
	ActionNone:   "NONE",
	ActionHit:    "HIT",
	ActionStand:  "STAND",
	ActionDouble: "DOUBLE",
}

func (a ActionType) String() string {
	if name, ok := ActionTypeDictionary[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// TurnResult is the outcome of a single blackjack round.
type TurnResult byte

const (
	TurnWin  TurnResult = 0
	TurnLose TurnResult = 1
	TurnPush TurnResult = 2
)

var TurnResultDictionary = map[TurnResult]string{
	TurnWin:  "win",
	TurnLose: "lose",
	TurnPush: "push",
}

func (r TurnResult) String() string {
	if name, ok := TurnResultDictionary[r]; ok {
		return name
	}
	return "unknown"
}

// DamageSource attributes enemy damage for the stats accumulator.
type DamageSource byte

const (
	SourceTurnWin        DamageSource = 0
	SourceTurnPush       DamageSource = 1
	SourceTrinketPassive DamageSource = 2
	SourceTrinketActive  DamageSource = 3
	SourceAbility        DamageSource = 4
	SourceCardTag        DamageSource = 5
)

var DamageSourceDictionary = map[DamageSource]string{
	SourceTurnWin:        "turn_win",
	SourceTurnPush:       "turn_push",
	SourceTrinketPassive: "trinket_passive",
	SourceTrinketActive:  "trinket_active",
	SourceAbility:        "ability",
	SourceCardTag:        "card_tag",
}

// Class is the player archetype; it scopes the sanity betting tables.
type Class byte

const (
	ClassDegenerate Class = 0
	ClassDealer     Class = 1
	ClassDetective  Class = 2
	ClassDreamer    Class = 3
)

var ClassDictionary = map[Class]string{
	ClassDegenerate: "Degenerate",
	ClassDealer:     "Dealer",
	ClassDetective:  "Detective",
	ClassDreamer:    "Dreamer",
}

func (c Class) String() string {
	if name, ok := ClassDictionary[c]; ok {
		return name
	}
	return "Unknown"
}

// SoundToken names a sound effect for the host; the core never plays
// audio itself.
type SoundToken byte

const (
	SoundUIHover    SoundToken = 0
	SoundUIClick    SoundToken = 1
	SoundCardSlide  SoundToken = 2
	SoundCardFlip   SoundToken = 3
	SoundChipStack  SoundToken = 4
	SoundEnemyHurt  SoundToken = 5
	SoundEnemyDown  SoundToken = 6
	SoundStatusHiss SoundToken = 7
)

var SoundTokenDictionary = map[SoundToken]string{
	SoundUIHover:    "ui_hover",
	SoundUIClick:    "ui_click",
	SoundCardSlide:  "card_slide",
	SoundCardFlip:   "card_flip",
	SoundChipStack:  "chip_stack",
	SoundEnemyHurt:  "enemy_hurt",
	SoundEnemyDown:  "enemy_down",
	SoundStatusHiss: "status_hiss",
}

// Engine delay constants, in seconds of engine time.
const (
	playerActionDelay = 0.5
	dealerActionDelay = 0.5
	cardRevealDelay   = 0.3
	roundEndDelay     = 3.0
	previewCountdown  = 3.0
	victoryDelay      = 2.0
)

// Betting bases before sanity/class modifiers.
const (
	BetMin = 1
	BetMed = 5
	BetMax = 10
)

const StartingChips = 100

// baseRerollCost is the chip price of the first event reroll in a
// preview; it doubles per reroll.
const baseRerollCost = 50
