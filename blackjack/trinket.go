package blackjack

import "fmt"

// TrinketEffectType is the closed dispatch table for passive effects.
type TrinketEffectType byte

const (
	EffectTypeNone               TrinketEffectType = 0
	EffectTypeAddChips           TrinketEffectType = 1
	EffectTypeAddChipsPercent    TrinketEffectType = 2
	EffectTypeLoseChips          TrinketEffectType = 3
	EffectTypeApplyStatus        TrinketEffectType = 4
	EffectTypeClearStatus        TrinketEffectType = 5
	EffectTypeTrinketStack       TrinketEffectType = 6
	EffectTypeTrinketStackReset  TrinketEffectType = 7
	EffectTypeRefundChipsPercent TrinketEffectType = 8
	EffectTypeBuffTagDamage      TrinketEffectType = 9
	EffectTypeAddTagToCards      TrinketEffectType = 10
	EffectTypeAddDamageFlat      TrinketEffectType = 11
	EffectTypeDamageMultiplier   TrinketEffectType = 12
	EffectTypePushDamagePercent  TrinketEffectType = 13
	EffectTypeBlockDebuff        TrinketEffectType = 14
	EffectTypePunishHeal         TrinketEffectType = 15
)

var TrinketEffectTypeDictionary = map[TrinketEffectType]string{
	EffectTypeNone:               "none",
	EffectTypeAddChips:           "add_chips",
	EffectTypeAddChipsPercent:    "add_chips_percent",
	EffectTypeLoseChips:          "lose_chips",
	EffectTypeApplyStatus:        "apply_status",
	EffectTypeClearStatus:        "clear_status",
	EffectTypeTrinketStack:       "trinket_stack",
	EffectTypeTrinketStackReset:  "trinket_stack_reset",
	EffectTypeRefundChipsPercent: "refund_chips_percent",
	EffectTypeBuffTagDamage:      "buff_tag_damage",
	EffectTypeAddTagToCards:      "add_tag_to_cards",
	EffectTypeAddDamageFlat:      "add_damage_flat",
	EffectTypeDamageMultiplier:   "damage_multiplier",
	EffectTypePushDamagePercent:  "push_damage_percent",
	EffectTypeBlockDebuff:        "block_debuff",
	EffectTypePunishHeal:         "punish_heal",
}

func (t TrinketEffectType) String() string {
	if name, ok := TrinketEffectTypeDictionary[t]; ok {
		return name
	}
	return "unknown"
}

func TrinketEffectTypeFromString(s string) (TrinketEffectType, error) {
	for t, name := range TrinketEffectTypeDictionary {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trinket effect type: %q", s)
}

// Stat keys shared by stack bonuses and aggregation-deferred effects.
const (
	StatKeyDamageFlat        = "damage_flat"
	StatKeyDamagePercent     = "damage_percent"
	StatKeyCritChance        = "crit_chance"
	StatKeyCritBonus         = "crit_bonus"
	StatKeyWinBonusPercent   = "win_bonus_percent"
	StatKeyLossRefundPercent = "loss_refund_percent"
	StatKeyPushDamagePercent = "push_damage_percent"
	StatKeyFlatChipsOnWin    = "flat_chips_on_win"
)

// Per-instance statistic counter keys.
const (
	TrinketStatBonusChips      = "bonus_chips"
	TrinketStatRefundedChips   = "refunded_chips"
	TrinketStatDamageDealt     = "damage_dealt"
	TrinketStatHighestStreak   = "highest_streak"
	TrinketStatDebuffsBlocked  = "debuffs_blocked"
	TrinketStatHealDamageDealt = "heal_damage_dealt"
	TrinketStatTagsGranted     = "tags_granted"
	TrinketStatChipsLost       = "chips_lost"
)

// TrinketEffect is one passive operation.
type TrinketEffect struct {
	Type  TrinketEffectType
	Value int

	// apply_status / clear_status
	Status         StatusKind
	StatusValue    int
	StatusDuration int
	StatusStacks   int

	// buff_tag_damage / add_tag_to_cards
	Tag      Tag
	TagCount int
}

// statKey maps aggregation-deferred effect types onto the stat they
// feed; dispatch-time types return "".
func (e TrinketEffect) statKey() string {
	switch e.Type {
	case EffectTypeAddChipsPercent:
		return StatKeyWinBonusPercent
	case EffectTypeRefundChipsPercent:
		return StatKeyLossRefundPercent
	case EffectTypeDamageMultiplier:
		return StatKeyDamagePercent
	case EffectTypePushDamagePercent:
		return StatKeyPushDamagePercent
	}
	return ""
}

// Rarity grades catalog entries.
type Rarity byte

const (
	RarityCommon    Rarity = 0
	RarityUncommon  Rarity = 1
	RarityRare      Rarity = 2
	RarityLegendary Rarity = 3
	RarityEvent     Rarity = 4
	RarityClass     Rarity = 5
)

var RarityDictionary = map[Rarity]string{
	RarityCommon:    "Common",
	RarityUncommon:  "Uncommon",
	RarityRare:      "Rare",
	RarityLegendary: "Legendary",
	RarityEvent:     "Event",
	RarityClass:     "Class",
}

func (r Rarity) String() string {
	if name, ok := RarityDictionary[r]; ok {
		return name
	}
	return "Unknown"
}

func RarityFromString(s string) (Rarity, error) {
	for r, name := range RarityDictionary {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rarity: %q", s)
}

// StackMode is the behavior when an instance reaches StackMax.
type StackMode byte

const (
	OnMaxClamp      StackMode = 0
	OnMaxResetToOne StackMode = 1
)

// ActiveSpec is a player-invoked trinket ability. Targeted actives
// route through the Targeting state.
type ActiveSpec struct {
	// Damage dealt per activation; targeted actives use the target
	// card's blackjack value scaled by Value percent instead.
	Value       int
	CooldownMax int // rounds
	NeedsTarget bool
}

// TrinketTemplate is an immutable catalog entry. Instances reference
// it and never copy it.
type TrinketTemplate struct {
	Key         string
	Name        string
	Description string
	Rarity      Rarity

	// Passive trigger and its effects. EventNone means the template
	// is purely stat-carrying.
	Trigger   GameEvent
	Primary   TrinketEffect
	Secondary *TrinketEffect

	// Always-on stat contributions keyed by StatKey*.
	Passive map[string]int

	// Stack configuration. StackMax 0 with StackValue set means an
	// unbounded stack counter. ResetOn clears the stack when that
	// event fires (streak trinkets reset on a loss).
	StackMax   int
	StackValue int
	StackStat  string
	OnMax      StackMode
	ResetOn    GameEvent

	// Initial per-instance charges.
	InitialDebuffBlocks int
	InitialHealPunishes int

	Active *ActiveSpec
}

func (t *TrinketTemplate) effects() []TrinketEffect {
	out := []TrinketEffect{t.Primary}
	if t.Secondary != nil {
		out = append(out, *t.Secondary)
	}
	return out
}

// Validate is the startup check used by catalog loading; a template
// that fails here is a data bug, not a runtime condition.
func (t *TrinketTemplate) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("trinket template missing key")
	}
	if t.Name == "" {
		return fmt.Errorf("trinket %q missing name", t.Key)
	}
	if t.StackMax < 0 || t.StackValue < 0 {
		return fmt.Errorf("trinket %q has negative stack config", t.Key)
	}
	if t.Trigger != EventNone && t.Primary.Type == EffectTypeNone {
		return fmt.Errorf("trinket %q has trigger but no primary effect", t.Key)
	}
	if t.Active != nil && t.Active.CooldownMax < 0 {
		return fmt.Errorf("trinket %q has negative cooldown", t.Key)
	}
	return nil
}

// TrinketInstance is the mutable runtime half of a trinket.
type TrinketInstance struct {
	Template *TrinketTemplate

	Stacks                int
	CooldownRemaining     int
	DebuffBlocksRemaining int
	HealPunishesRemaining int

	// Per-key accumulated statistics (bonus_chips, damage_dealt, ...).
	Stats map[string]int
}

func NewTrinketInstance(tpl *TrinketTemplate) *TrinketInstance {
	if tpl == nil {
		return nil
	}
	return &TrinketInstance{
		Template:              tpl,
		DebuffBlocksRemaining: tpl.InitialDebuffBlocks,
		HealPunishesRemaining: tpl.InitialHealPunishes,
		Stats:                 make(map[string]int),
	}
}

func (t *TrinketInstance) addStat(key string, delta int) {
	if t.Stats == nil {
		t.Stats = make(map[string]int)
	}
	t.Stats[key] += delta
}

// Stat reads one accumulated counter.
func (t *TrinketInstance) Stat(key string) int {
	return t.Stats[key]
}

// incStack advances the stack counter honoring StackMax and the
// on-max mode. Infinite-stack trinkets also track their high-water
// mark. Reports whether derived stats changed.
func (t *TrinketInstance) incStack() bool {
	tpl := t.Template
	if tpl.StackValue == 0 && tpl.StackStat == "" {
		return false
	}
	t.Stacks++
	if tpl.StackMax > 0 && t.Stacks > tpl.StackMax {
		if tpl.OnMax == OnMaxResetToOne {
			t.Stacks = 1
		} else {
			t.Stacks = tpl.StackMax
			return false
		}
	}
	if tpl.StackMax == 0 && t.Stacks > t.Stat(TrinketStatHighestStreak) {
		t.Stats[TrinketStatHighestStreak] = t.Stacks
	}
	return true
}

func (t *TrinketInstance) resetStacks() bool {
	if t.Stacks == 0 {
		return false
	}
	t.Stacks = 0
	return true
}

// tickCooldown advances the active cooldown by one round.
func (t *TrinketInstance) tickCooldown() {
	if t.CooldownRemaining > 0 {
		t.CooldownRemaining--
	}
}

func (t *TrinketInstance) activeReady() bool {
	return t.Template.Active != nil && t.CooldownRemaining == 0
}
