package catalog

import (
	"github.com/pelletier/go-toml/v2"

	"fiftytwo-lite/blackjack"
)

// Raw TOML document shapes. Everything is strings and ints; the
// conversion step resolves enum names and rejects bad values with
// typed errors.

type catalogDoc struct {
	Trinkets []trinketDoc `toml:"trinket"`
	Enemies  []enemyDoc   `toml:"enemy"`
	Events   []eventDoc   `toml:"event"`
}

type effectDoc struct {
	Type           string `toml:"type"`
	Value          int    `toml:"value"`
	Status         string `toml:"status"`
	StatusValue    int    `toml:"status_value"`
	StatusDuration int    `toml:"status_duration"`
	StatusStacks   int    `toml:"status_stacks"`
	Tag            string `toml:"tag"`
	TagCount       int    `toml:"tag_count"`
}

type activeDoc struct {
	Value       int  `toml:"value"`
	Cooldown    int  `toml:"cooldown"`
	NeedsTarget bool `toml:"needs_target"`
}

type trinketDoc struct {
	Key         string `toml:"key"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Rarity      string `toml:"rarity"`

	Trigger   string     `toml:"trigger"`
	Primary   *effectDoc `toml:"primary"`
	Secondary *effectDoc `toml:"secondary"`

	Passive map[string]int `toml:"passive"`

	StackMax   int    `toml:"stack_max"`
	StackValue int    `toml:"stack_value"`
	StackStat  string `toml:"stack_stat"`
	OnMax      string `toml:"on_max"`
	ResetOn    string `toml:"reset_on"`

	DebuffBlocks int `toml:"debuff_blocks"`
	HealPunishes int `toml:"heal_punishes"`

	Active *activeDoc `toml:"active"`
}

type triggerDoc struct {
	Kind      string  `toml:"kind"`
	Event     string  `toml:"event"`
	Max       int     `toml:"max"`
	Ratio     float64 `toml:"ratio"`
	Chance    float64 `toml:"chance"`
	Action    string  `toml:"action"`
	Percent   int     `toml:"percent"`
	Threshold int     `toml:"threshold"`
}

type abilityEffectDoc struct {
	Kind           string `toml:"kind"`
	Target         string `toml:"target"`
	Status         string `toml:"status"`
	StatusValue    int    `toml:"status_value"`
	StatusDuration int    `toml:"status_duration"`
	StatusStacks   int    `toml:"status_stacks"`
	Value          int    `toml:"value"`
	Text           string `toml:"text"`
}

type abilityDoc struct {
	Name    string             `toml:"name"`
	Flavor  string             `toml:"flavor"`
	Trigger triggerDoc         `toml:"trigger"`
	Effects []abilityEffectDoc `toml:"effect"`
}

type enemyDoc struct {
	Key       string       `toml:"key"`
	Name      string       `toml:"name"`
	MaxHP     int          `toml:"max_hp"`
	Elite     bool         `toml:"elite"`
	Abilities []abilityDoc `toml:"ability"`
}

type choiceDoc struct {
	Text          string  `toml:"text"`
	Chips         int     `toml:"chips"`
	Sanity        int     `toml:"sanity"`
	GrantTag      string  `toml:"grant_tag"`
	GrantTagCount int     `toml:"grant_tag_count"`
	Trinket       string  `toml:"trinket"`
	HPMultiplier  float64 `toml:"hp_multiplier"`
	RequiresTag   string  `toml:"requires_tag"`
}

type eventDoc struct {
	Title       string      `toml:"title"`
	Description string      `toml:"description"`
	Weight      int         `toml:"weight"`
	Choices     []choiceDoc `toml:"choice"`
}

// LoadTOML parses a catalog document and registers every entry,
// stopping at the first validation failure.
func (c *Catalog) LoadTOML(data []byte) error {
	var doc catalogDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return schemaErr("", "", err.Error())
	}

	for i := range doc.Trinkets {
		t, err := doc.Trinkets[i].convert()
		if err != nil {
			return err
		}
		if err := c.putTrinket(t); err != nil {
			return err
		}
	}
	for i := range doc.Enemies {
		t, err := doc.Enemies[i].convert()
		if err != nil {
			return err
		}
		if err := c.putEnemy(t); err != nil {
			return err
		}
	}
	for i := range doc.Events {
		weight, ev, err := doc.Events[i].convert()
		if err != nil {
			return err
		}
		if err := c.putEvent(weight, ev); err != nil {
			return err
		}
	}
	return nil
}

func (d *trinketDoc) convert() (*blackjack.TrinketTemplate, error) {
	if d.Key == "" {
		return nil, missingKey(d.Name, "key")
	}
	if d.Name == "" {
		return nil, missingKey(d.Key, "name")
	}

	tpl := &blackjack.TrinketTemplate{
		Key:                 d.Key,
		Name:                d.Name,
		Description:         d.Description,
		Passive:             d.Passive,
		StackMax:            d.StackMax,
		StackValue:          d.StackValue,
		StackStat:           d.StackStat,
		InitialDebuffBlocks: d.DebuffBlocks,
		InitialHealPunishes: d.HealPunishes,
	}

	if d.Rarity != "" {
		r, err := blackjack.RarityFromString(d.Rarity)
		if err != nil {
			return nil, schemaErr(d.Key, "rarity", err.Error())
		}
		tpl.Rarity = r
	}

	if d.Trigger != "" {
		ev, err := blackjack.GameEventFromString(d.Trigger)
		if err != nil {
			return nil, schemaErr(d.Key, "trigger", err.Error())
		}
		tpl.Trigger = ev
	}
	if tpl.Trigger != blackjack.EventNone && d.Primary == nil {
		return nil, missingKey(d.Key, "primary")
	}
	if d.ResetOn != "" {
		ev, err := blackjack.GameEventFromString(d.ResetOn)
		if err != nil {
			return nil, schemaErr(d.Key, "reset_on", err.Error())
		}
		tpl.ResetOn = ev
	}

	if d.Primary != nil {
		eff, err := d.Primary.convert(d.Key, "primary")
		if err != nil {
			return nil, err
		}
		tpl.Primary = eff
	}
	if d.Secondary != nil {
		eff, err := d.Secondary.convert(d.Key, "secondary")
		if err != nil {
			return nil, err
		}
		tpl.Secondary = &eff
	}

	if d.OnMax != "" {
		switch d.OnMax {
		case "clamp":
			tpl.OnMax = blackjack.OnMaxClamp
		case "reset_to_one":
			tpl.OnMax = blackjack.OnMaxResetToOne
		default:
			return nil, schemaErr(d.Key, "on_max", "must be clamp or reset_to_one")
		}
	}
	if d.StackMax < 0 {
		return nil, rangeErr(d.Key, "stack_max", "must be >= 0")
	}

	if d.Active != nil {
		if d.Active.Cooldown <= 0 {
			return nil, rangeErr(d.Key, "active.cooldown", "must be > 0")
		}
		tpl.Active = &blackjack.ActiveSpec{
			Value:       d.Active.Value,
			CooldownMax: d.Active.Cooldown,
			NeedsTarget: d.Active.NeedsTarget,
		}
	}
	return tpl, nil
}

func (d *effectDoc) convert(entry, field string) (blackjack.TrinketEffect, error) {
	var eff blackjack.TrinketEffect
	if d.Type == "" {
		return eff, missingKey(entry, field+".type")
	}
	typ, err := blackjack.TrinketEffectTypeFromString(d.Type)
	if err != nil {
		return eff, schemaErr(entry, field+".type", err.Error())
	}
	eff.Type = typ
	eff.Value = d.Value
	eff.StatusValue = d.StatusValue
	eff.StatusDuration = d.StatusDuration
	eff.StatusStacks = d.StatusStacks
	eff.TagCount = d.TagCount

	if d.Status != "" {
		k, err := blackjack.StatusKindFromString(d.Status)
		if err != nil {
			return eff, schemaErr(entry, field+".status", err.Error())
		}
		eff.Status = k
	}
	if d.Tag != "" {
		tag, err := blackjack.TagFromString(d.Tag)
		if err != nil {
			return eff, schemaErr(entry, field+".tag", err.Error())
		}
		eff.Tag = tag
	}
	return eff, nil
}

func (d *enemyDoc) convert() (*EnemyTemplate, error) {
	if d.Key == "" {
		return nil, missingKey(d.Name, "key")
	}
	if d.Name == "" {
		return nil, missingKey(d.Key, "name")
	}
	tpl := &EnemyTemplate{Key: d.Key, Name: d.Name, MaxHP: d.MaxHP, Elite: d.Elite}
	for i := range d.Abilities {
		a, err := d.Abilities[i].convert(d.Key)
		if err != nil {
			return nil, err
		}
		tpl.Abilities = append(tpl.Abilities, a)
	}
	return tpl, nil
}

func (d *abilityDoc) convert(entry string) (blackjack.Ability, error) {
	a := blackjack.Ability{Name: d.Name, Flavor: d.Flavor}
	if d.Name == "" {
		return a, missingKey(entry, "ability.name")
	}

	kind, err := blackjack.TriggerKindFromString(d.Trigger.Kind)
	if err != nil {
		return a, schemaErr(entry, "trigger.kind", err.Error())
	}
	a.Trigger = blackjack.Trigger{
		Kind:      kind,
		Max:       d.Trigger.Max,
		Ratio:     d.Trigger.Ratio,
		Chance:    d.Trigger.Chance,
		Percent:   d.Trigger.Percent,
		Threshold: d.Trigger.Threshold,
	}
	if d.Trigger.Event != "" {
		ev, err := blackjack.GameEventFromString(d.Trigger.Event)
		if err != nil {
			return a, schemaErr(entry, "trigger.event", err.Error())
		}
		a.Trigger.Event = ev
	}
	if d.Trigger.Action != "" {
		act, ok := actionFromString(d.Trigger.Action)
		if !ok {
			return a, schemaErr(entry, "trigger.action", "unknown action "+d.Trigger.Action)
		}
		a.Trigger.Action = act
	}

	for i := range d.Effects {
		eff, err := d.Effects[i].convert(entry)
		if err != nil {
			return a, err
		}
		a.Effects = append(a.Effects, eff)
	}
	return a, nil
}

func (d *abilityEffectDoc) convert(entry string) (blackjack.AbilityEffect, error) {
	var eff blackjack.AbilityEffect
	kind, err := blackjack.AbilityEffectKindFromString(d.Kind)
	if err != nil {
		return eff, schemaErr(entry, "effect.kind", err.Error())
	}
	eff.Kind = kind
	eff.Value = d.Value
	eff.Text = d.Text
	eff.StatusValue = d.StatusValue
	eff.StatusDuration = d.StatusDuration
	eff.StatusStacks = d.StatusStacks

	switch d.Target {
	case "", "self":
		eff.Target = blackjack.TargetSelf
	case "player":
		eff.Target = blackjack.TargetPlayer
	default:
		return eff, schemaErr(entry, "effect.target", "must be self or player")
	}

	if d.Status != "" {
		k, err := blackjack.StatusKindFromString(d.Status)
		if err != nil {
			return eff, schemaErr(entry, "effect.status", err.Error())
		}
		eff.Status = k
	}
	return eff, nil
}

func (d *eventDoc) convert() (int, blackjack.EventPrompt, error) {
	var ev blackjack.EventPrompt
	if d.Title == "" {
		return 0, ev, missingKey("", "title")
	}
	if len(d.Choices) != 3 {
		return 0, ev, schemaErr(d.Title, "choice", "events carry exactly 3 choices")
	}
	ev.Title = d.Title
	ev.Description = d.Description
	for i := range d.Choices {
		c, err := d.Choices[i].convert(d.Title)
		if err != nil {
			return 0, ev, err
		}
		ev.Choices[i] = c
	}
	weight := d.Weight
	if weight == 0 {
		weight = 1
	}
	return weight, ev, nil
}

func (d *choiceDoc) convert(entry string) (blackjack.EventChoice, error) {
	c := blackjack.EventChoice{
		Text:              d.Text,
		ChipsDelta:        d.Chips,
		SanityDelta:       d.Sanity,
		GrantTagCount:     d.GrantTagCount,
		TrinketKey:        d.Trinket,
		EnemyHPMultiplier: d.HPMultiplier,
	}
	if d.GrantTag != "" {
		tag, err := blackjack.TagFromString(d.GrantTag)
		if err != nil {
			return c, schemaErr(entry, "choice.grant_tag", err.Error())
		}
		c.GrantTag = tag
	}
	if d.RequiresTag != "" {
		tag, err := blackjack.TagFromString(d.RequiresTag)
		if err != nil {
			return c, schemaErr(entry, "choice.requires_tag", err.Error())
		}
		c.RequiresTag = &tag
	}
	return c, nil
}

func actionFromString(s string) (blackjack.ActionType, bool) {
	for a, name := range blackjack.ActionTypeDictionary {
		if name == s {
			return a, true
		}
	}
	return 0, false
}
