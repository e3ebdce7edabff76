package catalog

import (
	"fmt"

	"fiftytwo-lite/blackjack"
)

// DefaultAct wires the preset act: a normal combat, an event, an
// elite combat, and a closing event, drawing from every registered
// event.
func (c *Catalog) DefaultAct() (*blackjack.Act, error) {
	didact := c.Enemy("the_didact")
	daemon := c.Enemy("the_daemon")
	if didact == nil || daemon == nil {
		return nil, fmt.Errorf("default act needs the preset enemies registered")
	}

	act := &blackjack.Act{
		Name: "The Pit",
		Encounters: []blackjack.Encounter{
			{Kind: blackjack.EncounterNormal, Enemy: didact.Spawn},
			{Kind: blackjack.EncounterEvent},
			{Kind: blackjack.EncounterElite, Enemy: daemon.Spawn},
			{Kind: blackjack.EncounterEvent},
		},
		Pool: c.EventPool(),
	}
	if err := act.Validate(); err != nil {
		return nil, err
	}
	return act, nil
}
