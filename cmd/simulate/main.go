// Command simulate drives a headless run: it seeds the engine, plays
// a simple policy, and prints the event transcript. The same seed
// always prints the same transcript, which makes it the fastest way
// to check a rules change.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"fiftytwo-lite/blackjack"
	"fiftytwo-lite/blackjack/catalog"
)

func main() {
	var (
		seed    = flag.Int64("seed", 1, "run seed")
		decks   = flag.Int("decks", 1, "decks in the shoe")
		class   = flag.String("class", "Degenerate", "player class")
		maxTick = flag.Int("max-ticks", 200000, "tick cap before giving up")
		quiet   = flag.Bool("quiet", false, "suppress the event transcript")
	)
	flag.Parse()

	cls, ok := classFromString(*class)
	if !ok {
		log.Fatalf("[Simulate] unknown class %q", *class)
	}

	cat := catalog.Default()
	act, err := cat.DefaultAct()
	if err != nil {
		log.Fatalf("[Simulate] build act: %v", err)
	}

	game, err := blackjack.NewGame(blackjack.Config{
		Decks:      *decks,
		PlayerName: "Simulant",
		Class:      cls,
		Seed:       *seed,
		Act:        act,
	})
	if err != nil {
		log.Fatalf("[Simulate] new game: %v", err)
	}
	game.EquipClassTrinket(cat.NewTrinket("degenerates_gambit"))

	const dt = 0.1
	ticks := 0
	for ; ticks < *maxTick; ticks++ {
		game.Update(dt)

		for _, ev := range game.DrainEvents() {
			if !*quiet {
				printEvent(ev)
			}
			if ev.Kind == blackjack.EventRunComplete || ev.Kind == blackjack.EventPlayerDefeated {
				report(game, ticks)
				return
			}
		}
		game.DrainDeltas()

		autoplay(game)
	}

	fmt.Fprintf(os.Stderr, "tick cap reached without an ending\n")
	report(game, ticks)
	os.Exit(1)
}

// autoplay is the scripted policy: bet the cheapest enabled option,
// hit to 16, stand otherwise, take every event's first open choice.
func autoplay(g *blackjack.Game) {
	switch g.State() {
	case blackjack.StateBetting:
		opts := g.ApplySanityEffectsToBetting()
		for i, enabled := range opts.Enabled {
			if enabled && g.PlaceBet(opts.Amounts[i]) == nil {
				return
			}
		}
		// Nothing affordable; shove what is left.
		snap := g.Snapshot()
		if snap.Chips > 0 {
			g.PlaceBet(snap.Chips)
		}

	case blackjack.StatePlayerTurn:
		if g.Snapshot().PlayerValue < 16 {
			g.PlayerAct(blackjack.ActionHit)
		} else {
			g.PlayerAct(blackjack.ActionStand)
		}

	case blackjack.StateEventActive:
		snap := g.Snapshot()
		if snap.Event == nil {
			return
		}
		for i, c := range snap.Event.Choices {
			if !c.Locked {
				g.ChooseEvent(i)
				return
			}
		}
	}
}

func printEvent(ev blackjack.Event) {
	switch ev.Kind {
	case blackjack.EventStateChanged:
		fmt.Printf("state %s -> %s\n", ev.From, ev.To)
	case blackjack.EventDamageDealt:
		crit := ""
		if ev.Crit {
			crit = " CRIT"
		}
		fmt.Printf("damage %d (%s)%s\n", ev.Amount, blackjack.DamageSourceDictionary[ev.Source], crit)
	case blackjack.EventSoundRequested:
		// Transcript noise; skip.
	default:
		fmt.Printf("event %s\n", ev.Kind)
	}
}

func report(g *blackjack.Game, ticks int) {
	snap := g.Snapshot()
	stats := g.Stats()
	fmt.Printf("--- run over after %d ticks ---\n", ticks)
	fmt.Printf("chips=%d sanity=%d rounds=%d combats_won=%d damage=%d\n",
		snap.Chips, snap.Sanity, stats.TurnsPlayed, stats.CombatsWon, stats.DamageDealtTotal)
}

func classFromString(s string) (blackjack.Class, bool) {
	for c, name := range blackjack.ClassDictionary {
		if name == s {
			return c, true
		}
	}
	return 0, false
}
