// Package game implements a single-player blackjack round engine.
//
// The main type is Game, which owns the deck, both hands, the current bet
// and the player's Ledger, and moves through the round states
// Betting → Playing → DealerTurn → Resolved.
//
// # Basic Usage
//
//	g := game.New(randutil.New(42), game.WithStore(store.NewFile("blackjack.json")))
//	_ = g.PlaceBet(100)
//	_ = g.StartRound()
//	_ = g.Stand()
//	for g.AdvanceDealer() {
//	    // render g.Snapshot() between dealer draws
//	}
//
// Invalid actions never panic or block: they leave the game unchanged,
// return a sentinel error and, where a player would want to know, set an
// advisory message on the snapshot.
//
// # Dealer Pacing
//
// The dealer draws at most one card per AdvanceDealer call so a UI can show
// each card before the next. Pacer drives AdvanceDealer from a quartz.Clock;
// the terminal UI uses Bubble Tea ticks instead.
//
// # Deterministic Testing
//
// Provide a stacked deck to control the exact deal:
//
//	d := deck.MustStacked(randutil.New(1), deck.MustParseCards("As 10h 9d 8c")...)
//	g := game.New(randutil.New(1), game.WithDeck(d))
package game
