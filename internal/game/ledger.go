package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/store"
)

// Ledger tracks the player's balance and lifetime stats. Only Game writes to
// it, when a bet is placed and when a round resolves or the game resets.
type Ledger struct {
	balance     int
	wins        int
	gamesPlayed int
}

// NewLedger restores a ledger from a persisted record
func NewLedger(rec store.Record) *Ledger {
	return &Ledger{
		balance:     rec.Balance,
		wins:        rec.Stats.Wins,
		gamesPlayed: rec.Stats.GamesPlayed,
	}
}

// ApplyDelta adds amount (which may be negative) to the balance
func (l *Ledger) ApplyDelta(amount int) {
	if l.balance+amount < 0 {
		panic(fmt.Sprintf("ledger: balance %d cannot absorb %d", l.balance, amount))
	}
	l.balance += amount
}

// RecordGame counts a finished round
func (l *Ledger) RecordGame(isWin bool) {
	l.gamesPlayed++
	if isWin {
		l.wins++
	}
}

// Reset restores the starting balance and clears stats
func (l *Ledger) Reset() {
	l.balance = store.StartingBalance
	l.wins = 0
	l.gamesPlayed = 0
}

func (l *Ledger) Balance() int     { return l.balance }
func (l *Ledger) Wins() int        { return l.wins }
func (l *Ledger) GamesPlayed() int { return l.gamesPlayed }

// Record returns the persisted form of the ledger
func (l *Ledger) Record() store.Record {
	return store.Record{
		Balance: l.balance,
		Stats: store.Stats{
			Wins:        l.wins,
			GamesPlayed: l.gamesPlayed,
		},
	}
}
