// Package store persists the player's balance and lifetime statistics between
// sessions. The game engine only sees the Store interface; the concrete
// backends are a JSON file, a Postgres row and an in-memory value for tests.
package store

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// StartingBalance is the balance a new or reset player begins with
const StartingBalance = 1000

var (
	// ErrNotFound is returned by Load when nothing has been saved yet
	ErrNotFound = errors.New("store: no saved game")

	// ErrMalformed is returned by Load when saved data cannot be used
	ErrMalformed = errors.New("store: malformed saved game")
)

// Stats holds lifetime counters
type Stats struct {
	Wins        int `json:"wins"`
	GamesPlayed int `json:"gamesPlayed"`
}

// Record is the persisted pair of balance and stats
type Record struct {
	Balance int   `json:"balance"`
	Stats   Stats `json:"stats"`
}

// DefaultRecord returns the record for a brand new player
func DefaultRecord() Record {
	return Record{Balance: StartingBalance}
}

// Validate reports whether the record could have been produced by play
func (r Record) Validate() error {
	if r.Balance < 0 {
		return fmt.Errorf("%w: negative balance %d", ErrMalformed, r.Balance)
	}
	if r.Stats.Wins < 0 || r.Stats.GamesPlayed < 0 {
		return fmt.Errorf("%w: negative stats", ErrMalformed)
	}
	if r.Stats.Wins > r.Stats.GamesPlayed {
		return fmt.Errorf("%w: %d wins in %d games", ErrMalformed, r.Stats.Wins, r.Stats.GamesPlayed)
	}
	return nil
}

// Store is the persistence port used by the game
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

// LoadOrDefault loads the saved record, falling back to DefaultRecord when
// nothing is saved or the saved data is unusable.
func LoadOrDefault(s Store, logger *log.Logger) Record {
	if s == nil {
		return DefaultRecord()
	}
	rec, err := s.Load()
	if err == nil {
		err = rec.Validate()
	}
	switch {
	case err == nil:
		return rec
	case errors.Is(err, ErrNotFound):
		if logger != nil {
			logger.Debug("No saved game, starting fresh")
		}
	default:
		if logger != nil {
			logger.Warn("Ignoring saved game", "error", err)
		}
	}
	return DefaultRecord()
}
