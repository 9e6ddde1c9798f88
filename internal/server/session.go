package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// Session owns the single game a server exposes. Every access goes through
// its mutex, including the paced dealer steps.
type Session struct {
	mu     sync.Mutex
	game   *game.Game
	pacer  *game.Pacer
	logger *log.Logger

	listenersMu sync.RWMutex
	listeners   []func(game.Snapshot)
}

// NewSession wraps g. Dealer draws are scheduled through pacer.
func NewSession(g *game.Game, pacer *game.Pacer, logger *log.Logger) *Session {
	return &Session{
		game:   g,
		pacer:  pacer,
		logger: logger.WithPrefix("session"),
	}
}

// OnChange registers fn to receive a snapshot after every transition
func (s *Session) OnChange(fn func(game.Snapshot)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current game state
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// WithSnapshot calls fn with the current state while holding the session
// lock, so no transition can be broadcast until fn returns.
func (s *Session) WithSnapshot(fn func(game.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game.Snapshot())
}

// Apply performs a player action. The returned error is the game's refusal,
// if any; the snapshot reflects state after the attempt either way.
func (s *Session) Apply(req ActionRequest) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch req.Type {
	case ActionBet:
		err = s.game.PlaceBet(req.Amount)
	case ActionDeal:
		err = s.game.StartRound()
	case ActionHit:
		err = s.game.Hit()
	case ActionStand:
		err = s.game.Stand()
	case ActionReset:
		err = s.game.ResetGame()
	default:
		err = req.Validate()
	}
	if err != nil {
		s.logger.Debug("Action refused", "action", req.Type, "error", err)
	}

	if s.game.State() == game.DealerTurn {
		s.pacer.Start(s.dealerStep)
	}

	snap := s.game.Snapshot()
	s.notify(snap)
	return snap, err
}

// Close stops any pending dealer step
func (s *Session) Close() {
	s.pacer.Stop()
}

func (s *Session) dealerStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	more := s.game.AdvanceDealer()
	s.notify(s.game.Snapshot())
	return more
}

func (s *Session) notify(snap game.Snapshot) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, fn := range s.listeners {
		fn(snap)
	}
}
