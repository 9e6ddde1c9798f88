// Package simulator plays many blackjack sessions with a fixed strategy and
// reports aggregate results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/store"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions int
	Rounds   int // rounds per session; a session stops early on bankruptcy
	Bet      int
	Strategy string
	Seed     int64
	Workers  int
	Logger   *log.Logger
}

// Simulator runs blackjack sessions
type Simulator struct {
	config   Config
	strategy Strategy
	logger   *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Sessions <= 0 {
		return nil, fmt.Errorf("sessions must be positive, got %d", config.Sessions)
	}
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", config.Rounds)
	}
	if config.Bet <= 0 {
		return nil, fmt.Errorf("bet must be positive, got %d", config.Bet)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Strategy == "" {
		config.Strategy = "basic"
	}
	strategy, err := StrategyByName(config.Strategy)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Simulator{
		config:   config,
		strategy: strategy,
		logger:   logger.WithPrefix("simulator"),
	}, nil
}

// Run executes every session and merges their statistics. Sessions are
// seeded from the config seed so a run is reproducible regardless of worker
// count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]*statistics.Statistics, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	s.logger.Info("Starting simulation",
		"sessions", s.config.Sessions,
		"rounds", s.config.Rounds,
		"bet", s.config.Bet,
		"strategy", s.strategy.Name(),
		"workers", s.config.Workers,
		"seed", s.config.Seed)

	for i := 0; i < s.config.Sessions; i++ {
		g.Go(func() error {
			stats, err := s.playSession(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i+1, err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := statistics.New()
	for _, r := range results {
		total.Merge(r)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete",
		"rounds", total.Rounds,
		"mean", total.Mean(),
		"bankruptcies", total.Bankruptcies)
	return total, nil
}

func (s *Simulator) playSession(ctx context.Context, index int) (*statistics.Statistics, error) {
	stats := statistics.New()
	rng := randutil.New(randutil.Derive(s.config.Seed, index))
	bj := game.New(rng, game.WithStore(store.NewMemory()))

	bj.EventBus().Subscribe(game.EventSubscriberFunc(func(event game.GameEvent) {
		end, ok := event.(game.RoundEndEvent)
		if !ok {
			return
		}
		stats.Add(statistics.RoundResult{
			Outcome: string(end.Outcome),
			Bet:     end.Bet,
			Net:     end.Credit - end.Bet,
			Cards:   len(end.PlayerHand),
		})
	}))

	for round := 0; round < s.config.Rounds && !bj.Bankrupt(); round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.playRound(bj); err != nil {
			return nil, fmt.Errorf("round %d: %w", round+1, err)
		}
	}

	stats.AddSession(bj.Balance(), bj.Bankrupt())
	s.logger.Debug("Session finished",
		"session", index+1,
		"balance", bj.Balance(),
		"rounds", stats.Rounds,
		"bankrupt", bj.Bankrupt())
	return stats, nil
}

func (s *Simulator) playRound(bj *game.Game) error {
	bet := min(s.config.Bet, bj.Balance())
	if err := bj.PlaceBet(bet); err != nil {
		return err
	}
	if err := bj.StartRound(); err != nil {
		return err
	}

	for bj.State() == game.Playing {
		var err error
		switch s.strategy.Decide(bj.PlayerHand(), bj.DealerHand()[0]) {
		case Hit:
			err = bj.Hit()
		default:
			err = bj.Stand()
		}
		if err != nil {
			return err
		}
	}
	bj.PlayDealer()

	if bj.Bet() != 0 {
		return fmt.Errorf("round ended with %d still at stake", bj.Bet())
	}
	return nil
}
