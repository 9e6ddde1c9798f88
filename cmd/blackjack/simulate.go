package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/statistics"
)

// SimulateCmd plays automated sessions and prints aggregate results
type SimulateCmd struct {
	Sessions int    `kong:"default='100',help='Number of independent sessions'"`
	Rounds   int    `kong:"default='100',help='Rounds per session (fewer if the player goes broke)'"`
	Bet      int    `kong:"default='10',help='Flat bet per round'"`
	Strategy string `kong:"default='basic',enum='basic,dealer,cautious',help='Player strategy (basic, dealer, cautious)'"`
	Workers  int    `kong:"default='0',help='Parallel sessions (0 uses every CPU)'"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	// Simulation results go to stdout; keep the log quiet unless asked
	if !globals.Debug {
		cfg.Log.Level = "warn"
	}
	logger, closeLog, err := globals.Logger(cfg, os.Stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signalContext(logger)
	defer cancel()

	seed := randutil.Seed(globals.Seed)
	sim, err := simulator.New(simulator.Config{
		Sessions: c.Sessions,
		Rounds:   c.Rounds,
		Bet:      c.Bet,
		Strategy: c.Strategy,
		Seed:     seed,
		Workers:  c.Workers,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting simulation: %d sessions x %d rounds, $%d bets, %s strategy (seed: %d)\n",
		c.Sessions, c.Rounds, c.Bet, c.Strategy, seed)

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	printResults(stats, c.Strategy, time.Since(start))
	return nil
}

func printResults(stats *statistics.Statistics, strategy string, duration time.Duration) {
	low, high := stats.ConfidenceInterval95()

	fmt.Println(bannerStyle.Render(fmt.Sprintf("FINAL RESULTS (%s)", strategy)))
	fmt.Printf("Rounds played: %d in %d sessions\n", stats.Rounds, stats.Sessions)
	fmt.Printf("Total time: %v\n", duration.Round(time.Millisecond))
	if stats.Rounds > 0 {
		fmt.Printf("Performance: %.0f rounds/sec\n", float64(stats.Rounds)/duration.Seconds())
	}

	fmt.Println(bannerStyle.Render("STATISTICAL RESULTS"))
	fmt.Printf("Mean: %.4f $/round\n", stats.Mean())
	fmt.Printf("Median: %.4f $/round\n", stats.Median())
	fmt.Printf("Std Dev: %.4f $\n", stats.StdDev())
	fmt.Printf("Std Error: %.4f $\n", stats.StdError())
	fmt.Printf("95%% CI: [%.4f, %.4f] $/round\n", low, high)
	fmt.Printf("Average player cards: %.2f\n", stats.AvgCards())
	fmt.Printf("House edge: %.2f%% of $%d wagered\n", stats.HouseEdge()*100, stats.Wagered)

	fmt.Println(bannerStyle.Render("OUTCOMES"))
	for _, outcome := range game.Outcomes {
		n := stats.Outcomes[string(outcome)]
		fmt.Printf("%-17s %7d  (%.1f%%)\n", outcome, n, stats.Rate(string(outcome))*100)
	}
	fmt.Printf("Bankruptcies: %d of %d sessions\n", stats.Bankruptcies, stats.Sessions)
	fmt.Printf("Best final balance: $%d\n", stats.MaxBalance)
}
