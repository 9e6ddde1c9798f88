package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

// ResetCmd restores the starting balance and clears stats
type ResetCmd struct{}

func (c *ResetCmd) Run(globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := globals.Logger(cfg, os.Stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	st, closeStore, err := globals.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Resetting through a game keeps one code path for what "new game" means
	g := game.New(randutil.New(randutil.Seed(globals.Seed)), game.WithStore(st), game.WithLogger(logger))
	if err := g.ResetGame(); err != nil {
		return err
	}
	fmt.Printf("Ledger reset: balance $%d\n", g.Balance())
	return nil
}
