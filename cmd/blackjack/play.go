package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the terminal UI
type PlayCmd struct{}

func (c *PlayCmd) Run(globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := globals.Logger(cfg, os.Stderr, true)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	st, closeStore, err := globals.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	seed := randutil.Seed(globals.Seed)
	logger.Info("Starting terminal game", "seed", seed)

	g := game.New(randutil.New(seed), game.WithStore(st), game.WithLogger(logger))
	p := tea.NewProgram(tui.New(g, cfg.DealerDelay(), logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}

	fmt.Printf("Final balance: $%d (%d wins in %d games)\n",
		g.Balance(), g.Ledger().Wins(), g.Ledger().GamesPlayed())
	return nil
}
