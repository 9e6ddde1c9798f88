package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/store"
)

var bannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#0B6E4F")).
	Bold(true).
	Padding(0, 1).
	MarginTop(1)

// StatsCmd prints the persisted ledger
type StatsCmd struct{}

func (c *StatsCmd) Run(globals *Globals) error {
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

	rec := store.LoadOrDefault(st, logger)
	fmt.Println(bannerStyle.Render("BLACKJACK LEDGER"))
	fmt.Printf("Balance: $%d\n", rec.Balance)
	fmt.Printf("Wins:    %d\n", rec.Stats.Wins)
	fmt.Printf("Games:   %d\n", rec.Stats.GamesPlayed)
	if rec.Stats.GamesPlayed > 0 {
		fmt.Printf("Win rate: %.1f%%\n", float64(rec.Stats.Wins)/float64(rec.Stats.GamesPlayed)*100)
	}
	return nil
}
