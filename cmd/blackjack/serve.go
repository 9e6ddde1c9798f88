package main

import (
	"os"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
)

// ServeCmd exposes one table over HTTP and websockets
type ServeCmd struct {
	Addr string `kong:"help='Listen address, overrides the config file (e.g. :8080)'"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := globals.Logger(cfg, os.Stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signalContext(logger)
	defer cancel()

	st, closeStore, err := globals.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	seed := randutil.Seed(globals.Seed)
	g := game.New(randutil.New(seed), game.WithStore(st), game.WithLogger(logger))
	session := server.NewSession(g, game.NewPacer(quartz.NewReal(), cfg.DealerDelay()), logger)
	srv := server.NewServer(session, logger)

	addr := c.Addr
	if addr == "" {
		addr = cfg.ServerAddress()
	}
	logger.Info("Starting blackjack table",
		"address", addr,
		"seed", seed,
		"dealer_delay", cfg.DealerDelay(),
		"balance", g.Balance())

	return srv.Run(ctx, addr)
}
