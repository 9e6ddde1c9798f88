package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/logging"
	"github.com/lox/blackjack/internal/store"
)

// Globals are flags shared by every subcommand. Flags override the config file.
type Globals struct {
	Config string `kong:"default='blackjack.hcl',type='path',help='HCL config file'"`
	State  string `kong:"type='path',help='JSON file holding balance and stats'"`
	DSN    string `kong:"name='dsn',env='BLACKJACK_DSN',help='Postgres DSN; stores state in Postgres instead of a file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   int64  `kong:"help='Deterministic RNG seed (0 picks one from the clock)'"`
}

// LoadConfig reads the config file and applies flag overrides
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.State != "" {
		cfg.State.File = g.State
	}
	if g.DSN != "" {
		cfg.State.PostgresDSN = g.DSN
	}
	if g.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Logger builds the root logger. When toFile is set output goes to the
// configured log file, keeping the terminal free for the UI.
func (g *Globals) Logger(cfg *config.Config, out io.Writer, toFile bool) (*log.Logger, func() error, error) {
	opts := logging.Options{
		Level:  cfg.Log.Level,
		Debug:  g.Debug,
		Output: out,
	}
	if toFile {
		opts.File = cfg.Log.File
	}
	return logging.New(opts)
}

// OpenStore returns the configured ledger store and a function to release it
func (g *Globals) OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, func(), error) {
	logger = logger.WithPrefix("store")
	if cfg.State.PostgresDSN != "" {
		pg, err := store.OpenPostgres(ctx, cfg.State.PostgresDSN, cfg.State.Key)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Using postgres store", "key", cfg.State.Key)
		return pg, pg.Close, nil
	}
	logger.Debug("Using file store", "path", cfg.State.File)
	return store.NewFile(cfg.State.File), func() {}, nil
}
