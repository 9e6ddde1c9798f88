package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS blackjack_ledger (
	key          TEXT PRIMARY KEY,
	balance      BIGINT NOT NULL,
	wins         BIGINT NOT NULL DEFAULT 0,
	games_played BIGINT NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// DefaultTimeout bounds each Postgres round trip
const DefaultTimeout = 5 * time.Second

// Postgres stores one ledger row per key
type Postgres struct {
	pool    *pgxpool.Pool
	key     string
	timeout time.Duration
}

// OpenPostgres connects to dsn and makes sure the ledger table exists
func OpenPostgres(ctx context.Context, dsn, key string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}
	if key == "" {
		key = "default"
	}
	return &Postgres{pool: pool, key: key, timeout: DefaultTimeout}, nil
}

// Close releases the connection pool
func (p *Postgres) Close() {
	p.pool.Close()
}

// Load implements Store
func (p *Postgres) Load() (Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var balance, wins, games int64
	err := p.pool.QueryRow(ctx, `
		SELECT balance, wins, games_played
		  FROM blackjack_ledger WHERE key = $1
	`, p.key).Scan(&balance, &wins, &games)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load ledger %q: %w", p.key, err)
	}
	return Record{
		Balance: int(balance),
		Stats:   Stats{Wins: int(wins), GamesPlayed: int(games)},
	}, nil
}

// Save implements Store
func (p *Postgres) Save(rec Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO blackjack_ledger(key, balance, wins, games_played)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		   SET balance = EXCLUDED.balance,
		       wins = EXCLUDED.wins,
		       games_played = EXCLUDED.games_played,
		       updated_at = now()
	`, p.key, int64(rec.Balance), int64(rec.Stats.Wins), int64(rec.Stats.GamesPlayed))
	if err != nil {
		return fmt.Errorf("failed to save ledger %q: %w", p.key, err)
	}
	return nil
}
