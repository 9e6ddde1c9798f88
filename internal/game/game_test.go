package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
)

// recorder collects every published event
type recorder struct {
	events []GameEvent
}

func (r *recorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *recorder) states() []State {
	var out []State
	for _, e := range r.events {
		if sc, ok := e.(StateChangeEvent); ok {
			out = append(out, sc.To)
		}
	}
	return out
}

// newStackedGame returns a game that deals cards in the given order
func newStackedGame(t *testing.T, cards string, opts ...Option) (*Game, *recorder) {
	t.Helper()
	rng := randutil.New(1)
	d, err := deck.Stacked(rng, deck.MustParseCards(cards)...)
	require.NoError(t, err)

	bus := NewEventBus()
	rec := &recorder{}
	bus.Subscribe(rec)

	opts = append([]Option{WithDeck(d), WithEventBus(bus)}, opts...)
	return New(rng, opts...), rec
}

func TestNewGameDefaults(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(42))

	s := g.Snapshot()
	assert.Equal(t, Betting, s.State)
	assert.Equal(t, store.StartingBalance, s.Balance)
	assert.Zero(t, s.Bet)
	assert.Zero(t, s.Wins)
	assert.Zero(t, s.GamesPlayed)
	assert.Equal(t, msgPlaceBet, s.Message)
	assert.False(t, s.Bankrupt)
}

func TestNewGameRestoresStore(t *testing.T) {
	t.Parallel()
	mem := store.NewMemoryWith(store.Record{Balance: 420, Stats: store.Stats{Wins: 3, GamesPlayed: 7}})
	g := New(randutil.New(42), WithStore(mem))

	s := g.Snapshot()
	assert.Equal(t, 420, s.Balance)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 7, s.GamesPlayed)
}

func TestPlaceBet(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(42))

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.PlaceBet(25))
	assert.Equal(t, 125, g.Bet())
	assert.Equal(t, 875, g.Balance())
	assert.Equal(t, msgDeal, g.Snapshot().Message)
}

func TestPlaceBetInsufficientFunds(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(42))

	err := g.PlaceBet(1001)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1000, g.Balance())
	assert.Zero(t, g.Bet())

	s := g.Snapshot()
	assert.Equal(t, "Insufficient funds!", s.Message)
	assert.Equal(t, CategoryLose, s.MessageCategory)

	// Exactly the balance is allowed
	require.NoError(t, g.PlaceBet(1000))
	assert.Zero(t, g.Balance())
}

func TestPlaceBetRejectsNonPositive(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(42))
	assert.ErrorIs(t, g.PlaceBet(0), ErrInvalidBet)
	assert.ErrorIs(t, g.PlaceBet(-5), ErrInvalidBet)
	assert.Equal(t, 1000, g.Balance())
}

func TestStartRoundRequiresBet(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(42))
	assert.ErrorIs(t, g.StartRound(), ErrNoBet)
	assert.Equal(t, Betting, g.State())
	assert.Empty(t, g.PlayerHand())
}

func TestActionsOutsidePlayingAreIgnored(t *testing.T) {
	t.Parallel()
	g, rec := newStackedGame(t, "10s 10h 8d 2c")

	assert.ErrorIs(t, g.Hit(), ErrWrongState)
	assert.ErrorIs(t, g.Stand(), ErrWrongState)
	assert.False(t, g.AdvanceDealer())
	assert.Empty(t, rec.events)

	require.NoError(t, g.PlaceBet(10))
	require.NoError(t, g.StartRound())
	assert.ErrorIs(t, g.PlaceBet(10), ErrWrongState)
	assert.ErrorIs(t, g.StartRound(), ErrWrongState)
	assert.Equal(t, 10, g.Bet())
}

func TestScenarioStandWins(t *testing.T) {
	t.Parallel()
	g, _ := newStackedGame(t, "As 10h 9d 8c")

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())

	assert.Equal(t, Playing, g.State())
	assert.Equal(t, "A♠ 9♦", g.PlayerHand().String())
	assert.Equal(t, 20, g.PlayerHand().Value())
	assert.Equal(t, "10♥ 8♣", g.DealerHand().String())
	assert.Equal(t, 18, g.DealerHand().Value())

	require.NoError(t, g.Stand())

	assert.Len(t, g.DealerHand(), 2, "dealer on 18 must not draw")
	assert.Equal(t, OutcomeWin, g.Outcome())
	assert.Equal(t, Betting, g.State())
	assert.Equal(t, 1100, g.Balance())
	assert.Zero(t, g.Bet())
	assert.Equal(t, 1, g.Ledger().Wins())
	assert.Equal(t, 1, g.Ledger().GamesPlayed())
}

func TestScenarioNaturalBlackjack(t *testing.T) {
	t.Parallel()
	g, rec := newStackedGame(t, "As 2c Kh 5d")

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())

	assert.Equal(t, OutcomeBlackjack, g.Outcome())
	assert.Equal(t, 1150, g.Balance())
	assert.Equal(t, Betting, g.State())
	assert.NotContains(t, rec.states(), Playing, "natural must not enter Playing")
	assert.Equal(t, []State{Resolved, Betting}, rec.states())
}

func TestScenarioDealerBustRegardlessOfPlayer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cards string
	}{
		{"player on 18", "10s 10h 8d 6c 6d"},
		{"player on 12", "10s 10h 2d 6c 6d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newStackedGame(t, tt.cards)
			require.NoError(t, g.PlaceBet(100))
			require.NoError(t, g.StartRound())
			require.Equal(t, 16, g.DealerHand().Value())

			require.NoError(t, g.Stand())
			assert.Equal(t, DealerTurn, g.State())

			assert.False(t, g.AdvanceDealer())
			assert.Equal(t, 22, g.DealerHand().Value())
			assert.Equal(t, OutcomeDealerBust, g.Outcome())
			assert.Equal(t, 1100, g.Balance())
		})
	}
}

func TestInitialDealOutcomes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cards   string
		outcome Outcome
		balance int
	}{
		{"both naturals push", "As Ah Kd Kc", OutcomePush, 1000},
		{"dealer natural", "10s Ah 9d Kc", OutcomeDealerBlackjack, 900},
		{"player natural beats dealer twenty", "Ks 10h As Qc", OutcomeBlackjack, 1150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newStackedGame(t, tt.cards)
			require.NoError(t, g.PlaceBet(100))
			require.NoError(t, g.StartRound())
			assert.Equal(t, tt.outcome, g.Outcome())
			assert.Equal(t, tt.balance, g.Balance())
			assert.Equal(t, Betting, g.State())
			assert.Equal(t, 1, g.Ledger().GamesPlayed())
		})
	}
}

func TestShowdownOutcomes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cards   string
		outcome Outcome
		balance int
		wins    int
	}{
		{"push", "10s 10h 7d 7c", OutcomePush, 1000, 0},
		{"lose", "10s 10h 7d 9c", OutcomeLose, 900, 0},
		{"win", "10s 10h 9d 7c", OutcomeWin, 1100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newStackedGame(t, tt.cards)
			require.NoError(t, g.PlaceBet(100))
			require.NoError(t, g.StartRound())
			require.NoError(t, g.Stand())
			assert.Equal(t, tt.outcome, g.Outcome())
			assert.Equal(t, tt.balance, g.Balance())
			assert.Equal(t, tt.wins, g.Ledger().Wins())
			assert.Zero(t, g.Bet())
		})
	}
}

func TestHitBust(t *testing.T) {
	t.Parallel()
	g, _ := newStackedGame(t, "10s 9h 5d 7c Kd")

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Hit())

	assert.Equal(t, 25, g.PlayerHand().Value())
	assert.Equal(t, OutcomeBust, g.Outcome())
	assert.Equal(t, 900, g.Balance())
	assert.Zero(t, g.Bet())
	assert.Len(t, g.DealerHand(), 2, "dealer does not play after a bust")
}

func TestHitToTwentyOneStandsAndPaysEvenMoney(t *testing.T) {
	t.Parallel()
	g, _ := newStackedGame(t, "5s 10h 6d 7c Kd")

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Hit())

	assert.Equal(t, 21, g.PlayerHand().Value())
	assert.Equal(t, OutcomeWin, g.Outcome(), "21 after a hit is not a blackjack")
	assert.Equal(t, 1100, g.Balance())
}

func TestDealerDrawsOneCardPerStep(t *testing.T) {
	t.Parallel()
	g, rec := newStackedGame(t, "10s 10h 8d 2c 3d 4h")

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Stand())
	require.Equal(t, 12, g.DealerHand().Value())

	assert.True(t, g.AdvanceDealer())
	assert.Equal(t, 15, g.DealerHand().Value())
	assert.Equal(t, DealerTurn, g.State())

	assert.False(t, g.AdvanceDealer())
	assert.Equal(t, 19, g.DealerHand().Value())
	assert.Equal(t, OutcomeLose, g.Outcome())

	var dealerCards int
	for _, e := range rec.events {
		if cd, ok := e.(CardDealtEvent); ok && cd.Seat == SeatDealer {
			dealerCards++
		}
	}
	assert.Equal(t, 4, dealerCards)
}

func TestPlayDealer(t *testing.T) {
	t.Parallel()
	g, _ := newStackedGame(t, "10s 10h 8d 2c 3d 4h")
	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Stand())

	g.PlayDealer()
	assert.Equal(t, OutcomeLose, g.Outcome())
	assert.Equal(t, Betting, g.State())
}

func TestSnapshotHidesHoleCardWhilePlaying(t *testing.T) {
	t.Parallel()
	g, _ := newStackedGame(t, "10s 9h 5d 7c")
	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())

	s := g.Snapshot()
	assert.True(t, s.DealerHoleHidden)
	assert.Equal(t, 9, s.DealerValue)
	assert.Len(t, s.DealerHand, 2)
	assert.Equal(t, []deck.Card{deck.NewCard(deck.Nine, deck.Hearts)}, s.VisibleDealerCards())
	assert.True(t, s.CanAct())
	assert.False(t, s.CanDeal())

	require.NoError(t, g.Stand())
	s = g.Snapshot()
	assert.False(t, s.DealerHoleHidden)
	assert.Equal(t, 16, s.DealerHand[:2].Value())
}

func TestResetRefusedDuringDealerTurn(t *testing.T) {
	t.Parallel()
	g, _ := newStackedGame(t, "10s 10h 8d 2c 3d 4h")
	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Stand())

	assert.ErrorIs(t, g.ResetGame(), ErrDealerTurn)
	assert.Equal(t, DealerTurn, g.State())
	assert.False(t, g.Snapshot().CanReset())

	g.PlayDealer()
	require.NoError(t, g.ResetGame())
	assert.Equal(t, store.StartingBalance, g.Balance())
	assert.Zero(t, g.Ledger().GamesPlayed())
}

func TestResetDuringPlayForfeitsBet(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	g, _ := newStackedGame(t, "10s 9h 5d 7c", WithStore(mem))
	require.NoError(t, g.PlaceBet(300))
	require.NoError(t, g.StartRound())

	require.NoError(t, g.ResetGame())
	s := g.Snapshot()
	assert.Equal(t, Betting, s.State)
	assert.Equal(t, 1000, s.Balance)
	assert.Zero(t, s.Bet)
	assert.Empty(t, s.PlayerHand)
	assert.Equal(t, 1, mem.Saves())
}

func TestBankruptRequiresReset(t *testing.T) {
	t.Parallel()
	mem := store.NewMemoryWith(store.Record{Balance: 100})
	g, _ := newStackedGame(t, "10s 10h 7d 9c", WithStore(mem))

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Stand())

	s := g.Snapshot()
	assert.Equal(t, OutcomeLose, s.Outcome)
	assert.Equal(t, Resolved, s.State)
	assert.True(t, s.Bankrupt)
	assert.Equal(t, msgBankrupt, s.Message)

	assert.ErrorIs(t, g.PlaceBet(10), ErrBankrupt)
	assert.ErrorIs(t, g.StartRound(), ErrBankrupt)

	saved, err := mem.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Record{Balance: 0, Stats: store.Stats{GamesPlayed: 1}}, saved)

	require.NoError(t, g.ResetGame())
	assert.Equal(t, Betting, g.State())
	assert.False(t, g.Bankrupt())
	require.NoError(t, g.PlaceBet(10))
}

func TestBankruptOnLoad(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(1), WithStore(store.NewMemoryWith(store.Record{Balance: 0, Stats: store.Stats{GamesPlayed: 4}})))
	assert.True(t, g.Bankrupt())
	assert.ErrorIs(t, g.PlaceBet(10), ErrBankrupt)
}

func TestSavesAfterEveryResolution(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	g, _ := newStackedGame(t, "As 10h 9d 8c 10s 10d 7d 9c", WithStore(mem))

	require.NoError(t, g.PlaceBet(100))
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Stand())
	assert.Equal(t, 1, mem.Saves())

	require.NoError(t, g.PlaceBet(50))
	assert.Equal(t, 1, mem.Saves(), "bets are not persisted until the round ends")
	require.NoError(t, g.StartRound())
	require.NoError(t, g.Stand())
	assert.Equal(t, 2, mem.Saves())

	saved, err := mem.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Record{Balance: 1050, Stats: store.Stats{Wins: 1, GamesPlayed: 2}}, saved)
}

func TestBetNeverLeftDangling(t *testing.T) {
	t.Parallel()
	g := New(randutil.New(77))
	for round := 0; round < 500 && !g.Bankrupt(); round++ {
		require.NoError(t, g.PlaceBet(min(10, g.Balance())))
		require.NoError(t, g.StartRound())
		for g.State() == Playing && g.PlayerHand().Value() < 17 {
			require.NoError(t, g.Hit())
		}
		if g.State() == Playing {
			require.NoError(t, g.Stand())
		}
		g.PlayDealer()

		require.Zero(t, g.Bet(), "round %d left a bet", round)
		require.GreaterOrEqual(t, g.Balance(), 0)
		require.NotEqual(t, OutcomeNone, g.Outcome())
	}
	assert.Positive(t, g.Ledger().GamesPlayed())
}

func TestAdvisoryEventPublished(t *testing.T) {
	t.Parallel()
	g, rec := newStackedGame(t, "10s 10h 8d 2c")
	_ = g.PlaceBet(5000)

	require.Len(t, rec.events, 1)
	adv, ok := rec.events[0].(AdvisoryEvent)
	require.True(t, ok)
	assert.ErrorIs(t, adv.Err, ErrInsufficientFunds)
	assert.Equal(t, EventTypeAdvisory, adv.EventType())
}
