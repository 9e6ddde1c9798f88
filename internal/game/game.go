package game

import (
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/store"
)

var (
	ErrWrongState        = errors.New("action not allowed in current state")
	ErrInvalidBet        = errors.New("bet must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoBet             = errors.New("no bet placed")
	ErrBankrupt          = errors.New("balance exhausted, reset required")
	ErrDealerTurn        = errors.New("dealer is still playing")
)

const (
	msgPlaceBet   = "Place your bet to start playing!"
	msgDeal       = "Click DEAL to start the round!"
	msgHitOrStand = "Hit or Stand?"
	msgDealerTurn = "Dealer's turn..."
	msgBankrupt   = "Game Over! Click New Game to restart with $1000."
)

// Option configures a Game during creation
type Option func(*Game)

// WithDeck uses d instead of a freshly shuffled deck
func WithDeck(d *deck.Deck) Option {
	return func(g *Game) { g.deck = d }
}

// WithStore loads the ledger from s and saves to it after every round
func WithStore(s store.Store) Option {
	return func(g *Game) { g.store = s }
}

// WithLogger sets the logger; the game logs under the "game" prefix
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithEventBus publishes events to bus instead of a private bus
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// Game is the round state machine for one player against the dealer. It is
// not safe for concurrent use; callers serialise access.
type Game struct {
	deck   *deck.Deck
	ledger *Ledger
	store  store.Store
	logger *log.Logger
	bus    EventBus

	state    State
	bet      int
	player   Hand
	dealer   Hand
	outcome  Outcome
	message  string
	category Category
}

// New creates a game, restoring the ledger from the configured store.
// The RNG is required so shuffles are always explicit and reproducible.
func New(rng *rand.Rand, opts ...Option) *Game {
	if rng == nil {
		panic("rng is required for game creation")
	}

	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.logger = g.logger.WithPrefix("game")
	if g.bus == nil {
		g.bus = NewEventBus()
	}
	if g.deck == nil {
		g.deck = deck.NewDeck(rng)
	}

	g.ledger = NewLedger(store.LoadOrDefault(g.store, g.logger))
	g.state = Betting
	g.message = msgPlaceBet
	if g.ledger.Balance() == 0 {
		g.state = Resolved
		g.setMessage(msgBankrupt, CategoryLose)
	}

	g.logger.Info("Game ready",
		"balance", g.ledger.Balance(),
		"wins", g.ledger.Wins(),
		"games", g.ledger.GamesPlayed())
	return g
}

// EventBus returns the bus the game publishes to
func (g *Game) EventBus() EventBus { return g.bus }

// State returns the current round state
func (g *Game) State() State { return g.state }

// Bet returns the chips currently at stake
func (g *Game) Bet() int { return g.bet }

// Balance returns the player's balance excluding the current bet
func (g *Game) Balance() int { return g.ledger.Balance() }

// Ledger returns the player's ledger. Callers must not mutate it.
func (g *Game) Ledger() *Ledger { return g.ledger }

// PlayerHand returns a copy of the player's cards
func (g *Game) PlayerHand() Hand { return g.player.Clone() }

// DealerHand returns a copy of the dealer's cards, including the hole card
func (g *Game) DealerHand() Hand { return g.dealer.Clone() }

// Outcome returns how the last round ended
func (g *Game) Outcome() Outcome { return g.outcome }

// Bankrupt reports whether the game needs a reset before play can continue
func (g *Game) Bankrupt() bool {
	return g.state == Resolved && g.ledger.Balance() == 0 && g.bet == 0
}

// PlaceBet moves amount from the balance onto the bet
func (g *Game) PlaceBet(amount int) error {
	if g.Bankrupt() {
		return g.advise(ErrBankrupt, msgBankrupt, CategoryLose)
	}
	if g.state != Betting {
		return ErrWrongState
	}
	if amount <= 0 {
		return g.advise(ErrInvalidBet, "Bet must be a positive amount.", CategoryLose)
	}
	if amount > g.ledger.Balance() {
		return g.advise(ErrInsufficientFunds, "Insufficient funds!", CategoryLose)
	}

	g.ledger.ApplyDelta(-amount)
	g.bet += amount
	g.setMessage(msgDeal, CategoryNone)

	g.logger.Debug("Bet placed", "amount", amount, "bet", g.bet, "balance", g.ledger.Balance())
	g.bus.Publish(BetPlacedEvent{
		Amount:    amount,
		TotalBet:  g.bet,
		Balance:   g.ledger.Balance(),
		timestamp: time.Now(),
	})
	return nil
}

// StartRound deals two cards each (player, dealer, player, dealer). A
// natural on either side settles the round immediately.
func (g *Game) StartRound() error {
	if g.Bankrupt() {
		return g.advise(ErrBankrupt, msgBankrupt, CategoryLose)
	}
	if g.state != Betting {
		return ErrWrongState
	}
	if g.bet == 0 {
		return g.advise(ErrNoBet, "Place a bet first.", CategoryNone)
	}

	g.player = make(Hand, 0, 4)
	g.dealer = make(Hand, 0, 4)
	g.outcome = OutcomeNone

	g.logger.Info("Starting round", "bet", g.bet, "balance", g.ledger.Balance())

	g.dealTo(SeatPlayer, false)
	g.dealTo(SeatDealer, false)
	g.dealTo(SeatPlayer, false)
	g.dealTo(SeatDealer, true)

	playerNatural := g.player.IsBlackjack()
	dealerNatural := g.dealer.IsBlackjack()

	switch {
	case playerNatural && dealerNatural:
		g.resolve(OutcomePush)
	case playerNatural:
		g.resolve(OutcomeBlackjack)
	case dealerNatural:
		g.resolve(OutcomeDealerBlackjack)
	default:
		g.setState(Playing)
		g.setMessage(msgHitOrStand, CategoryNone)
	}
	return nil
}

// Hit draws a card for the player. Busting ends the round; reaching 21
// stands automatically.
func (g *Game) Hit() error {
	if g.state != Playing {
		return ErrWrongState
	}

	g.dealTo(SeatPlayer, false)

	switch {
	case g.player.IsBust():
		g.resolve(OutcomeBust)
	case g.player.Value() == BlackjackValue:
		return g.Stand()
	}
	return nil
}

// Stand ends the player's turn. If the dealer already holds 17 or more the
// round resolves at once; otherwise the game waits in DealerTurn for
// AdvanceDealer calls.
func (g *Game) Stand() error {
	if g.state != Playing {
		return ErrWrongState
	}

	g.setState(DealerTurn)
	g.setMessage(msgDealerTurn, CategoryNone)
	g.settleDealer()
	return nil
}

// AdvanceDealer performs one dealer step: draw a card if the dealer is under
// 17, then settle the round once the dealer stands or busts. It returns true
// while the dealer still has steps left.
func (g *Game) AdvanceDealer() bool {
	if g.state != DealerTurn {
		return false
	}
	if g.dealer.Value() < DealerStandValue {
		g.dealTo(SeatDealer, false)
	}
	g.settleDealer()
	return g.state == DealerTurn
}

// PlayDealer runs the dealer's turn to completion without pacing
func (g *Game) PlayDealer() {
	for g.AdvanceDealer() {
	}
}

// ResetGame restores the starting balance, clears stats and reshuffles. It
// is refused while the dealer is drawing.
func (g *Game) ResetGame() error {
	if g.state == DealerTurn {
		return g.advise(ErrDealerTurn, "Wait for the dealer to finish.", CategoryNone)
	}

	prev := g.state
	g.ledger.Reset()
	g.bet = 0
	g.player = nil
	g.dealer = nil
	g.outcome = OutcomeNone
	g.deck.Reset()

	g.state = Betting
	if prev != Betting {
		g.publishStateChange(prev, Betting)
	}
	g.setMessage(msgPlaceBet, CategoryNone)
	g.save()

	g.logger.Info("Game reset", "balance", g.ledger.Balance())
	g.bus.Publish(GameResetEvent{Balance: g.ledger.Balance(), timestamp: time.Now()})
	return nil
}

func (g *Game) settleDealer() {
	if g.state != DealerTurn || g.dealer.Value() < DealerStandValue {
		return
	}

	playerValue := g.player.Value()
	dealerValue := g.dealer.Value()

	switch {
	case g.dealer.IsBust():
		g.resolve(OutcomeDealerBust)
	case playerValue > dealerValue:
		g.resolve(OutcomeWin)
	case dealerValue > playerValue:
		g.resolve(OutcomeLose)
	default:
		g.resolve(OutcomePush)
	}
}

// resolve applies the payout, records the game and either reopens betting
// or stops at Resolved when the player is out of money.
func (g *Game) resolve(outcome Outcome) {
	bet := g.bet
	credit, category := Payout(outcome, bet)

	g.ledger.ApplyDelta(credit)
	g.ledger.RecordGame(category == CategoryWin)
	g.bet = 0
	g.outcome = outcome

	g.setState(Resolved)
	g.setMessage(outcome.Message(), category)

	bankrupt := g.ledger.Balance() == 0
	g.logger.Info("Round resolved",
		"outcome", outcome,
		"player", g.player.String(),
		"playerValue", g.player.Value(),
		"dealer", g.dealer.String(),
		"dealerValue", g.dealer.Value(),
		"bet", bet,
		"credit", credit,
		"balance", g.ledger.Balance())

	g.save()
	g.bus.Publish(RoundEndEvent{
		Outcome:     outcome,
		Category:    category,
		Bet:         bet,
		Credit:      credit,
		Balance:     g.ledger.Balance(),
		PlayerHand:  g.player.Clone(),
		DealerHand:  g.dealer.Clone(),
		PlayerValue: g.player.Value(),
		DealerValue: g.dealer.Value(),
		Bankrupt:    bankrupt,
		timestamp:   time.Now(),
	})

	if bankrupt {
		g.logger.Info("Player is out of money")
		g.setMessage(msgBankrupt, CategoryLose)
		return
	}
	g.setState(Betting)
}

func (g *Game) dealTo(seat Seat, hidden bool) {
	card := g.deck.Draw()

	var value int
	if seat == SeatPlayer {
		g.player = append(g.player, card)
		value = g.player.Value()
	} else {
		g.dealer = append(g.dealer, card)
		value = g.dealer.Value()
	}

	g.logger.Debug("Card dealt", "seat", seat, "card", card, "value", value)
	g.bus.Publish(CardDealtEvent{
		Seat:      seat,
		Card:      card,
		Hidden:    hidden,
		HandValue: value,
		timestamp: time.Now(),
	})
}

func (g *Game) save() {
	if g.store == nil {
		return
	}
	if err := g.store.Save(g.ledger.Record()); err != nil {
		g.logger.Warn("Failed to save game", "error", err)
	}
}

func (g *Game) setState(next State) {
	prev := g.state
	g.state = next
	g.publishStateChange(prev, next)
}

func (g *Game) publishStateChange(from, to State) {
	g.logger.Debug("State change", "from", from, "to", to)
	g.bus.Publish(StateChangeEvent{From: from, To: to, timestamp: time.Now()})
}

func (g *Game) setMessage(msg string, category Category) {
	g.message = msg
	g.category = category
}

// advise records a refused action and returns err for the caller
func (g *Game) advise(err error, msg string, category Category) error {
	g.setMessage(msg, category)
	g.logger.Debug("Action refused", "error", err, "state", g.state)
	g.bus.Publish(AdvisoryEvent{
		Message:   msg,
		Category:  category,
		Err:       err,
		timestamp: time.Now(),
	})
	return err
}
