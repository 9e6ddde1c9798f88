package game

import "github.com/lox/blackjack/internal/deck"

// Snapshot is a read-only view of the game for renderers
type Snapshot struct {
	Balance     int `json:"balance"`
	Bet         int `json:"bet"`
	Wins        int `json:"wins"`
	GamesPlayed int `json:"gamesPlayed"`

	PlayerHand  Hand `json:"playerHand"`
	PlayerValue int  `json:"playerValue"`

	// DealerHand always holds every card. While DealerHoleHidden is set the
	// second card must not be shown and DealerValue covers the up-card only.
	DealerHand       Hand `json:"dealerHand"`
	DealerValue      int  `json:"dealerValue"`
	DealerHoleHidden bool `json:"dealerHoleHidden"`

	State           State    `json:"state"`
	Outcome         Outcome  `json:"outcome,omitempty"`
	Message         string   `json:"message"`
	MessageCategory Category `json:"messageCategory,omitempty"`
	Bankrupt        bool     `json:"bankrupt"`
}

// Snapshot returns the current observable state
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Balance:         g.ledger.Balance(),
		Bet:             g.bet,
		Wins:            g.ledger.Wins(),
		GamesPlayed:     g.ledger.GamesPlayed(),
		PlayerHand:      g.player.Clone(),
		PlayerValue:     g.player.Value(),
		DealerHand:      g.dealer.Clone(),
		DealerValue:     g.dealer.Value(),
		State:           g.state,
		Outcome:         g.outcome,
		Message:         g.message,
		MessageCategory: g.category,
		Bankrupt:        g.Bankrupt(),
	}
	if g.state == Playing && len(g.dealer) > 1 {
		s.DealerHoleHidden = true
		s.DealerValue = g.dealer[0].Value()
	}
	return s
}

// VisibleDealerCards returns the dealer cards a player may see
func (s Snapshot) VisibleDealerCards() []deck.Card {
	if !s.DealerHoleHidden {
		return s.DealerHand
	}
	visible := make([]deck.Card, 0, len(s.DealerHand)-1)
	for i, c := range s.DealerHand {
		if i == 1 {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}

// CanBet reports whether chips may be added to the bet
func (s Snapshot) CanBet() bool {
	return s.State == Betting && s.Balance > 0
}

// CanDeal reports whether StartRound would deal
func (s Snapshot) CanDeal() bool {
	return s.State == Betting && s.Bet > 0
}

// CanAct reports whether Hit and Stand are accepted
func (s Snapshot) CanAct() bool {
	return s.State == Playing
}

// CanReset reports whether ResetGame would be accepted
func (s Snapshot) CanReset() bool {
	return s.State != DealerTurn
}
