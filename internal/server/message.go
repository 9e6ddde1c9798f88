package server

import (
	"encoding/json"
	"fmt"

	"github.com/lox/blackjack/internal/game"
)

// MessageType identifies a message pushed to websocket clients
type MessageType string

const (
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeError    MessageType = "error"
)

// Message is the envelope for every server → client websocket frame
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewMessage encodes data into a message of the given type
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: dataBytes}, nil
}

// ActionType names a player action
type ActionType string

const (
	ActionBet   ActionType = "bet"
	ActionDeal  ActionType = "deal"
	ActionHit   ActionType = "hit"
	ActionStand ActionType = "stand"
	ActionReset ActionType = "reset"
)

// ActionRequest is sent by clients over POST /actions or the websocket
type ActionRequest struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// Validate rejects unknown actions and bets without an amount
func (a ActionRequest) Validate() error {
	switch a.Type {
	case ActionBet:
		if a.Amount <= 0 {
			return fmt.Errorf("bet amount must be positive, got %d", a.Amount)
		}
	case ActionDeal, ActionHit, ActionStand, ActionReset:
	default:
		return fmt.Errorf("unknown action %q", a.Type)
	}
	return nil
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Action  ActionType `json:"action,omitempty"`
	Message string     `json:"message"`
}

// HiddenCard is shown in place of the dealer's hole card
const HiddenCard = "??"

// TableView is the public form of a game snapshot. The dealer's hole card
// is masked while the player is still acting so clients cannot peek.
type TableView struct {
	Balance     int `json:"balance"`
	Bet         int `json:"bet"`
	Wins        int `json:"wins"`
	GamesPlayed int `json:"gamesPlayed"`

	PlayerHand  []string `json:"playerHand"`
	PlayerValue int      `json:"playerValue"`
	DealerHand  []string `json:"dealerHand"`
	DealerValue int      `json:"dealerValue"`

	State           game.State    `json:"state"`
	Outcome         game.Outcome  `json:"outcome,omitempty"`
	Message         string        `json:"message"`
	MessageCategory game.Category `json:"messageCategory,omitempty"`
	Bankrupt        bool          `json:"bankrupt"`

	CanBet   bool `json:"canBet"`
	CanDeal  bool `json:"canDeal"`
	CanAct   bool `json:"canAct"`
	CanReset bool `json:"canReset"`
}

// NewTableView builds the public view of s
func NewTableView(s game.Snapshot) TableView {
	v := TableView{
		Balance:         s.Balance,
		Bet:             s.Bet,
		Wins:            s.Wins,
		GamesPlayed:     s.GamesPlayed,
		PlayerHand:      make([]string, 0, len(s.PlayerHand)),
		PlayerValue:     s.PlayerValue,
		DealerHand:      make([]string, 0, len(s.DealerHand)),
		DealerValue:     s.DealerValue,
		State:           s.State,
		Outcome:         s.Outcome,
		Message:         s.Message,
		MessageCategory: s.MessageCategory,
		Bankrupt:        s.Bankrupt,
		CanBet:          s.CanBet(),
		CanDeal:         s.CanDeal(),
		CanAct:          s.CanAct(),
		CanReset:        s.CanReset(),
	}
	for _, c := range s.PlayerHand {
		v.PlayerHand = append(v.PlayerHand, c.String())
	}
	for i, c := range s.DealerHand {
		if s.DealerHoleHidden && i == 1 {
			v.DealerHand = append(v.DealerHand, HiddenCard)
			continue
		}
		v.DealerHand = append(v.DealerHand, c.String())
	}
	return v
}
