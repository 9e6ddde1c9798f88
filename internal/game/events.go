package game

import (
	"reflect"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeBetPlaced   EventType = "bet_placed"
	EventTypeCardDealt   EventType = "card_dealt"
	EventTypeStateChange EventType = "state_change"
	EventTypeRoundEnd    EventType = "round_end"
	EventTypeGameReset   EventType = "game_reset"
	EventTypeAdvisory    EventType = "advisory"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything observable that happens to a Game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Seat identifies who a card was dealt to
type Seat string

const (
	SeatPlayer Seat = "player"
	SeatDealer Seat = "dealer"
)

// BetPlacedEvent is published when chips are added to the bet
type BetPlacedEvent struct {
	Amount    int
	TotalBet  int
	Balance   int
	timestamp time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// CardDealtEvent is published for every card drawn into a hand
type CardDealtEvent struct {
	Seat      Seat
	Card      deck.Card
	Hidden    bool // dealer hole card during the deal
	HandValue int
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// StateChangeEvent is published on every state transition
type StateChangeEvent struct {
	From      State
	To        State
	timestamp time.Time
}

func (e StateChangeEvent) EventType() EventType { return EventTypeStateChange }
func (e StateChangeEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published once per round after the payout is applied
type RoundEndEvent struct {
	Outcome     Outcome
	Category    Category
	Bet         int
	Credit      int
	Balance     int
	PlayerHand  Hand
	DealerHand  Hand
	PlayerValue int
	DealerValue int
	Bankrupt    bool
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// GameResetEvent is published after a full reset
type GameResetEvent struct {
	Balance   int
	timestamp time.Time
}

func (e GameResetEvent) EventType() EventType { return EventTypeGameReset }
func (e GameResetEvent) Timestamp() time.Time { return e.timestamp }

// AdvisoryEvent is published when an action was refused with a message
type AdvisoryEvent struct {
	Message   string
	Category  Category
	Err       error
	timestamp time.Time
}

func (e AdvisoryEvent) EventType() EventType { return EventTypeAdvisory }
func (e AdvisoryEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber. Function
// subscribers cannot be unsubscribed.
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on
// the publishing goroutine, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if !reflect.TypeOf(subscriber).Comparable() {
		return
	}
	for i, sub := range bus.subscribers {
		if reflect.TypeOf(sub) == reflect.TypeOf(subscriber) && sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
