package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// BlackjackValue is the best possible hand value
	BlackjackValue = 21

	// DealerStandValue is the value at which the dealer stops drawing
	DealerStandValue = 17

	softAceAdjustment = 10
)

// Hand is an ordered set of cards held by the player or the dealer
type Hand []deck.Card

// HandValue returns the best blackjack value of cards. Aces count 11 and are
// reduced to 1 one at a time while the total is over 21. The result may
// still exceed 21.
func HandValue(cards []deck.Card) int {
	total, _ := handTotals(cards)
	return total
}

// handTotals returns the best total and the number of aces still counted as 11
func handTotals(cards []deck.Card) (total, softAces int) {
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			softAces++
		}
	}
	for total > BlackjackValue && softAces > 0 {
		total -= softAceAdjustment
		softAces--
	}
	return total, softAces
}

// Value returns the hand's best blackjack value
func (h Hand) Value() int {
	return HandValue(h)
}

// IsSoft returns true if an ace is still counted as 11
func (h Hand) IsSoft() bool {
	_, soft := handTotals(h)
	return soft > 0
}

// IsBust returns true if the hand is over 21
func (h Hand) IsBust() bool {
	return h.Value() > BlackjackValue
}

// IsBlackjack returns true for a two-card 21. Whether it pays as a natural
// depends on when it was dealt; see Game.StartRound.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == BlackjackValue
}

// Clone returns a copy that shares no storage with h
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// String returns the cards separated by spaces
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
