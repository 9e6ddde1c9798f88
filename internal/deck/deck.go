package deck

import (
	"fmt"
	"math/rand/v2"
)

// Size is the number of cards in a fresh deck
const Size = 52

// Deck is a single 52-card deck. Cards are drawn from the end of the
// sequence; an exhausted deck is replaced by a freshly shuffled one.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a full, shuffled deck using the given random source
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.Reset()
	return d
}

// Stacked returns a deck that deals the given cards in order. Once they run
// out the deck reshuffles into a full 52 cards like any other deck.
func Stacked(rng *rand.Rand, cards ...Card) (*Deck, error) {
	seen := make(map[Card]bool, len(cards))
	stack := make([]Card, len(cards))
	for i, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid card at position %d", i)
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate card %s", c)
		}
		seen[c] = true
		// Draw pops from the end so the first card goes last
		stack[len(cards)-1-i] = c
	}
	return &Deck{cards: stack, rng: rng}, nil
}

// MustStacked is like Stacked but panics on error. Intended for tests.
func MustStacked(rng *rand.Rand, cards ...Card) *Deck {
	d, err := Stacked(rng, cards...)
	if err != nil {
		panic(err)
	}
	return d
}

// Reset replaces the contents with one card per rank and suit, then shuffles
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.Shuffle()
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates)
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.intN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card, resetting the deck first if it is
// empty. It never fails.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.Reset()
		if len(d.cards) == 0 {
			panic("deck: empty after reset")
		}
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// Remaining returns the number of cards left before the next reshuffle
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, next to be drawn last
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) intN(n int) int {
	if d.rng == nil {
		return rand.IntN(n)
	}
	return d.rng.IntN(n)
}
