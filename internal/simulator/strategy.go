package simulator

import (
	"fmt"
	"sort"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Action is a player decision during the Playing state
type Action int

const (
	Stand Action = iota
	Hit
)

func (a Action) String() string {
	if a == Hit {
		return "hit"
	}
	return "stand"
}

// Strategy decides whether the player hits or stands
type Strategy interface {
	Name() string
	Decide(player game.Hand, upcard deck.Card) Action
}

// StrategyFunc adapts a function to the Strategy interface
type StrategyFunc struct {
	name   string
	decide func(player game.Hand, upcard deck.Card) Action
}

func (s StrategyFunc) Name() string { return s.name }

func (s StrategyFunc) Decide(player game.Hand, upcard deck.Card) Action {
	return s.decide(player, upcard)
}

var strategies = map[string]Strategy{
	"dealer":   StrategyFunc{name: "dealer", decide: mimicDealer},
	"basic":    StrategyFunc{name: "basic", decide: basicStrategy},
	"cautious": StrategyFunc{name: "cautious", decide: cautious},
}

// StrategyByName looks up one of the built-in strategies
func StrategyByName(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, StrategyNames())
	}
	return s, nil
}

// StrategyNames lists the built-in strategies in sorted order
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mimicDealer plays the house rule: hit below 17
func mimicDealer(player game.Hand, _ deck.Card) Action {
	if player.Value() < game.DealerStandValue {
		return Hit
	}
	return Stand
}

// cautious never risks a bust
func cautious(player game.Hand, _ deck.Card) Action {
	if player.Value() <= 11 {
		return Hit
	}
	return Stand
}

// basicStrategy is hit/stand basic strategy without doubles or splits
func basicStrategy(player game.Hand, upcard deck.Card) Action {
	value := player.Value()
	up := upcard.Value()

	if player.IsSoft() {
		switch {
		case value >= 19:
			return Stand
		case value == 18:
			if up >= 9 {
				return Hit
			}
			return Stand
		default:
			return Hit
		}
	}

	switch {
	case value >= 17:
		return Stand
	case value >= 13:
		if up >= 7 {
			return Hit
		}
		return Stand
	case value == 12:
		if up >= 4 && up <= 6 {
			return Stand
		}
		return Hit
	default:
		return Hit
	}
}
