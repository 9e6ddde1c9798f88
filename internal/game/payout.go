package game

// Outcome is how a round ended
type Outcome string

const (
	OutcomeNone            Outcome = ""
	OutcomeBlackjack       Outcome = "blackjack"
	OutcomeWin             Outcome = "win"
	OutcomeDealerBust      Outcome = "dealer-bust"
	OutcomePush            Outcome = "push"
	OutcomeBust            Outcome = "bust"
	OutcomeLose            Outcome = "lose"
	OutcomeDealerBlackjack Outcome = "dealer-blackjack"
)

// Outcomes lists every terminal outcome
var Outcomes = []Outcome{
	OutcomeBlackjack,
	OutcomeWin,
	OutcomeDealerBust,
	OutcomePush,
	OutcomeBust,
	OutcomeLose,
	OutcomeDealerBlackjack,
}

// Category groups outcomes for display
type Category string

const (
	CategoryNone Category = ""
	CategoryWin  Category = "win"
	CategoryPush Category = "push"
	CategoryLose Category = "lose"
)

// String returns the outcome label
func (o Outcome) String() string {
	return string(o)
}

// Message returns the player-facing text for the outcome
func (o Outcome) Message() string {
	switch o {
	case OutcomeBlackjack:
		return "Blackjack! You win!"
	case OutcomeWin:
		return "You win!"
	case OutcomeDealerBust:
		return "Dealer busts! You win!"
	case OutcomePush:
		return "Push! It's a tie."
	case OutcomeBust:
		return "Bust! You lose."
	case OutcomeLose:
		return "You lose."
	case OutcomeDealerBlackjack:
		return "Dealer has blackjack! You lose."
	default:
		return ""
	}
}

// IsWin reports whether the outcome counts towards the win total
func (o Outcome) IsWin() bool {
	_, category := Payout(o, 0)
	return category == CategoryWin
}

// Payout returns the amount credited back to the balance for a resolved bet
// and the outcome's display category. The bet has already been deducted when
// it was placed, so a push credits the bet itself and a loss credits nothing.
// A blackjack pays 3:2 rounded down to whole units.
func Payout(outcome Outcome, bet int) (credit int, category Category) {
	switch outcome {
	case OutcomeBlackjack:
		return bet * 5 / 2, CategoryWin
	case OutcomeWin, OutcomeDealerBust:
		return bet * 2, CategoryWin
	case OutcomePush:
		return bet, CategoryPush
	case OutcomeBust, OutcomeLose, OutcomeDealerBlackjack:
		return 0, CategoryLose
	default:
		return 0, CategoryNone
	}
}
