package game

import "fmt"

// State is the phase of the current round
type State int

const (
	Betting State = iota
	Playing
	DealerTurn
	Resolved
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case Playing:
		return "playing"
	case DealerTurn:
		return "dealer-turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "betting":
		*s = Betting
	case "playing":
		*s = Playing
	case "dealer-turn":
		*s = DealerTurn
	case "resolved":
		*s = Resolved
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}
