package holdem

import (
	"encoding/json"
	"fmt"
)

// State represents where the table is in its lifecycle
type State int

// constants for State
const (
	StateWaitingForPlayers State = iota
	StateCountdown
	StatePreFlop
	StateFlop
	StateTurn
	StateRiver
	StateShowdown
	StateSettlement
	StateGameOver
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case StateWaitingForPlayers:
		return "waiting-for-players"
	case StateCountdown:
		return "countdown"
	case StatePreFlop:
		return "pre-flop"
	case StateFlop:
		return "flop"
	case StateTurn:
		return "turn"
	case StateRiver:
		return "river"
	case StateShowdown:
		return "showdown"
	case StateSettlement:
		return "settlement"
	case StateGameOver:
		return "game-over"
	default:
		panic(fmt.Sprintf("unknown state: %d", s))
	}
}

// MarshalJSON encodes JSON
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(s),
		Name: s.String(),
	})
}

// IsStreet returns true if the state is a betting street
func (s State) IsStreet() bool {
	return s == StatePreFlop || s == StateFlop || s == StateTurn || s == StateRiver
}

// inHand returns true if a hand is being played
func (s State) inHand() bool {
	return s.IsStreet() || s == StateShowdown || s == StateSettlement
}
