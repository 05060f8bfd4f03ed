package evaluator

import (
	"encoding/json"
	"fmt"
)

// Tier is a poker hand category, i.e., royal flush
// Higher tiers beat lower tiers
type Tier int

// Constants for tier
const (
	HighCard Tier = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a tier
func (t Tier) String() string {
	switch t {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	default:
		panic(fmt.Sprintf("unknown tier: %d", t))
	}
}

// MarshalJSON encodes JSON
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(t),
		Name: t.String(),
	})
}
