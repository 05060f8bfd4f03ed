package holdem

import (
	"github.com/google/uuid"

	"holdem-server/pkg/deck"
)

// Player is a seated player. It is owned exclusively by the table and
// only mutated behind the table's lock.
type Player struct {
	PlayerID  string
	Name      string
	SeatIndex int

	chips            int
	currentBet       int
	totalBetThisHand int
	holeCards        deck.Hand

	hasFolded   bool
	isAllIn     bool
	isConnected bool

	// acted is true once the player has acted since the last full raise
	acted bool

	// reveal is true once the player chose to show at showdown
	reveal bool

	// pendingRemoval defers removal of a mid-hand leaver to the hand boundary
	pendingRemoval bool
}

// playerState is the wire representation of a player
type playerState struct {
	PlayerID   string    `json:"playerId"`
	Name       string    `json:"name"`
	SeatIndex  int       `json:"seatIndex"`
	Chips      int       `json:"chips"`
	CurrentBet int       `json:"currentBet"`
	Folded     bool      `json:"folded"`
	AllIn      bool      `json:"allIn"`
	Connected  bool      `json:"connected"`
	Cards      deck.Hand `json:"cards,omitempty"`
}

func newPlayer(name string, seatIndex, chips int) *Player {
	return &Player{
		PlayerID:    uuid.NewString(),
		Name:        name,
		SeatIndex:   seatIndex,
		chips:       chips,
		isConnected: true,
	}
}

// Chips returns the player's stack
func (p *Player) Chips() int {
	return p.chips
}

// HoleCards returns the player's hole cards
func (p *Player) HoleCards() deck.Hand {
	return p.holeCards
}

// wagerTo raises the player's street bet to the given total and returns the
// chips moved. Reaching a zero stack marks the player all-in.
func (p *Player) wagerTo(amount int) int {
	diff := amount - p.currentBet
	if diff > p.chips {
		panic("player cannot wager more than their stack")
	}

	p.chips -= diff
	p.currentBet = amount
	p.totalBetThisHand += diff

	if p.chips == 0 {
		p.isAllIn = true
	}

	return diff
}

// maxWager is the highest street bet the player can reach
func (p *Player) maxWager() int {
	return p.currentBet + p.chips
}

// canAct returns true if the player can still make betting decisions
func (p *Player) canAct() bool {
	return !p.hasFolded && !p.isAllIn
}

// newHandReset clears all per-hand state
func (p *Player) newHandReset() {
	p.currentBet = 0
	p.totalBetThisHand = 0
	p.holeCards = make(deck.Hand, 0, 2)
	p.hasFolded = false
	p.isAllIn = false
	p.acted = false
	p.reveal = false
}

func (p *Player) state(withCards bool) *playerState {
	var cards deck.Hand
	if withCards {
		cards = p.holeCards
	}

	return &playerState{
		PlayerID:   p.PlayerID,
		Name:       p.Name,
		SeatIndex:  p.SeatIndex,
		Chips:      p.chips,
		CurrentBet: p.currentBet,
		Folded:     p.hasFolded,
		AllIn:      p.isAllIn,
		Connected:  p.isConnected,
		Cards:      cards,
	}
}

// potmanager.Contributor interface

// ID returns the player's unique identifier
func (p *Player) ID() string {
	return p.PlayerID
}

// CurrentBet is the street wager not yet collected into a pot
func (p *Player) CurrentBet() int {
	return p.currentBet
}

// TakeBet moves part of the street wager into a pot
func (p *Player) TakeBet(amount int) {
	if amount > p.currentBet {
		panic("cannot collect more than the player wagered")
	}

	p.currentBet -= amount
}

// Folded returns true if the player folded this hand
func (p *Player) Folded() bool {
	return p.hasFolded
}

// AllIn returns true if the player has no chips behind
func (p *Player) AllIn() bool {
	return p.isAllIn
}

// AddChips credits winnings to the player's stack
func (p *Player) AddChips(amount int) {
	p.chips += amount
}
