package potmanager

import (
	"errors"
)

// ErrNoEligibleWinner happens when no ranked player is eligible for a pot.
// Every pot is built from player contributions, so this is always a defect.
var ErrNoEligibleWinner = errors.New("potmanager: no eligible winner for pot")

// Contributor is the pot manager's view of a player in the hand
type Contributor interface {
	// ID uniquely identifies the player
	ID() string

	// CurrentBet is the amount wagered this street not yet collected
	CurrentBet() int

	// TakeBet moves amount of the current bet into a pot
	TakeBet(amount int)

	// Folded returns true if the player is out of the hand
	Folded() bool

	// AllIn returns true if the player has no chips behind
	AllIn() bool

	// AddChips credits winnings to the player's stack
	AddChips(amount int)
}

// Manager collects bets into a main pot and any side pots and pays them out
type Manager struct {
	pots []*Pot
}

// New returns an empty pot manager for a fresh hand
func New() *Manager {
	return &Manager{
		pots: make([]*Pot, 0, 1),
	}
}

// CollectBets sweeps every player's current bet into the pots. Bets are
// consumed in layers of the smallest outstanding bet so that an all-in
// player caps the pot they can win; any excess opens a side pot restricted
// to the remaining players. Folded players contribute chips but never
// eligibility.
func (m *Manager) CollectBets(players []Contributor) {
	m.pruneFolded(players)

	for {
		layer := smallestBet(players)
		if layer == 0 {
			break
		}

		pot := m.openPot()

		allInConsumed := false
		for _, p := range players {
			bet := p.CurrentBet()
			if bet == 0 {
				continue
			}

			take := layer
			if bet < take {
				take = bet
			}

			p.TakeBet(take)
			pot.Amount += take

			if !p.Folded() {
				pot.addEligible(p.ID())
			}

			if p.AllIn() && p.CurrentBet() == 0 {
				allInConsumed = true
			}
		}

		// an exhausted all-in bet caps this pot against the deeper stacks
		if allInConsumed && smallestBet(players) > 0 {
			pot.sealed = true
		}
	}

	// an all-in player in the open pot caps it for later streets too
	if pot := m.currentPot(); pot != nil && !pot.sealed {
		for _, p := range players {
			if p.AllIn() && pot.isEligible(p.ID()) {
				pot.sealed = true
				break
			}
		}
	}
}

// Distribute pays every pot to its best eligible players. rankedGroups
// orders player IDs from best hand to worst, with ties grouped together.
// Pots split evenly among tied winners; an odd remainder goes to the first
// winner clockwise from the small blind. players must be in clockwise seat
// order and include the small blind.
func (m *Manager) Distribute(rankedGroups [][]string, players []Contributor, smallBlindID string) ([]*PotResult, error) {
	order := clockwiseFrom(players, smallBlindID)

	results := make([]*PotResult, 0, len(m.pots))
	for _, pot := range m.pots {
		if pot.Amount == 0 {
			continue
		}

		winners := bestEligible(pot, rankedGroups, order)
		if len(winners) == 0 {
			return nil, ErrNoEligibleWinner
		}

		result := &PotResult{
			Name:    pot.Name,
			Amount:  pot.Amount,
			Winners: make([]Winner, len(winners)),
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, w := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}

			w.AddChips(amount)
			result.Winners[i] = Winner{
				PlayerID: w.ID(),
				Amount:   amount,
			}
		}

		pot.Amount = 0
		results = append(results, result)
	}

	return results, nil
}

// DistributeToSingleWinner pays everything to one player, i.e., after all
// other players fold. Returns the amount won.
func (m *Manager) DistributeToSingleWinner(winner Contributor) int {
	total := m.Total()
	winner.AddChips(total)

	for _, pot := range m.pots {
		pot.Amount = 0
	}

	return total
}

// Total returns the sum of chips across all pots
func (m *Manager) Total() int {
	total := 0
	for _, pot := range m.pots {
		total += pot.Amount
	}

	return total
}

// Pots returns a snapshot of the pots for notifications
func (m *Manager) Pots() []*Pot {
	pots := make([]*Pot, len(m.pots))
	for i, pot := range m.pots {
		pots[i] = pot.Clone()
	}

	return pots
}

func (m *Manager) currentPot() *Pot {
	if len(m.pots) == 0 {
		return nil
	}

	return m.pots[len(m.pots)-1]
}

func (m *Manager) openPot() *Pot {
	if pot := m.currentPot(); pot != nil && !pot.sealed {
		return pot
	}

	pot := newPot(len(m.pots))
	m.pots = append(m.pots, pot)
	return pot
}

func (m *Manager) pruneFolded(players []Contributor) {
	for _, p := range players {
		if p.Folded() {
			for _, pot := range m.pots {
				pot.removeEligible(p.ID())
			}
		}
	}
}

func smallestBet(players []Contributor) int {
	smallest := 0
	for _, p := range players {
		bet := p.CurrentBet()
		if bet > 0 && (smallest == 0 || bet < smallest) {
			smallest = bet
		}
	}

	return smallest
}

// clockwiseFrom rotates the seat-ordered players to start at the given ID
func clockwiseFrom(players []Contributor, startID string) []Contributor {
	start := 0
	for i, p := range players {
		if p.ID() == startID {
			start = i
			break
		}
	}

	ordered := make([]Contributor, 0, len(players))
	for i := 0; i < len(players); i++ {
		ordered = append(ordered, players[(start+i)%len(players)])
	}

	return ordered
}

// bestEligible returns the eligible winners from the best-ranked group that
// has any, ordered clockwise from the small blind
func bestEligible(pot *Pot, rankedGroups [][]string, order []Contributor) []Contributor {
	for _, group := range rankedGroups {
		winners := make([]Contributor, 0, len(group))
		for _, p := range order {
			if !pot.isEligible(p.ID()) {
				continue
			}

			for _, id := range group {
				if id == p.ID() {
					winners = append(winners, p)
					break
				}
			}
		}

		if len(winners) > 0 {
			return winners
		}
	}

	return nil
}
