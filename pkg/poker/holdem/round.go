package holdem

import (
	"errors"
	"fmt"

	"holdem-server/pkg/poker/action"
)

// bettingRound tracks the wager state for a single street
type bettingRound struct {
	currentBet int
	minRaise   int
}

// newBettingRound returns the wager state for a fresh street.
// The minimum raise starts at the big blind.
func newBettingRound(bigBlind int) *bettingRound {
	return &bettingRound{
		minRaise: bigBlind,
	}
}

// AvailableAction is an action the current player may take, with wager
// bounds where they apply
type AvailableAction struct {
	Action action.Action `json:"action"`
	Amount int           `json:"amount,omitempty"`
	Min    int           `json:"min,omitempty"`
	Max    int           `json:"max,omitempty"`
}

// availableActions returns the actions the player may legally take.
// This method has no side effects.
func (r *bettingRound) availableActions(p *Player) []AvailableAction {
	actions := []AvailableAction{{Action: action.Fold}}

	callAmount := r.currentBet - p.currentBet
	if callAmount <= 0 {
		actions = append(actions, AvailableAction{Action: action.Check})
	} else {
		amount := callAmount
		if amount > p.chips {
			amount = p.chips
		}

		actions = append(actions, AvailableAction{Action: action.Call, Amount: amount})
	}

	if p.chips > 0 && r.mayRaise(p) {
		maxWager := p.maxWager()
		if r.currentBet == 0 {
			minBet := r.minRaise
			if minBet > maxWager {
				minBet = maxWager
			}

			actions = append(actions, AvailableAction{Action: action.Bet, Min: minBet, Max: maxWager})
		} else if maxWager > r.currentBet {
			minRaise := r.currentBet + r.minRaise
			if minRaise > maxWager {
				minRaise = maxWager
			}

			actions = append(actions, AvailableAction{Action: action.Raise, Min: minRaise, Max: maxWager})
		}

		actions = append(actions, AvailableAction{Action: action.AllIn, Amount: maxWager})
	}

	return actions
}

// mayRaise returns false for a player who already acted since the last full
// raise. Such a player is only facing an incomplete all-in raise and may
// only call or fold.
func (r *bettingRound) mayRaise(p *Player) bool {
	return !p.acted
}

// handleAction validates and applies a single wager decision. For Bet and
// Raise, amount is the total street bet the player moves to. The returned
// bool is true if the action was a full bet or raise that reopens the
// street for players who already acted.
func (r *bettingRound) handleAction(p *Player, act action.Action, amount int) (bool, error) {
	switch act {
	case action.Fold:
		p.hasFolded = true
		return false, nil

	case action.Check:
		if r.currentBet > p.currentBet {
			return false, fmt.Errorf("cannot check a bet of %d", r.currentBet)
		}

		return false, nil

	case action.Call:
		if r.currentBet-p.currentBet <= 0 {
			return false, errors.New("there is no bet to call")
		}

		target := r.currentBet
		if max := p.maxWager(); max < target {
			target = max
		}

		p.wagerTo(target)
		return false, nil

	case action.Bet:
		if r.currentBet > 0 {
			return false, errors.New("cannot bet when a bet has already been made")
		}

		return r.applyRaise(p, amount)

	case action.Raise:
		if r.currentBet == 0 {
			return false, errors.New("cannot raise when no bet has been made")
		}

		return r.applyRaise(p, amount)

	case action.AllIn:
		total := p.maxWager()
		if total <= r.currentBet {
			// a short call for the rest of the stack
			p.wagerTo(total)
			return false, nil
		}

		return r.applyRaise(p, total)
	}

	panic(fmt.Sprintf("unsupported action: %s", act))
}

// applyRaise moves the table bet to amount. An all-in below the minimum
// raise is allowed but does not reopen the street.
func (r *bettingRound) applyRaise(p *Player, amount int) (bool, error) {
	if !r.mayRaise(p) {
		return false, errors.New("an incomplete raise does not reopen the action")
	}

	if amount <= r.currentBet {
		return false, fmt.Errorf("amount must exceed the current bet of %d", r.currentBet)
	}

	if amount > p.maxWager() {
		return false, errors.New("amount exceeds the player's stack")
	}

	raiseSize := amount - r.currentBet
	isAllIn := amount == p.maxWager()
	if raiseSize < r.minRaise && !isAllIn {
		return false, fmt.Errorf("raise must be at least %d more than the current bet", r.minRaise)
	}

	p.wagerTo(amount)
	r.currentBet = amount

	if raiseSize >= r.minRaise {
		r.minRaise = raiseSize
		return true, nil
	}

	return false, nil
}
