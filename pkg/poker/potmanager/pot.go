package potmanager

import "fmt"

// Pot is a pot of chips with a restricted set of players who may win it
type Pot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
	Name     string   `json:"name"`

	// sealed pots accept no further contributions; a new side pot is opened instead
	sealed bool
}

func newPot(index int) *Pot {
	name := "Main pot"
	if index > 0 {
		name = fmt.Sprintf("Side pot %d", index)
	}

	return &Pot{
		Eligible: make([]string, 0),
		Name:     name,
	}
}

func (p *Pot) isEligible(id string) bool {
	for _, e := range p.Eligible {
		if e == id {
			return true
		}
	}

	return false
}

func (p *Pot) addEligible(id string) {
	if !p.isEligible(id) {
		p.Eligible = append(p.Eligible, id)
	}
}

func (p *Pot) removeEligible(id string) {
	for i, e := range p.Eligible {
		if e == id {
			p.Eligible = append(p.Eligible[:i], p.Eligible[i+1:]...)
			return
		}
	}
}

// Clone returns a copy safe to hand to the notification layer
func (p *Pot) Clone() *Pot {
	eligible := make([]string, len(p.Eligible))
	copy(eligible, p.Eligible)

	return &Pot{
		Amount:   p.Amount,
		Eligible: eligible,
		Name:     p.Name,
	}
}

// PotResult describes who won a pot and how much
type PotResult struct {
	Name    string   `json:"name"`
	Amount  int      `json:"amount"`
	Winners []Winner `json:"winners"`
}

// Winner is a single player's share of a pot
type Winner struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}
