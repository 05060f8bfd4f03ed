package holdem

import (
	"errors"
	"time"
)

// Options configures how the table is run
type Options struct {
	StartingChips int
	SmallBlind    int
	BigBlind      int
	MinPlayers    int
	MaxPlayers    int

	ActionTimeout    time.Duration
	Countdown        time.Duration
	InterStreetDelay time.Duration
	EndOfHandDelay   time.Duration

	// DeckSeed forces a deterministic shuffle when non-zero
	DeckSeed int64
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		StartingChips:    1000,
		SmallBlind:       2,
		BigBlind:         4,
		MinPlayers:       4,
		MaxPlayers:       10,
		ActionTimeout:    time.Second * 20,
		Countdown:        time.Second * 10,
		InterStreetDelay: time.Second,
		EndOfHandDelay:   time.Second * 5,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be > 0")
	}

	if opts.SmallBlind >= opts.BigBlind {
		return errors.New("small blind must be less than the big blind")
	}

	if opts.StartingChips < opts.BigBlind {
		return errors.New("starting chips must cover the big blind")
	}

	if opts.MinPlayers < 2 {
		return errors.New("there must be at least two players")
	}

	if opts.MaxPlayers < opts.MinPlayers {
		return errors.New("max players must be >= min players")
	}

	if opts.MaxPlayers > 10 {
		return errors.New("a single deck cannot deal more than ten players")
	}

	return nil
}
