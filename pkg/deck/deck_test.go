package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.Equal(52, d.CardsLeft())

	seen := make(map[string]bool)
	for _, card := range d.Cards {
		seen[CardToString(card)] = true
	}

	// 52 unique cards
	a.Equal(52, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d := New()
	unshuffled := d.HashCode()

	d.Shuffle(0)
	a.NotEqual(unshuffled, d.HashCode())

	d2 := New()
	d2.Shuffle(42)

	d3 := New()
	d3.Shuffle(42)

	// same seed, same order
	a.Equal(d2.HashCode(), d3.HashCode())

	a.Panics(func() {
		d.Shuffle(-1)
	})
}

func TestDeck_Draw(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.Shuffle(42)

	first := d.Cards[0]
	card, err := d.Draw()
	a.NoError(err)
	a.True(card.Equal(first))
	a.Equal(51, d.CardsLeft())

	for d.CardsLeft() > 0 {
		_, err := d.Draw()
		a.NoError(err)
	}

	card, err = d.Draw()
	a.Nil(card)
	a.Equal(ErrDeckExhausted, err)
}

func TestDeck_Burn(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.Shuffle(42)

	second := d.Cards[1]
	a.NoError(d.Burn())

	card, err := d.Draw()
	a.NoError(err)
	a.True(card.Equal(second))

	d.Cards = nil
	a.Equal(ErrDeckExhausted, d.Burn())
}

func TestDeck_CanDraw(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.True(d.CanDraw(52))
	a.False(d.CanDraw(53))
}
