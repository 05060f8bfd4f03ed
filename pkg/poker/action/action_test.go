package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromString(t *testing.T) {
	a := assert.New(t)

	for _, s := range []string{"fold", "check", "call", "bet", "raise", "allIn"} {
		act, err := FromString(s)
		a.NoError(err)
		a.True(act.IsValid())
		a.Equal(s, string(act))
	}

	act, err := FromString("discard")
	a.EqualError(err, "unknown action for identifier: discard")
	a.False(act.IsValid())
}

func TestAction_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("Fold", Fold.String())
	a.Equal("All-in", AllIn.String())

	a.Panics(func() {
		_ = Action("bogus").String()
	})
}

func TestAction_LogMessage(t *testing.T) {
	a := assert.New(t)

	a.Equal("folded", Fold.LogMessage(0))
	a.Equal("checked", Check.LogMessage(0))
	a.Equal("called 25", Call.LogMessage(25))
	a.Equal("bet 50", Bet.LogMessage(50))
	a.Equal("raised to 100", Raise.LogMessage(100))
	a.Equal("went all-in for 500", AllIn.LogMessage(500))
}
