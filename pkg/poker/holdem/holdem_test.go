package holdem

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/action"
)

type testBroadcaster struct {
	mu         sync.Mutex
	unicasts   map[string][]*Notification
	broadcasts []*Notification
}

func newTestBroadcaster() *testBroadcaster {
	return &testBroadcaster{
		unicasts: make(map[string][]*Notification),
	}
}

func (b *testBroadcaster) Unicast(playerID string, n *Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unicasts[playerID] = append(b.unicasts[playerID], n)
}

func (b *testBroadcaster) Broadcast(n *Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.broadcasts = append(b.broadcasts, n)
}

func (b *testBroadcaster) countBroadcasts(nt NotificationType) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, n := range b.broadcasts {
		if n.Type == nt {
			count++
		}
	}

	return count
}

func (b *testBroadcaster) lastBroadcast(nt NotificationType) *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.broadcasts) - 1; i >= 0; i-- {
		if b.broadcasts[i].Type == nt {
			return b.broadcasts[i]
		}
	}

	return nil
}

func (b *testBroadcaster) lastUnicast(playerID string, nt NotificationType) *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	sent := b.unicasts[playerID]
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].Type == nt {
			return sent[i]
		}
	}

	return nil
}

// stubRand makes the button draw deterministic
type stubRand struct {
	n int
}

func (s stubRand) Intn(int) int {
	return s.n
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.ActionTimeout = time.Hour
	opts.Countdown = time.Hour
	opts.InterStreetDelay = time.Millisecond * 10
	opts.EndOfHandDelay = time.Hour
	return opts
}

// setupTable seats players alice..dave with the button on seat 0, so bob
// posts the small blind, carol the big blind, and dave acts first pre-flop
func setupTable(t *testing.T, opts Options, cards string) (*Table, *testBroadcaster, []*Player) {
	t.Helper()

	broadcaster := newTestBroadcaster()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	table, err := New(logger, broadcaster, opts)
	assert.NoError(t, err)

	table.rand = stubRand{}
	if cards != "" {
		table.newDeck = func() *deck.Deck {
			return &deck.Deck{Cards: deck.CardsFromString(cards)}
		}
	}

	players := make([]*Player, 0, 4)
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		p, err := table.AddPlayer(name)
		assert.NoError(t, err)
		players = append(players, p)
	}

	return table, broadcaster, players
}

// fullHandDeck deals bob 2h,3h, carol 7c,6c, dave As,Ad, alice Ks,Qs and a
// board of 10c,5d,2s,3d,9c
const fullHandDeck = "2h,7c,14s,13s,3h,6c,14d,12s,9h,10c,5d,2s,8d,3d,4h,9c"

func TestTable_AddPlayer(t *testing.T) {
	a := assert.New(t)

	broadcaster := newTestBroadcaster()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	table, err := New(logger, broadcaster, testOptions())
	a.NoError(err)

	p1, err := table.AddPlayer("alice")
	a.NoError(err)
	a.Equal(0, p1.SeatIndex)
	a.Equal(1000, p1.Chips())

	p2, err := table.AddPlayer("alice")
	a.NoError(err)
	a.Equal("alice (2)", p2.Name)
	a.Equal(1, p2.SeatIndex)

	_, err = table.AddPlayer("  ")
	a.EqualError(err, "a name is required")

	a.Equal(2, broadcaster.countBroadcasts(NotificationPlayerJoined))
	a.Equal(StateWaitingForPlayers, table.State())

	table.AddPlayer("carol")
	table.AddPlayer("dave")
	a.Equal(StateCountdown, table.State())
	a.Equal(1, broadcaster.countBroadcasts(NotificationCountdownStarted))
}

func TestTable_AddPlayer_full(t *testing.T) {
	a := assert.New(t)

	table, _, _ := setupTable(t, testOptions(), "")
	for i := 0; i < 6; i++ {
		_, err := table.AddPlayer("player")
		a.NoError(err)
	}

	_, err := table.AddPlayer("late")
	a.EqualError(err, "the table is full")
}

func TestTable_AddPlayer_duringHand(t *testing.T) {
	a := assert.New(t)

	table, _, _ := setupTable(t, testOptions(), fullHandDeck)
	a.NoError(table.StartNewHand())

	_, err := table.AddPlayer("late")
	a.EqualError(err, "cannot join while a game is in progress")
}

func TestTable_countdownCancelled(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), "")
	a.Equal(StateCountdown, table.State())

	a.NoError(table.RemovePlayer(players[3].PlayerID, "left"))
	a.Equal(StateWaitingForPlayers, table.State())
	a.Equal(1, broadcaster.countBroadcasts(NotificationCountdownStopped))
	a.Equal(1, broadcaster.countBroadcasts(NotificationPlayerLeft))
}

func TestTable_lowestFreeSeat(t *testing.T) {
	a := assert.New(t)

	table, _, players := setupTable(t, testOptions(), "")
	a.NoError(table.RemovePlayer(players[1].PlayerID, "left"))

	p, err := table.AddPlayer("eve")
	a.NoError(err)
	a.Equal(1, p.SeatIndex)
}

func TestTable_blindsAndFirstActor(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())
	a.Equal(StatePreFlop, table.State())

	n := broadcaster.lastBroadcast(NotificationBlindsPosted)
	a.NotNil(n)
	data := n.Data.(*BlindsPostedData)
	a.Equal(alice.PlayerID, data.DealerID)
	a.Equal(BlindData{PlayerID: bob.PlayerID, Amount: 2}, data.SmallBlind)
	a.Equal(BlindData{PlayerID: carol.PlayerID, Amount: 4}, data.BigBlind)

	a.Equal("14s,14d", dave.HoleCards().String())
	a.Equal("2h,3h", bob.HoleCards().String())

	hole := broadcaster.lastUnicast(dave.PlayerID, NotificationHoleCards)
	a.NotNil(hole)
	a.Equal("14s,14d", hole.Data.(*HoleCardsData).Cards.String())

	// dave is first to act after the big blind
	req := broadcaster.lastUnicast(dave.PlayerID, NotificationActionRequest)
	a.NotNil(req)
	reqData := req.Data.(*ActionRequestData)
	a.Equal(4, reqData.CurrentBet)
	a.Equal(4, reqData.CallAmount)
	a.Equal(4, reqData.MinRaise)

	// bob cannot act out of turn
	err := table.HandlePlayerAction(bob.PlayerID, action.Call, 0)
	a.EqualError(err, "it is not your turn")
}

func TestTable_shortStackPostsPartialBlind(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	bob := players[1]
	bob.chips = 1

	a.NoError(table.StartNewHand())

	n := broadcaster.lastBroadcast(NotificationBlindsPosted)
	a.Equal(1, n.Data.(*BlindsPostedData).SmallBlind.Amount)
	a.True(bob.AllIn())
}

func TestTable_fullHandToShowdown(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	// pre-flop: everyone calls, the big blind checks
	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Check, 0))

	time.Sleep(time.Millisecond * 100)
	a.Equal(StateFlop, table.State())
	a.Equal("10c,5d,2s", table.community.String())

	phase := broadcaster.lastBroadcast(NotificationPhaseChanged).Data.(*PhaseChangedData)
	a.Equal(StateFlop, phase.Phase)
	a.Equal(16, phase.Pots[0].Amount)

	// flop: dave bets, bob folds, the others call
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Check, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Check, 0))
	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Bet, 10))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Fold, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Call, 0))

	time.Sleep(time.Millisecond * 100)
	a.Equal(StateTurn, table.State())
	a.Equal("10c,5d,2s,3d", table.community.String())

	// turn and river: checked around; bob is out
	for _, street := range []State{StateRiver, StateSettlement} {
		a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Check, 0))
		a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Check, 0))
		a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Check, 0))

		time.Sleep(time.Millisecond * 100)
		a.Equal(street, table.State())
	}

	// dave's pair of aces takes the 46-chip pot
	dist := broadcaster.lastBroadcast(NotificationPotDistribution)
	a.NotNil(dist)
	pots := dist.Data.(*PotDistributionData).Pots
	a.Equal(1, len(pots))
	a.Equal(46, pots[0].Amount)
	a.Equal(dave.PlayerID, pots[0].Winners[0].PlayerID)

	a.Equal(1032, dave.Chips())
	a.Equal(986, alice.Chips())
	a.Equal(996, bob.Chips())
	a.Equal(986, carol.Chips())
	a.Equal(4000, alice.Chips()+bob.Chips()+carol.Chips()+dave.Chips())

	// dave was the aggressor and the winner, so only dave shows
	a.Equal(1, broadcaster.countBroadcasts(NotificationPlayerShowedCards))
	shown := broadcaster.lastBroadcast(NotificationPlayerShowedCards).Data.(*PlayerShowedCardsData)
	a.Equal(dave.PlayerID, shown.PlayerID)
	a.Equal("14s,14d", shown.Cards.String())

	// the losers get a show/muck choice
	a.NotNil(broadcaster.lastUnicast(alice.PlayerID, NotificationShowdownRequest))
	a.NotNil(broadcaster.lastUnicast(carol.PlayerID, NotificationShowdownRequest))
	a.Nil(broadcaster.lastUnicast(bob.PlayerID, NotificationShowdownRequest))
}

func TestTable_showAndMuck(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	a.EqualError(table.ShowCards(alice.PlayerID), "cards can only be shown after the showdown")

	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.AllIn, 0))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Call, 0))

	time.Sleep(time.Millisecond * 200)
	a.Equal(StateSettlement, table.State())

	// carol mucked by default; showing is still allowed during settlement
	before := broadcaster.countBroadcasts(NotificationPlayerShowedCards)
	a.NoError(table.ShowCards(carol.PlayerID))
	a.Equal(before+1, broadcaster.countBroadcasts(NotificationPlayerShowedCards))

	a.EqualError(table.MuckCards(carol.PlayerID), "cards have already been shown")
	a.NoError(table.MuckCards(alice.PlayerID))
}

func TestTable_allInRunout(t *testing.T) {
	a := assert.New(t)

	table, _, players := setupTable(t, testOptions(), fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.AllIn, 0))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Call, 0))

	// the board runs out with no further action
	time.Sleep(time.Millisecond * 200)
	a.Equal(StateSettlement, table.State())

	// bob's two pair beats dave's aces on the 10c,5d,2s,3d,9c board
	a.Equal(4000, bob.Chips())
	a.Equal(0, alice.Chips())
	a.Equal(0, carol.Chips())
	a.Equal(0, dave.Chips())
}

func TestTable_singleWinnerFastPath(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Fold, 0))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Fold, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Fold, 0))

	// carol wins the blinds without a showdown
	a.Equal(StateSettlement, table.State())
	a.Equal(1002, carol.Chips())
	a.Equal(998, bob.Chips())
	a.Equal(0, broadcaster.countBroadcasts(NotificationPlayerShowedCards))

	dist := broadcaster.lastBroadcast(NotificationPotDistribution)
	a.NotNil(dist)
	pots := dist.Data.(*PotDistributionData).Pots
	a.Equal(6, pots[0].Amount)
	a.Equal(carol.PlayerID, pots[0].Winners[0].PlayerID)
}

func TestTable_actionTimeoutAutoFolds(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.ActionTimeout = time.Millisecond * 20

	table, broadcaster, players := setupTable(t, opts, fullHandDeck)
	carol := players[2]

	a.NoError(table.StartNewHand())

	// dave, alice, and bob all time out; carol wins by default
	time.Sleep(time.Millisecond * 500)
	a.Equal(StateSettlement, table.State())
	a.Equal(1002, carol.Chips())
	a.Equal(3, broadcaster.countBroadcasts(NotificationPlayerActed))
}

func TestTable_actionCancelsTimeout(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.ActionTimeout = time.Millisecond * 100

	table, _, players := setupTable(t, opts, fullHandDeck)
	dave := players[3]

	a.NoError(table.StartNewHand())
	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Raise, 20))

	// the stale timeout must not fold dave
	time.Sleep(time.Millisecond * 200)
	a.False(dave.Folded())
	a.Equal(20, dave.CurrentBet())
}

func TestTable_removePlayerDuringHand(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	alice, dave := players[0], players[3]

	a.NoError(table.StartNewHand())

	// alice is not on the clock; leaving folds her out of turn
	a.NoError(table.RemovePlayer(alice.PlayerID, "disconnected"))
	a.True(alice.Folded())
	a.Equal(4, len(table.players))
	a.Equal(1, broadcaster.countBroadcasts(NotificationPlayerLeft))

	// the hand continues with dave still on the clock
	a.Equal(StatePreFlop, table.State())
	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Call, 0))
}

func TestTable_removeActingPlayerFolds(t *testing.T) {
	a := assert.New(t)

	table, _, players := setupTable(t, testOptions(), fullHandDeck)
	alice, dave := players[0], players[3]

	a.NoError(table.StartNewHand())

	a.NoError(table.RemovePlayer(dave.PlayerID, "disconnected"))
	a.True(dave.Folded())

	// the turn moved on to alice
	err := table.HandlePlayerAction(alice.PlayerID, action.Call, 0)
	a.NoError(err)
}

func TestTable_handleActionValidation(t *testing.T) {
	a := assert.New(t)

	table, _, players := setupTable(t, testOptions(), fullHandDeck)
	dave := players[3]

	err := table.HandlePlayerAction(dave.PlayerID, action.Call, 0)
	a.EqualError(err, "no betting round is active")

	a.NoError(table.StartNewHand())

	err = table.HandlePlayerAction("bogus", action.Call, 0)
	a.EqualError(err, "player not found")

	// an invalid action leaves the turn in place
	err = table.HandlePlayerAction(dave.PlayerID, action.Check, 0)
	a.EqualError(err, "cannot check a bet of 4")
	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Call, 0))
}

func TestTable_sendStateTo(t *testing.T) {
	a := assert.New(t)

	table, broadcaster, players := setupTable(t, testOptions(), fullHandDeck)
	dave := players[3]

	a.NoError(table.StartNewHand())
	table.SendStateTo(dave.PlayerID)

	n := broadcaster.lastUnicast(dave.PlayerID, NotificationState)
	a.NotNil(n)

	data := n.Data.(*StateData)
	a.Equal(StatePreFlop, data.State)
	a.Equal(dave.PlayerID, data.CurrentTurn)
	a.Equal(4, data.CurrentBet)
	a.Equal(4, len(data.Players))

	// only dave's own cards are visible
	for _, ps := range data.Players {
		if ps.PlayerID == dave.PlayerID {
			a.Equal("14s,14d", ps.Cards.String())
		} else {
			a.Nil(ps.Cards)
		}
	}
}

func TestTable_nextHandRotatesButton(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.EndOfHandDelay = time.Millisecond * 10

	table, broadcaster, players := setupTable(t, opts, fullHandDeck)
	bob, carol, dave := players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Fold, 0))
	a.NoError(table.HandlePlayerAction(players[0].PlayerID, action.Fold, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Fold, 0))
	a.Equal(StateSettlement, table.State())

	time.Sleep(time.Millisecond * 100)
	a.Equal(StatePreFlop, table.State())

	// the button moved from alice to bob
	n := broadcaster.lastBroadcast(NotificationBlindsPosted)
	data := n.Data.(*BlindsPostedData)
	a.Equal(bob.PlayerID, data.DealerID)
	a.Equal(carol.PlayerID, data.SmallBlind.PlayerID)
	a.Equal(dave.PlayerID, data.BigBlind.PlayerID)

	table.Stop()
}

func TestNew_shuffleSeedFromGenerator(t *testing.T) {
	a := assert.New(t)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	table, err := New(logger, newTestBroadcaster(), testOptions())
	a.NoError(err)

	table.rand = stubRand{n: 41}
	a.Equal(int64(42), table.newDeck().GetSeed())

	opts := testOptions()
	opts.DeckSeed = 99
	fixed, err := New(logger, newTestBroadcaster(), opts)
	a.NoError(err)
	a.Equal(int64(99), fixed.newDeck().GetSeed())
}

func TestTable_gameOverWhenTooFewRemain(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.EndOfHandDelay = time.Millisecond * 10

	table, broadcaster, players := setupTable(t, opts, fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	// everyone all-in; bob's two pair scoops and the rest are eliminated
	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.AllIn, 0))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Call, 0))

	time.Sleep(time.Millisecond * 500)
	a.Equal(StateGameOver, table.State())

	n := broadcaster.lastBroadcast(NotificationGameOver)
	a.NotNil(n)

	// the survivor places first, then the busted players in reverse
	// elimination order with zero chips
	rankings := n.Data.(*GameOverData).Rankings
	a.Equal(4, len(rankings))
	a.Equal(bob.PlayerID, rankings[0].PlayerID)
	a.Equal(4000, rankings[0].Chips)
	a.Equal(1, rankings[0].Place)

	a.Equal(dave.PlayerID, rankings[1].PlayerID)
	a.Equal(carol.PlayerID, rankings[2].PlayerID)
	a.Equal(alice.PlayerID, rankings[3].PlayerID)
	for i, r := range rankings[1:] {
		a.Equal(i+2, r.Place)
		a.Equal(0, r.Chips)
	}
}

func TestTable_potInvariantAfterCollect(t *testing.T) {
	a := assert.New(t)

	table, _, players := setupTable(t, testOptions(), fullHandDeck)
	alice, bob, carol, dave := players[0], players[1], players[2], players[3]

	a.NoError(table.StartNewHand())

	a.NoError(table.HandlePlayerAction(dave.PlayerID, action.Raise, 50))
	a.NoError(table.HandlePlayerAction(alice.PlayerID, action.Call, 0))
	a.NoError(table.HandlePlayerAction(bob.PlayerID, action.Fold, 0))
	a.NoError(table.HandlePlayerAction(carol.PlayerID, action.Call, 0))

	time.Sleep(time.Millisecond * 100)
	a.Equal(StateFlop, table.State())

	wagered := 0
	for _, p := range []*Player{alice, bob, carol, dave} {
		wagered += p.totalBetThisHand
	}

	a.Equal(wagered, table.pots.Total())
	a.Equal(152, table.pots.Total())
}
