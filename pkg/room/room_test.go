package room

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/poker/holdem"
)

func testOptions() holdem.Options {
	opts := holdem.DefaultOptions()
	opts.ActionTimeout = time.Hour
	opts.Countdown = time.Hour
	opts.EndOfHandDelay = time.Hour
	return opts
}

func testRoom(t *testing.T) *Room {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r, err := New(logger, testOptions())
	assert.NoError(t, err)
	return r
}

// drain empties the client's send buffer
func drain(c *Client) []interface{} {
	msgs := make([]interface{}, 0)
	for {
		select {
		case m := <-c.SendChan():
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func lastNotification(msgs []interface{}, nt holdem.NotificationType) *holdem.Notification {
	for i := len(msgs) - 1; i >= 0; i-- {
		if n, ok := msgs[i].(*holdem.Notification); ok && n.Type == nt {
			return n
		}
	}

	return nil
}

func hasOK(msgs []interface{}) bool {
	for _, m := range msgs {
		if r, ok := m.(*Response); ok && r.Key == "ok" {
			return true
		}
	}

	return false
}

func join(t *testing.T, r *Room, name string) *Client {
	t.Helper()

	c := NewClient(nil)
	r.AddClient(c)
	c.ReceivedMessage(&Command{Action: ActionJoin, Name: name})
	assert.NotEmpty(t, c.PlayerID())
	return c
}

func TestRoom_join(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	c := NewClient(nil)
	r.AddClient(c)

	c.ReceivedMessage(&Command{Action: ActionJoin, Name: "alice", Context: "c1"})
	a.NotEmpty(c.PlayerID())

	msgs := drain(c)
	a.True(hasOK(msgs))
	a.NotNil(lastNotification(msgs, holdem.NotificationJoined))
	a.NotNil(lastNotification(msgs, holdem.NotificationPlayerJoined))
	a.NotNil(lastNotification(msgs, holdem.NotificationState))
}

func TestRoom_joinTwice(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	c := join(t, r, "alice")
	drain(c)

	c.ReceivedMessage(&Command{Action: ActionJoin, Name: "alice again"})

	n := lastNotification(drain(c), holdem.NotificationError)
	a.NotNil(n)
	a.Equal("already seated", n.Data.(*holdem.ErrorData).Message)
}

func TestRoom_unknownCommand(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	c := NewClient(nil)
	r.AddClient(c)

	c.ReceivedMessage(&Command{Action: "discard"})

	n := lastNotification(drain(c), holdem.NotificationError)
	a.NotNil(n)
	a.Equal("unknown command: discard", n.Data.(*holdem.ErrorData).Message)
}

func TestRoom_actValidation(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	c := NewClient(nil)
	r.AddClient(c)

	c.ReceivedMessage(&Command{Action: ActionAct, Type: "fold"})
	n := lastNotification(drain(c), holdem.NotificationError)
	a.Equal("join the table first", n.Data.(*holdem.ErrorData).Message)

	c.ReceivedMessage(&Command{Action: ActionJoin, Name: "alice"})
	drain(c)

	// unknown action types stop at the boundary
	c.ReceivedMessage(&Command{Action: ActionAct, Type: "discard"})
	n = lastNotification(drain(c), holdem.NotificationError)
	a.Equal("unknown action for identifier: discard", n.Data.(*holdem.ErrorData).Message)

	// a known type outside a hand is rejected by the table
	c.ReceivedMessage(&Command{Action: ActionAct, Type: "fold"})
	n = lastNotification(drain(c), holdem.NotificationError)
	a.Equal("no betting round is active", n.Data.(*holdem.ErrorData).Message)
}

func TestRoom_heartbeat(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	c := NewClient(nil)
	r.AddClient(c)

	c.ReceivedMessage(&Command{Action: ActionHeartbeat, Context: "hb"})

	msgs := drain(c)
	a.Equal(1, len(msgs))
	a.Equal("hb", msgs[0].(*Response).Context)
}

func TestRoom_disconnectLeavesTable(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	clients := make([]*Client, 0, 4)
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		clients = append(clients, join(t, r, name))
	}

	a.Equal(holdem.StateCountdown, r.Table().State())

	r.RemoveClient(clients[3])
	a.Equal(holdem.StateWaitingForPlayers, r.Table().State())
}

func TestRoom_foldToSingleWinner(t *testing.T) {
	a := assert.New(t)

	r := testRoom(t)
	clients := make([]*Client, 0, 4)
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		clients = append(clients, join(t, r, name))
	}

	a.NoError(r.Table().StartNewHand())
	a.Equal(holdem.StatePreFlop, r.Table().State())

	for i := 0; i < 3; i++ {
		actor := actorClient(t, clients)
		actor.ReceivedMessage(&Command{Action: ActionAct, Type: "fold"})
	}

	a.Equal(holdem.StateSettlement, r.Table().State())
}

// actorClient finds the client holding an unread action request
func actorClient(t *testing.T, clients []*Client) *Client {
	t.Helper()

	for _, c := range clients {
		if lastNotification(drain(c), holdem.NotificationActionRequest) != nil {
			return c
		}
	}

	t.Fatal("no client has an action request")
	return nil
}
