package room

import (
	"sync"

	"github.com/sirupsen/logrus"

	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/holdem"
)

// Room connects websocket clients to the single table. It parses commands
// into table calls and fans table notifications back out; it is the
// table's Broadcaster.
type Room struct {
	logger logrus.FieldLogger
	table  *holdem.Table

	mu       sync.RWMutex
	clients  map[*Client]bool
	byPlayer map[string]*Client
}

// New returns a room hosting a fresh table
func New(logger logrus.FieldLogger, opts holdem.Options) (*Room, error) {
	r := &Room{
		logger:   logger,
		clients:  make(map[*Client]bool),
		byPlayer: make(map[string]*Client),
	}

	table, err := holdem.New(logger, r, opts)
	if err != nil {
		return nil, err
	}

	r.table = table
	return r, nil
}

// Table returns the table the room is hosting
func (r *Room) Table() *holdem.Table {
	return r.table
}

// AddClient registers a connection with the room
func (r *Room) AddClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.room = r
	r.clients[c] = true
}

// RemoveClient drops a connection. A seated player is reported to the
// table as disconnected, which folds them for the rest of the hand.
func (r *Room) RemoveClient(c *Client) {
	r.mu.Lock()
	delete(r.clients, c)
	playerID := c.playerID
	if playerID != "" {
		delete(r.byPlayer, playerID)
	}
	r.mu.Unlock()

	if playerID != "" {
		if err := r.table.RemovePlayer(playerID, "disconnected"); err != nil {
			r.logger.WithError(err).Warn("could not remove disconnected player")
		}
	}
}

// ReceivedCommand dispatches a parsed client command
func (r *Room) ReceivedCommand(c *Client, cmd *Command) {
	switch cmd.Action {
	case ActionJoin:
		r.handleJoin(c, cmd)
	case ActionAct:
		r.handleAct(c, cmd)
	case ActionShow:
		r.respond(c, cmd, r.table.ShowCards(c.PlayerID()))
	case ActionMuck:
		r.respond(c, cmd, r.table.MuckCards(c.PlayerID()))
	case ActionHeartbeat:
		c.Send(OK(cmd.Context))
	default:
		r.logger.WithField("action", cmd.Action).Warn("unknown command")
		r.sendError(c, "unknown command: "+cmd.Action)
	}
}

func (r *Room) handleJoin(c *Client, cmd *Command) {
	r.mu.Lock()
	if c.playerID != "" {
		r.mu.Unlock()
		r.sendError(c, "already seated")
		return
	}
	r.mu.Unlock()

	p, err := r.table.AddPlayer(cmd.Name)
	if err != nil {
		r.sendError(c, err.Error())
		return
	}

	r.mu.Lock()
	c.playerID = p.PlayerID
	r.byPlayer[p.PlayerID] = c
	r.mu.Unlock()

	c.Send(&holdem.Notification{
		Type: holdem.NotificationJoined,
		Data: &holdem.JoinedData{
			PlayerID:  p.PlayerID,
			Name:      p.Name,
			SeatIndex: p.SeatIndex,
			Chips:     p.Chips(),
		},
	})

	c.Send(OK(cmd.Context))
	r.table.SendStateTo(p.PlayerID)
}

func (r *Room) handleAct(c *Client, cmd *Command) {
	if c.PlayerID() == "" {
		r.sendError(c, "join the table first")
		return
	}

	act, err := action.FromString(cmd.Type)
	if err != nil {
		r.sendError(c, err.Error())
		return
	}

	r.respond(c, cmd, r.table.HandlePlayerAction(c.PlayerID(), act, cmd.Amount))
}

// respond acks a command or relays its validation error to the sender only
func (r *Room) respond(c *Client, cmd *Command, err error) {
	if err != nil {
		r.sendError(c, err.Error())
		return
	}

	c.Send(OK(cmd.Context))
}

func (r *Room) sendError(c *Client, message string) {
	c.Send(&holdem.Notification{
		Type: holdem.NotificationError,
		Data: &holdem.ErrorData{Message: message},
	})
}

// holdem.Broadcaster interface

// Unicast delivers a notification to one player's connection
func (r *Room) Unicast(playerID string, n *holdem.Notification) {
	r.mu.RLock()
	c := r.byPlayer[playerID]
	r.mu.RUnlock()

	if c == nil {
		return
	}

	if !c.Send(n) {
		r.logger.WithField("player", playerID).Warn("send buffer full, dropping notification")
	}
}

// Broadcast delivers a notification to every connection
func (r *Room) Broadcast(n *holdem.Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for c := range r.clients {
		if !c.Send(n) {
			r.logger.Warn("send buffer full, dropping notification")
		}
	}
}
