package room

import (
	"github.com/gorilla/websocket"
)

// Client is a single websocket connection to the room. The transport layer
// owns the read and write loops; the room only ever writes to the buffered
// send channel.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// Close signals the transport layer to shut the connection down
	Close chan string

	// send is a channel for sending messages to the client
	send chan interface{}

	room *Room

	// playerID is set once the client joins the table
	playerID string
}

// NewClient returns a new client for a websocket connection
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:  conn,
		Close: make(chan string),
		send:  make(chan interface{}, 256),
	}
}

// Send queues a message for the client without blocking. A full buffer
// drops the message and returns false.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns the channel the write loop drains
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// PlayerID returns the seated player's ID, or "" before a join
func (c *Client) PlayerID() string {
	return c.playerID
}

// ReceivedMessage is called by the transport layer with a parsed command
func (c *Client) ReceivedMessage(cmd *Command) {
	if c.room == nil {
		return
	}

	c.room.ReceivedCommand(c, cmd)
}
