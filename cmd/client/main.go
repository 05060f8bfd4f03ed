package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"holdem-server/pkg/deck"
)

var addr = flag.String("addr", "ws://localhost:5080/table/ws", "the table websocket address")
var name = flag.String("name", "", "your display name")

// idName mirrors the {id,name} shape of action enums, whose id is a string
type idName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// stateName mirrors the {id,name} shape of table states, whose id is numeric
type stateName struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// message is the envelope for everything the server sends. Notifications
// carry Type and Data; command acks carry Key and Context.
type message struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Key     string          `json:"key"`
	Context string          `json:"context"`
}

type playerData struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	SeatIndex int    `json:"seatIndex"`
	Chips     int    `json:"chips"`
	Reason    string `json:"reason"`
}

type blindData struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

type blindsPostedData struct {
	DealerID   string    `json:"dealerId"`
	SmallBlind blindData `json:"smallBlind"`
	BigBlind   blindData `json:"bigBlind"`
}

type availableAction struct {
	Action idName `json:"action"`
	Amount int    `json:"amount"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

type actionRequestData struct {
	PlayerID       string            `json:"playerId"`
	Actions        []availableAction `json:"actions"`
	TimeoutSeconds int               `json:"timeoutSeconds"`
	CurrentBet     int               `json:"currentBet"`
	CallAmount     int               `json:"callAmount"`
	Chips          int               `json:"chips"`
}

type playerActedData struct {
	PlayerID string `json:"playerId"`
	Action   idName `json:"action"`
	Amount   int    `json:"amount"`
	Chips    int    `json:"chips"`
	AllIn    bool   `json:"allIn"`
}

type potData struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type phaseChangedData struct {
	Phase          stateName `json:"phase"`
	CommunityCards deck.Hand `json:"communityCards"`
	Pots           []potData `json:"pots"`
}

type showedCardsData struct {
	PlayerID string    `json:"playerId"`
	Cards    deck.Hand `json:"cards"`
	Hand     string    `json:"hand"`
}

type potWinner struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

type potResultData struct {
	Name    string      `json:"name"`
	Amount  int         `json:"amount"`
	Winners []potWinner `json:"winners"`
}

type playerStateData struct {
	PlayerID   string    `json:"playerId"`
	Name       string    `json:"name"`
	Chips      int       `json:"chips"`
	CurrentBet int       `json:"currentBet"`
	Folded     bool      `json:"folded"`
	AllIn      bool      `json:"allIn"`
	Cards      deck.Hand `json:"cards"`
}

type rankingData struct {
	Place    int    `json:"place"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Chips    int    `json:"chips"`
}

// client holds the connection plus what it has learned about the table
type client struct {
	conn     *websocket.Conn
	playerID string
	names    map[string]string
}

func main() {
	flag.Parse()

	_ = pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hold", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("'em", pterm.FgDarkGray.ToStyle()),
	).Render()

	playerName := *name
	if playerName == "" {
		playerName, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").Show()
	}

	conn, resp, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		pterm.Fatal.Printfln("could not connect to %s: %v", *addr, err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer func() { _ = conn.Close() }()

	c := &client{
		conn:  conn,
		names: make(map[string]string),
	}

	c.send(map[string]interface{}{"action": "join", "name": playerName})

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			pterm.Error.Printfln("connection closed: %v", err)
			return
		}

		c.handle(&msg)
	}
}

func (c *client) send(cmd map[string]interface{}) {
	if err := c.conn.WriteJSON(cmd); err != nil {
		pterm.Fatal.Printfln("could not send command: %v", err)
	}
}

func (c *client) displayName(playerID string) string {
	if name, ok := c.names[playerID]; ok {
		return name
	}

	if len(playerID) > 8 {
		return playerID[:8]
	}

	return playerID
}

func (c *client) handle(msg *message) {
	if msg.Key != "" {
		// command acks are only interesting when something went wrong,
		// and errors arrive as notifications
		return
	}

	switch msg.Type {
	case "joined":
		var data playerData
		decode(msg.Data, &data)
		c.playerID = data.PlayerID
		c.names[data.PlayerID] = data.Name
		pterm.Success.Printfln("Seated as %s with %d chips (seat %d)", data.Name, data.Chips, data.SeatIndex)
	case "playerJoined":
		var data playerData
		decode(msg.Data, &data)
		c.names[data.PlayerID] = data.Name
		if data.PlayerID != c.playerID {
			pterm.Info.Printfln("%s joined the table (seat %d)", data.Name, data.SeatIndex)
		}
	case "playerLeft":
		var data playerData
		decode(msg.Data, &data)
		pterm.Info.Printfln("%s left the table (%s)", c.displayName(data.PlayerID), data.Reason)
	case "countdownStarted":
		var data struct {
			Seconds int `json:"seconds"`
		}
		decode(msg.Data, &data)
		pterm.Info.Printfln("Game starting in %d seconds", data.Seconds)
	case "countdownStopped":
		pterm.Info.Println("Countdown stopped, waiting for more players")
	case "blindsPosted":
		var data blindsPostedData
		decode(msg.Data, &data)
		pterm.Println()
		pterm.Info.Printfln("New hand. Dealer: %s. Blinds: %s posts %d, %s posts %d",
			c.displayName(data.DealerID),
			c.displayName(data.SmallBlind.PlayerID), data.SmallBlind.Amount,
			c.displayName(data.BigBlind.PlayerID), data.BigBlind.Amount)
	case "holeCards":
		var data struct {
			Cards deck.Hand `json:"cards"`
		}
		decode(msg.Data, &data)
		pterm.Println(pterm.BgGreen.Sprintf(" Your cards: %s ", handString(data.Cards)))
	case "actionRequest":
		var data actionRequestData
		decode(msg.Data, &data)
		c.promptAction(&data)
	case "playerActed":
		var data playerActedData
		decode(msg.Data, &data)
		c.printActed(&data)
	case "phaseChanged":
		var data phaseChangedData
		decode(msg.Data, &data)
		c.printPhase(&data)
	case "showdownRequest":
		c.promptShowdown()
	case "playerShowedCards":
		var data showedCardsData
		decode(msg.Data, &data)
		pterm.Info.Printfln("%s shows %s (%s)", c.displayName(data.PlayerID), handString(data.Cards), data.Hand)
	case "potDistribution":
		var data struct {
			Pots []potResultData `json:"pots"`
		}
		decode(msg.Data, &data)
		for _, pot := range data.Pots {
			for _, w := range pot.Winners {
				pterm.Success.Printfln("%s wins %d from the %s", c.displayName(w.PlayerID), w.Amount, strings.ToLower(pot.Name))
			}
		}
	case "handEnded":
		var data struct {
			Players []playerStateData `json:"players"`
		}
		decode(msg.Data, &data)
		for _, p := range data.Players {
			c.names[p.PlayerID] = p.Name
			pterm.Printfln("  %s: %d chips", p.Name, p.Chips)
		}
	case "gameOver":
		var data struct {
			Rankings []rankingData `json:"rankings"`
		}
		decode(msg.Data, &data)
		pterm.Println()
		for _, r := range data.Rankings {
			pterm.Printfln("  %d. %s (%d chips)", r.Place, r.Name, r.Chips)
		}
		pterm.Success.Println("Game over, thanks for playing")
	case "state":
		var data struct {
			State   stateName         `json:"state"`
			Players []playerStateData `json:"players"`
		}
		decode(msg.Data, &data)
		for _, p := range data.Players {
			c.names[p.PlayerID] = p.Name
		}
		pterm.Info.Printfln("Table state: %s, %d players seated", data.State.Name, len(data.Players))
	case "error":
		var data struct {
			Message string `json:"message"`
		}
		decode(msg.Data, &data)
		pterm.Error.Println(data.Message)
	}
}

func (c *client) printActed(data *playerActedData) {
	name := c.displayName(data.PlayerID)
	switch data.Action.ID {
	case "fold":
		pterm.Printfln("%s folds", name)
	case "check":
		pterm.Printfln("%s checks", name)
	case "call":
		pterm.Printfln("%s calls %d", name, data.Amount)
	case "bet":
		pterm.Printfln("%s bets %d", name, data.Amount)
	case "raise":
		pterm.Printfln("%s raises to %d", name, data.Amount)
	case "allIn":
		pterm.Printfln("%s is all-in for %d", name, data.Amount)
	}
}

func (c *client) printPhase(data *phaseChangedData) {
	pots := make([]string, len(data.Pots))
	total := 0
	for i, p := range data.Pots {
		pots[i] = fmt.Sprintf("%s: %d", p.Name, p.Amount)
		total += p.Amount
	}

	board := handString(data.CommunityCards)
	if board == "" {
		board = "(no cards yet)"
	}

	line := fmt.Sprintf(" %s | %s ", strings.ToUpper(data.Phase.Name), board)
	if total > 0 {
		line += "| " + strings.Join(pots, ", ") + " "
	}

	pterm.Println(pterm.BgGreen.Sprint(line))
}

func (c *client) promptAction(data *actionRequestData) {
	options := make([]string, len(data.Actions))
	byOption := make(map[string]availableAction)
	for i, aa := range data.Actions {
		label := aa.Action.Name
		switch aa.Action.ID {
		case "call", "allIn":
			label = fmt.Sprintf("%s %d", aa.Action.Name, aa.Amount)
		}

		options[i] = label
		byOption[label] = aa
	}

	prompt := fmt.Sprintf("Your turn (%d chips, %d seconds)", data.Chips, data.TimeoutSeconds)
	selected, _ := pterm.DefaultInteractiveSelect.WithDefaultText(prompt).WithOptions(options).Show()
	aa := byOption[selected]

	amount := aa.Amount
	if aa.Action.ID == "bet" || aa.Action.ID == "raise" {
		prompt := fmt.Sprintf("Amount (%d to %d)", aa.Min, aa.Max)
		input, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).WithDefaultValue(strconv.Itoa(aa.Min)).Show()
		amount, _ = strconv.Atoi(input)
	}

	c.send(map[string]interface{}{"action": "act", "type": aa.Action.ID, "amount": amount})
}

func (c *client) promptShowdown() {
	show, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Show your cards?").Show()
	if show {
		c.send(map[string]interface{}{"action": "show"})
		return
	}

	c.send(map[string]interface{}{"action": "muck"})
}

func handString(h deck.Hand) string {
	parts := make([]string, len(h))
	for i, card := range h {
		parts[i] = card.String()
	}

	return strings.Join(parts, " ")
}

func decode(raw json.RawMessage, v interface{}) {
	if raw == nil {
		return
	}

	if err := json.Unmarshal(raw, v); err != nil {
		pterm.Warning.Printfln("could not decode message: %v", err)
	}
}
