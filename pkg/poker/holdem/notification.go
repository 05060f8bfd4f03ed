package holdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/evaluator"
	"holdem-server/pkg/poker/potmanager"
)

// Broadcaster delivers notifications to connected clients. The table calls
// it with the lock held, so implementations must never block.
type Broadcaster interface {
	// Unicast delivers a notification to a single player
	Unicast(playerID string, n *Notification)

	// Broadcast delivers a notification to every connected client
	Broadcast(n *Notification)
}

// NotificationType discriminates notification payloads
type NotificationType string

// constants for NotificationType
const (
	NotificationJoined            NotificationType = "joined"
	NotificationPlayerJoined      NotificationType = "playerJoined"
	NotificationPlayerLeft        NotificationType = "playerLeft"
	NotificationCountdownStarted  NotificationType = "countdownStarted"
	NotificationCountdownStopped  NotificationType = "countdownStopped"
	NotificationBlindsPosted      NotificationType = "blindsPosted"
	NotificationHoleCards         NotificationType = "holeCards"
	NotificationActionRequest     NotificationType = "actionRequest"
	NotificationPlayerActed       NotificationType = "playerActed"
	NotificationPhaseChanged      NotificationType = "phaseChanged"
	NotificationShowdownRequest   NotificationType = "showdownRequest"
	NotificationPlayerShowedCards NotificationType = "playerShowedCards"
	NotificationPotDistribution   NotificationType = "potDistribution"
	NotificationHandEnded         NotificationType = "handEnded"
	NotificationGameOver          NotificationType = "gameOver"
	NotificationState             NotificationType = "state"
	NotificationError             NotificationType = "error"
)

// Notification is a typed message for the transport layer to deliver.
// Data is always one of the payload structs below; serialization happens
// at the transport boundary, never here.
type Notification struct {
	Type NotificationType `json:"type"`
	Data interface{}      `json:"data,omitempty"`
}

func newNotification(nt NotificationType, data interface{}) *Notification {
	return &Notification{
		Type: nt,
		Data: data,
	}
}

// JoinedData confirms a join to the new player. The room sends it after it
// has bound the player's ID to the connection.
type JoinedData struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	SeatIndex int    `json:"seatIndex"`
	Chips     int    `json:"chips"`
}

// PlayerJoinedData announces a new player to the table
type PlayerJoinedData struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	SeatIndex int    `json:"seatIndex"`
	Chips     int    `json:"chips"`
}

// PlayerLeftData announces a player leaving the table
type PlayerLeftData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// CountdownStartedData announces the pre-game countdown
type CountdownStartedData struct {
	Seconds int `json:"seconds"`
}

// BlindData is one posted blind
type BlindData struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

// BlindsPostedData announces the start of a hand
type BlindsPostedData struct {
	HandID     string    `json:"handId"`
	DealerID   string    `json:"dealerId"`
	SmallBlind BlindData `json:"smallBlind"`
	BigBlind   BlindData `json:"bigBlind"`
}

// HoleCardsData carries a player's private cards
type HoleCardsData struct {
	Cards deck.Hand `json:"cards"`
}

// ActionRequestData asks a player to act
type ActionRequestData struct {
	PlayerID       string            `json:"playerId"`
	Actions        []AvailableAction `json:"actions"`
	TimeoutSeconds int               `json:"timeoutSeconds"`
	CurrentBet     int               `json:"currentBet"`
	CallAmount     int               `json:"callAmount"`
	MinRaise       int               `json:"minRaise"`
	Chips          int               `json:"chips"`
}

// PlayerActedData announces an accepted action
type PlayerActedData struct {
	PlayerID string        `json:"playerId"`
	Action   action.Action `json:"action"`
	Amount   int           `json:"amount"`
	Chips    int           `json:"chips"`
	AllIn    bool          `json:"allIn"`
}

// PhaseChangedData announces a state transition
type PhaseChangedData struct {
	Phase          State             `json:"phase"`
	CommunityCards deck.Hand         `json:"communityCards"`
	Pots           []*potmanager.Pot `json:"pots"`
}

// ShowdownRequestData asks a player whether to show or muck
type ShowdownRequestData struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// PlayerShowedCardsData announces a revealed hand
type PlayerShowedCardsData struct {
	PlayerID string         `json:"playerId"`
	Cards    deck.Hand      `json:"cards"`
	Tier     evaluator.Tier `json:"tier"`
	Hand     string         `json:"hand"`
}

// PotDistributionData announces who won each pot
type PotDistributionData struct {
	Pots []*potmanager.PotResult `json:"pots"`
}

// HandEndedData carries the post-hand chip counts
type HandEndedData struct {
	Players []*playerState `json:"players"`
}

// Ranking is a player's final standing
type Ranking struct {
	Place    int    `json:"place"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Chips    int    `json:"chips"`
}

// GameOverData announces the end of the game
type GameOverData struct {
	Rankings []Ranking `json:"rankings"`
}

// StateData is a full table snapshot for a (re)connecting client
type StateData struct {
	State          State             `json:"state"`
	CommunityCards deck.Hand         `json:"communityCards"`
	Pots           []*potmanager.Pot `json:"pots"`
	Players        []*playerState    `json:"players"`
	CurrentTurn    string            `json:"currentTurn,omitempty"`
	CurrentBet     int               `json:"currentBet"`
	MinRaise       int               `json:"minRaise"`
}

// ErrorData carries a validation failure back to the acting player
type ErrorData struct {
	Message string `json:"message"`
}
