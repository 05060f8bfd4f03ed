package room

// Command is a parsed client message. Action discriminates the payload;
// unknown actions are rejected here at the boundary and never reach the
// table.
type Command struct {
	Action  string `json:"action"`
	Context string `json:"context,omitempty"`

	// Name is the display name for a join
	Name string `json:"name,omitempty"`

	// Type and Amount describe a betting action
	Type   string `json:"type,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

// client command actions
const (
	ActionJoin      = "join"
	ActionAct       = "act"
	ActionShow      = "show"
	ActionMuck      = "muck"
	ActionHeartbeat = "heartbeat"
)

// Response acknowledges a client command
type Response struct {
	Context string `json:"context,omitempty"`
	Key     string `json:"key"`
}

// OK returns a success response for the given context
func OK(context string) *Response {
	return &Response{
		Context: context,
		Key:     "ok",
	}
}
