package server

import (
	"encoding/json"

	"github.com/backtrail-dev/backtrail/internal/errors"
	"github.com/backtrail-dev/backtrail/pkg/history"
)

// Command types sent server → client.
const (
	CmdPush    = "push"
	CmdReplace = "replace"
	CmdGo      = "go"
)

// Message types received client → server.
const (
	MsgHello  = "hello"
	MsgUpdate = "update"
)

// Command instructs the client to mutate its native history stack.
// Each command carries a sequence number the client echoes back in the
// resulting update, so the bridge can pair mutations with their
// notifications.
type Command struct {
	Type  string         `json:"type"`
	Seq   uint64         `json:"seq"`
	Path  string         `json:"path,omitempty"`
	State map[string]any `json:"state,omitempty"`
	Delta int            `json:"delta,omitempty"`
}

// WireLocation is the JSON shape of a history entry on the wire.
type WireLocation struct {
	Pathname string         `json:"pathname"`
	Search   string         `json:"search,omitempty"`
	Hash     string         `json:"hash,omitempty"`
	Key      string         `json:"key,omitempty"`
	State    map[string]any `json:"state,omitempty"`
}

// Location converts the wire shape to a history.Location.
func (w WireLocation) Location() history.Location {
	return history.Location{
		Pathname: w.Pathname,
		Search:   w.Search,
		Hash:     w.Hash,
		Key:      w.Key,
		State:    w.State,
	}
}

// FromLocation converts a history.Location to its wire shape.
func FromLocation(loc history.Location) WireLocation {
	return WireLocation{
		Pathname: loc.Pathname,
		Search:   loc.Search,
		Hash:     loc.Hash,
		Key:      loc.Key,
		State:    loc.State,
	}
}

// ClientMessage is a frame received from the client: the initial hello
// announcing the current location, or an update after any stack change.
// Seq is the sequence of the command that produced the change, zero for
// changes the client initiated itself.
type ClientMessage struct {
	Type     string        `json:"type"`
	Seq      uint64        `json:"seq,omitempty"`
	Action   string        `json:"action,omitempty"`
	Location *WireLocation `json:"location,omitempty"`
}

// DecodeClientMessage parses and validates one inbound frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, errors.New(errors.CodeProtocolFrame).Wrap(err)
	}
	switch msg.Type {
	case MsgHello, MsgUpdate:
	default:
		return ClientMessage{}, errors.New(errors.CodeProtocolFrame).
			WithDetail("unknown message type: " + msg.Type)
	}
	if msg.Location == nil {
		return ClientMessage{}, errors.New(errors.CodeProtocolFrame).
			WithDetail("message carries no location")
	}
	return msg, nil
}

// parseAction maps a wire action string to a history.Action. Unknown
// strings read as POP, the least destructive interpretation.
func parseAction(s string) history.Action {
	switch s {
	case "PUSH":
		return history.ActionPush
	case "REPLACE":
		return history.ActionReplace
	default:
		return history.ActionPop
	}
}
