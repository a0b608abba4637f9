package network

import (
	"encoding/json"

	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/event"
)

// MessageType identifies the semantic meaning of a message
type MessageType string

const (
	// Server to client
	MsgHello    MessageType = "hello"    // Sent once on connect
	MsgSnapshot MessageType = "snapshot" // World state after a step
	MsgEvents   MessageType = "events"   // Contact and destroy events since the last publish

	// Client to server
	MsgCommand MessageType = "command"
)

// Message is the JSON envelope of every frame
type Message struct {
	Type    MessageType     `json:"type"`
	Session string          `json:"session,omitempty"`
	Client  string          `json:"client,omitempty"`
	Step    uint64          `json:"step,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`

	// Command is set on MsgCommand frames
	Command string `json:"command,omitempty"`
}

// EventPayload is the wire form of a physics event
type EventPayload struct {
	Type          string     `json:"type"`
	A             uint64     `json:"a"`
	B             uint64     `json:"b,omitempty"`
	Normal        [2]float64 `json:"normal"`
	Point         [2]float64 `json:"point"`
	NormalImpulse float64    `json:"impulse,omitempty"`
}

func encode(typ MessageType, session string, step uint64, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: typ, Session: session, Step: step, Payload: raw})
}

// EncodeSnapshot frames a snapshot
func EncodeSnapshot(session string, snap engine.Snapshot) ([]byte, error) {
	return encode(MsgSnapshot, session, snap.Step, snap)
}

// EncodeEvents frames a batch of events
func EncodeEvents(session string, step uint64, events []event.Event) ([]byte, error) {
	out := make([]EventPayload, 0, len(events))
	for _, ev := range events {
		out = append(out, EventPayload{
			Type:          ev.Type.String(),
			A:             uint64(ev.A),
			B:             uint64(ev.B),
			Normal:        ev.Normal,
			Point:         ev.Point,
			NormalImpulse: ev.NormalImpulse,
		})
	}
	return encode(MsgEvents, session, step, out)
}
