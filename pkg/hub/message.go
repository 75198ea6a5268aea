// Package hub fans chain events and camera frames out to websocket
// subscribers using a single owner goroutine.
package hub

import (
	"encoding/json"
	"time"
)

// MessageType indicates the websocket frame type.
type MessageType int

const (
	// JSONMessage is sent as a text frame.
	JSONMessage MessageType = iota
	// BinaryMessage is sent as a binary frame (JPEG previews).
	BinaryMessage
)

// Message is one broadcast payload.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps raw bytes.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}

// Envelope is the JSON shape of every text message.
type Envelope struct {
	Kind string      `json:"kind"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

// Encode marshals an envelope of the given kind.
func Encode(kind string, v interface{}) (Message, error) {
	data, err := json.Marshal(Envelope{Kind: kind, At: time.Now(), Data: v})
	if err != nil {
		return Message{}, err
	}
	return NewJSONMessage(data), nil
}
