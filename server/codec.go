package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"alienarena-server/game"
)

// MessageIntent tags a control intent sent by a client.
const MessageIntent = 0

var ErrUnknownMessage = errors.New("unknown message type")

// Codec frames snapshots and intents for one wire format.
type Codec interface {
	Name() string
	// MessageType is the websocket frame type the codec writes.
	MessageType() int
	EncodeSnapshot(s game.Snapshot) ([]byte, error)
	DecodeIntent(data []byte) (game.Intent, error)
}

// intentMessage is the inbound envelope. A missing type is treated as unknown.
type intentMessage struct {
	Type         *int `json:"t" msgpack:"t"`
	Forward      bool `json:"F" msgpack:"F"`
	Back         bool `json:"B" msgpack:"B"`
	Left         bool `json:"L" msgpack:"L"`
	Right        bool `json:"R" msgpack:"R"`
	Attack       bool `json:"A" msgpack:"A"`
	Weapon       int  `json:"w" msgpack:"w"`
	WeaponChange int  `json:"wC" msgpack:"wC"`
}

type codec struct {
	name        string
	messageType int
	marshal     func(any) ([]byte, error)
	unmarshal   func([]byte, any) error
}

var (
	// JSON writes text frames.
	JSON Codec = codec{name: "json", messageType: websocket.TextMessage, marshal: json.Marshal, unmarshal: json.Unmarshal}
	// Msgpack writes binary frames.
	Msgpack Codec = codec{name: "msgpack", messageType: websocket.BinaryMessage, marshal: msgpack.Marshal, unmarshal: msgpack.Unmarshal}
)

// CodecFor returns the codec registered under name.
func CodecFor(name string) (Codec, error) {
	switch name {
	case JSON.Name():
		return JSON, nil
	case Msgpack.Name():
		return Msgpack, nil
	}
	return nil, fmt.Errorf("unsupported wire format %q", name)
}

func (c codec) Name() string     { return c.name }
func (c codec) MessageType() int { return c.messageType }

func (c codec) EncodeSnapshot(s game.Snapshot) ([]byte, error) {
	data, err := c.marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode %s snapshot: %w", c.name, err)
	}
	return data, nil
}

func (c codec) DecodeIntent(data []byte) (game.Intent, error) {
	var m intentMessage
	if err := c.unmarshal(data, &m); err != nil {
		return game.Intent{}, fmt.Errorf("decode %s message: %w", c.name, err)
	}
	if m.Type == nil {
		return game.Intent{}, fmt.Errorf("%w: missing", ErrUnknownMessage)
	}
	if *m.Type != MessageIntent {
		return game.Intent{}, fmt.Errorf("%w: %d", ErrUnknownMessage, *m.Type)
	}
	return game.Intent{
		Forward:      m.Forward,
		Back:         m.Back,
		Left:         m.Left,
		Right:        m.Right,
		Attack:       m.Attack,
		Weapon:       m.Weapon,
		WeaponChange: m.WeaponChange,
	}, nil
}
