package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire framing for every message in both directions.
type Envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

var inboundFactories = map[string]func() Message{
	"login":        func() Message { return &LoginRequest{} },
	"move":         func() Message { return &MoveRequest{} },
	"single_click": func() Message { return &SingleClick{} },
	"double_click": func() Message { return &DoubleClick{} },
	"attack":       func() Message { return &Attack{} },
	"speech":       func() Message { return &Speech{} },
	"drag":         func() Message { return &DragRequest{} },
	"drop":         func() Message { return &DropRequest{} },
	"equip":        func() Message { return &EquipRequest{} },
	"status":       func() Message { return &StatusRequest{} },
	"action":       func() Message { return &Action{} },
	"shop":         func() Message { return &ShopAction{} },
}

// DecodeInbound parses a client frame into its typed message.
func DecodeInbound(raw []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	factory, ok := inboundFactories[env.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown message kind %q", env.Kind)
	}
	msg := factory()
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, msg); err != nil {
			return nil, fmt.Errorf("decoding %s message: %w", env.Kind, err)
		}
	}
	return msg, nil
}

// EncodeMessage wraps a message in its envelope for the wire.
func EncodeMessage(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s message: %w", msg.Kind(), err)
	}
	return json.Marshal(Envelope{Kind: msg.Kind(), Data: data})
}
