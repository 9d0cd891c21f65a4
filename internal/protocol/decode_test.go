package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/protocol"
)

func TestDecodeLoginRequest(t *testing.T) {
	raw := []byte(`{"kind":"login","data":{"serial":0,"name":"Mira","password":"secret","strength":40,"dexterity":25,"intelligence":15}}`)

	msg, err := protocol.DecodeInbound(raw)
	require.NoError(t, err)

	req, ok := msg.(*protocol.LoginRequest)
	require.True(t, ok)
	assert.Equal(t, "Mira", req.Name)
	assert.Equal(t, "secret", req.Password)
	assert.Equal(t, int64(40), req.Strength)
	assert.Zero(t, req.Serial)
}

func TestDecodeMoveRequest(t *testing.T) {
	raw := []byte(`{"kind":"move","data":{"direction":2,"sequence":7}}`)

	msg, err := protocol.DecodeInbound(raw)
	require.NoError(t, err)

	req, ok := msg.(*protocol.MoveRequest)
	require.True(t, ok)
	assert.Equal(t, geometry.East, req.Direction)
	assert.Equal(t, 7, req.Sequence)
}

func TestDecodeAllKinds(t *testing.T) {
	kinds := []protocol.Message{
		&protocol.LoginRequest{},
		&protocol.MoveRequest{},
		&protocol.SingleClick{},
		&protocol.DoubleClick{},
		&protocol.Attack{},
		&protocol.Speech{},
		&protocol.DragRequest{},
		&protocol.DropRequest{},
		&protocol.EquipRequest{},
		&protocol.StatusRequest{},
		&protocol.Action{},
		&protocol.ShopAction{},
	}
	for _, want := range kinds {
		raw, err := json.Marshal(protocol.Envelope{Kind: want.Kind(), Data: []byte("{}")})
		require.NoError(t, err)

		got, err := protocol.DecodeInbound(raw)
		require.NoError(t, err, "kind %q", want.Kind())
		assert.IsType(t, want, got, "kind %q", want.Kind())
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := protocol.DecodeInbound([]byte(`{"kind":"teleport_home","data":{}}`))
	assert.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := protocol.DecodeInbound([]byte(`not json`))
	assert.Error(t, err)

	_, err = protocol.DecodeInbound([]byte(`{"kind":"speech","data":"not an object"}`))
	assert.Error(t, err)
}

func TestEncodeMessageRoundTrip(t *testing.T) {
	out := &protocol.Text{Mode: protocol.TextModeSysmsg, Color: protocol.ColorSystem, Text: "It is now noon."}

	raw, err := protocol.EncodeMessage(out)
	require.NoError(t, err)

	var env protocol.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "text", env.Kind)

	var body protocol.Text
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, out.Text, body.Text)
	assert.Equal(t, out.Color, body.Color)
}

func TestOutboundKindsAreNotInbound(t *testing.T) {
	// Clients must not be able to inject server-to-client messages.
	raw, err := protocol.EncodeMessage(&protocol.Death{})
	require.NoError(t, err)
	_, err = protocol.DecodeInbound(raw)
	assert.Error(t, err)
}
