package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestJSONDecodeSignal(t *testing.T) {
	raw := []byte(`{"event":"offer","data":{"target":"h2","sdp":{"type":"offer","sdp":"v=0"},"senderUserId":"u1","targetUserId":"u2"}}`)

	event, data, err := JSON.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, EventOffer, event)

	payload, err := DecodePayload(JSON, event, data)
	require.NoError(t, err)
	sig, ok := payload.(SignalPayload)
	require.True(t, ok)
	assert.Equal(t, "h2", sig.Target)
	assert.Equal(t, "u1", sig.SenderUserID)
	assert.Equal(t, map[string]any{"type": "offer", "sdp": "v=0"}, sig.SDP)
}

func TestJSONDecodeJoinTeamRoom(t *testing.T) {
	event, data, err := JSON.Decode([]byte(`{"event":"joinTeamRoom","data":"team-1"}`))
	require.NoError(t, err)

	payload, err := DecodePayload(JSON, event, data)
	require.NoError(t, err)
	assert.Equal(t, "team-1", payload)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, _, err := JSON.Decode([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrEmptyEvent)

	_, err = DecodePayload(JSON, "chat message", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = DecodePayload(JSON, EventUserJoined, nil)
	assert.Error(t, err)
}

func TestMediaPayloadWithoutData(t *testing.T) {
	payload, err := DecodePayload(JSON, EventStopSharingScreen, nil)
	require.NoError(t, err)
	assert.Equal(t, MediaPayload{}, payload)
}

func TestMsgpackDecodeUserJoined(t *testing.T) {
	b, err := msgpack.Marshal(map[string]any{
		"event": "userJoined",
		"data": map[string]any{
			"teamId": "team-1",
			"user":   map[string]any{"_id": "u1", "name": "Ada"},
		},
	})
	require.NoError(t, err)

	event, data, err := Msgpack.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, EventUserJoined, event)

	payload, err := DecodePayload(Msgpack, event, data)
	require.NoError(t, err)
	up := payload.(UserPayload)
	assert.Equal(t, "team-1", up.TeamID)
	assert.Equal(t, "u1", UserIdentity(up.User))
	assert.Equal(t, "Ada", DisplayName(up.User))
}

func TestMsgpackEncodeFrame(t *testing.T) {
	b, err := Msgpack.Encode(Frame{Event: EventUserConnected, Data: Peer{SocketID: "h1", UserID: "u1"}})
	require.NoError(t, err)

	var out struct {
		Event string `msgpack:"event"`
		Data  Peer   `msgpack:"data"`
	}
	require.NoError(t, msgpack.Unmarshal(b, &out))
	assert.Equal(t, "user-connected", out.Event)
	assert.Equal(t, Peer{SocketID: "h1", UserID: "u1"}, out.Data)
}

func TestCodecByName(t *testing.T) {
	assert.Equal(t, Msgpack, CodecByName("msgpack"))
	assert.Equal(t, JSON, CodecByName(""))
	assert.Equal(t, []string{"json", "msgpack"}, Subprotocols())
}
