package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mossy-p/meeting-signaling/internal/models"
)

type inbound struct {
	Event models.Event    `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dial(t *testing.T, srv *httptest.Server, subprotocol string) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{HandshakeTimeout: time.Second}
	if subprotocol != "" {
		dialer.Subprotocols = []string{subprotocol}
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/meetings"
	conn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips frames until ev arrives.
func readUntil(t *testing.T, conn *websocket.Conn, ev models.Event) inbound {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", ev)
		var in inbound
		require.NoError(t, json.Unmarshal(msg, &in))
		if in.Event == ev {
			return in
		}
	}
}

func sendJSON(t *testing.T, conn *websocket.Conn, ev models.Event, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(models.Frame{Event: ev, Data: data}))
}

func socketID(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	var c models.Connected
	require.NoError(t, json.Unmarshal(readUntil(t, conn, models.EventConnected).Data, &c))
	require.NotEmpty(t, c.SocketID)
	return c.SocketID
}

func TestSignalingOverWebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	a := dial(t, srv, "")
	aID := socketID(t, a)
	b := dial(t, srv, "json")
	bID := socketID(t, b)

	sendJSON(t, a, models.EventUserJoined, models.UserPayload{
		TeamID: "team-1",
		User:   map[string]any{"_id": "u1", "name": "Ada"},
	})
	var others []models.Peer
	require.NoError(t, json.Unmarshal(readUntil(t, a, models.EventOtherUsers).Data, &others))
	assert.Empty(t, others)

	sendJSON(t, b, models.EventUserJoined, models.UserPayload{
		TeamID: "team-1",
		User:   map[string]any{"_id": "u2", "name": "Bob"},
	})
	require.NoError(t, json.Unmarshal(readUntil(t, b, models.EventOtherUsers).Data, &others))
	assert.Equal(t, []models.Peer{{SocketID: aID, UserID: "u1"}}, others)

	var joined models.Peer
	require.NoError(t, json.Unmarshal(readUntil(t, a, models.EventUserConnected).Data, &joined))
	assert.Equal(t, models.Peer{SocketID: bID, UserID: "u2"}, joined)

	sendJSON(t, b, models.EventOffer, models.SignalPayload{
		Target: aID,
		SDP:    map[string]any{"type": "offer", "sdp": "v=0"},
	})
	var offer models.RelayedSignal
	require.NoError(t, json.Unmarshal(readUntil(t, a, models.EventOffer).Data, &offer))
	assert.Equal(t, bID, offer.Socket)
	assert.Equal(t, "u2", offer.SenderUserID)
	assert.Equal(t, "u1", offer.TargetUserID)
	assert.Equal(t, map[string]any{"type": "offer", "sdp": "v=0"}, offer.SDP)

	require.NoError(t, b.Close())
	var left models.Peer
	require.NoError(t, json.Unmarshal(readUntil(t, a, models.EventUserDisconnected).Data, &left))
	assert.Equal(t, bID, left.SocketID)
}

func TestSignalingMsgpackSubprotocol(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	conn := dial(t, srv, "msgpack")
	assert.Equal(t, "msgpack", conn.Subprotocol())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)

	var frame struct {
		Event models.Event       `msgpack:"event"`
		Data  msgpack.RawMessage `msgpack:"data"`
	}
	require.NoError(t, msgpack.Unmarshal(msg, &frame))
	require.Equal(t, models.EventConnected, frame.Event)
	var c models.Connected
	require.NoError(t, msgpack.Unmarshal(frame.Data, &c))
	assert.NotEmpty(t, c.SocketID)

	out, err := models.Msgpack.Encode(models.Frame{
		Event: models.EventUserJoined,
		Data:  models.UserPayload{TeamID: "team-1", User: map[string]any{"_id": "u1"}},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, out))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, msgpack.Unmarshal(msg, &frame))
	assert.Equal(t, models.EventOtherUsers, frame.Event)
}
