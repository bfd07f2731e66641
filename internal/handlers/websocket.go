package handlers

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mossy-p/meeting-signaling/internal/meeting"
	"github.com/mossy-p/meeting-signaling/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // SDP offers with many candidates
)

// Client is one signaling socket. It implements meeting.Peer.
type Client struct {
	id    string
	conn  *websocket.Conn
	codec models.Codec

	// send is never closed; done tells both pumps and Deliver to stop.
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	logger zerolog.Logger
}

var _ meeting.Peer = (*Client)(nil)

func newClient(id string, conn *websocket.Conn, codec models.Codec, buffer int, logger zerolog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		codec:  codec,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
		logger: logger.With().Str("socketId", id).Str("codec", codec.Name()).Logger(),
	}
}

func (c *Client) Handle() string { return c.id }

// Deliver encodes f and queues it without blocking.
func (c *Client) Deliver(f models.Frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	data, err := c.codec.Encode(f)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(f.Event)).Msg("failed to encode frame")
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn().Str("event", string(f.Event)).Msg("send buffer full, dropping frame")
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// HandleSignaling upgrades the request and wires the socket into the hub.
// The client picks the wire codec through the subprotocol header.
func (h *Handler) HandleSignaling(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := newClient(uuid.NewString(), conn, models.CodecByName(conn.Subprotocol()), h.sendBuffer, h.logger)
	if err := h.hub.Register(client); err != nil {
		client.logger.Error().Err(err).Msg("hub refused connection")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "shutting down"),
			time.Now().Add(writeWait))
		client.close()
		return
	}

	client.logger.Debug().Str("remote", c.ClientIP()).Msg("socket opened")

	go client.writePump()
	go client.readPump(h.hub)
}

func (c *Client) readPump(hub *meeting.Hub) {
	defer func() {
		hub.Unregister(c.id)
		c.close()
		c.logger.Debug().Msg("socket closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("websocket error")
			}
			return
		}

		event, data, err := c.codec.Decode(message)
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to parse frame")
			continue
		}
		payload, err := models.DecodePayload(c.codec, event, data)
		if err != nil {
			c.logger.Warn().Err(err).Str("event", string(event)).Msg("failed to parse payload")
			continue
		}

		if err := hub.Dispatch(c.id, event, payload); errors.Is(err, meeting.ErrStopped) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	messageType := websocket.TextMessage
	if c.codec.Binary() {
		messageType = websocket.BinaryMessage
	}

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(messageType, message); err != nil {
				c.logger.Debug().Err(err).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
