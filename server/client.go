package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval   = 10 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 512
	sendBuffer     = 256
)

// Client is a websocket connection bound to one player.
type Client struct {
	id    string
	conn  *websocket.Conn
	codec Codec
	hub   *Hub
	log   *zap.Logger

	send      chan []byte
	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, codec Codec, hub *Hub, log *zap.Logger) *Client {
	return &Client{
		id:    id,
		conn:  conn,
		codec: codec,
		hub:   hub,
		log:   log.With(zap.String("client", id)),
		send:  make(chan []byte, sendBuffer),
	}
}

// Send queues a frame, dropping it if the client is not keeping up.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close ends the write pump after it drains queued frames.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump feeds intents to the hub until the connection fails.
func (c *Client) readPump() {
	defer func() {
		if err := c.hub.Disconnect(c.id); err != nil {
			c.log.Debug("disconnect after hub stopped", zap.Error(err))
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("unexpected websocket close", zap.Error(err))
			}
			return
		}
		in, err := c.codec.DecodeIntent(message)
		if errors.Is(err, ErrUnknownMessage) {
			c.log.Warn("dropping message", zap.Error(err))
			continue
		}
		if err != nil {
			c.log.Warn("malformed message", zap.Error(err))
			continue
		}
		if err := c.hub.SubmitIntent(c.id, in); err != nil {
			return
		}
	}
}

// writePump sends queued frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(c.codec.MessageType(), frame); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}
