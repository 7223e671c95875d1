package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to game connections.
type Handler struct {
	hub      *Hub
	codec    Codec
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, codec Codec, log *zap.Logger) *Handler {
	return &Handler{
		hub:   hub,
		codec: codec,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are checked by the CORS layer in front of the router.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}

	id := uuid.NewString()
	c := newClient(id, conn, h.codec, h.hub, h.log)
	if err := h.hub.Connect(id, c); err != nil {
		h.log.Warn("rejecting connection", zap.Error(err))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server restarting"))
		conn.Close()
		return
	}
	h.log.Info("client connected", zap.String("client", id), zap.String("remote", conn.RemoteAddr().String()))

	go c.writePump()
	go c.readPump()
}
