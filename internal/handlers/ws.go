package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hmorita143/eventchat/internal/chat"
	"github.com/hmorita143/eventchat/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxFrame   = 4096
)

// WSHandler upgrades authenticated requests to websocket connections and
// bridges them to the chat hub.
type WSHandler struct {
	hub            *chat.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

func NewWSHandler(hub *chat.Hub, allowedOrigins []string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.Warn("Websocket upgrade failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		return
	}

	session := chat.NewSession(user.ID, user.Username)

	go h.writePump(conn, session)
	h.readPump(r.Context(), conn, session)
}

// readPump decodes client frames and dispatches them to the hub. It owns
// the connection's read side and runs until the client goes away.
func (h *WSHandler) readPump(ctx context.Context, conn *websocket.Conn, session *chat.Session) {
	defer func() {
		h.hub.Disconnect(session)
		conn.Close()
	}()

	conn.SetReadLimit(maxFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("Websocket closed unexpectedly", map[string]interface{}{
					"user_id": session.UserID.String(),
					"error":   err.Error(),
				})
			}
			return
		}

		var ev chat.ClientEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			h.hub.SendError(session, "invalid message format")
			continue
		}

		eventID, err := uuid.Parse(ev.EventID)
		if err != nil {
			h.hub.SendError(session, "invalid event id")
			continue
		}

		switch ev.Type {
		case chat.TypeJoinEventChat:
			h.hub.Join(ctx, session, eventID)
		case chat.TypeSendMessage:
			h.hub.SendMessage(ctx, session, eventID, ev.Message)
		case chat.TypeLeaveRoom:
			h.hub.Leave(ctx, session, eventID)
		default:
			h.hub.SendError(session, "unknown event type")
		}
	}
}

// writePump drains the session's outbound frames onto the wire and keeps
// the connection alive with pings.
func (h *WSHandler) writePump(conn *websocket.Conn, session *chat.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev := <-session.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
