package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/realtime"
)

// Each inbound frame gets its own deadline so one slow query cannot stall
// the read loop forever.
const frameTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API sits behind the platform's CORS layer; the socket accepts
	// any origin and relies on token auth.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientFrame is what a browser sends over the socket: an operation name
// plus the fields that operation needs. ID is the message id for edits and
// deletes.
type clientFrame struct {
	Type   string    `json:"type"`
	ClubID uuid.UUID `json:"clubId"`
	ID     int64     `json:"id,omitempty"`
	Text   string    `json:"text,omitempty"`
}

type errorFrame struct {
	Type   string    `json:"type"`
	ClubID uuid.UUID `json:"clubId"`
	Error  string    `json:"error"`
}

type SocketHandler struct {
	chat   ChatService
	logger *zap.Logger
}

func NewSocketHandler(chat ChatService, logger *zap.Logger) *SocketHandler {
	return &SocketHandler{chat: chat, logger: logger}
}

// Handle upgrades GET /v1/ws and runs the frame loop until the client
// disconnects. One socket serves all of a user's clubs: the client sends
// join-club per room it wants events for, then send-message, edit-message,
// and delete-message as it chats. Results come back through the room
// broadcast; only failures produce a direct error frame.
func (h *SocketHandler) Handle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	actor := actorFrom(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := realtime.NewConnection(ws, userID)
	go conn.WritePump()
	conn.SetupRead()

	// Rooms this socket subscribed to, so disconnect can unwind presence.
	joined := make(map[uuid.UUID]struct{})
	defer func() {
		for clubID := range joined {
			h.chat.UnsubscribeClub(conn, clubID)
		}
		conn.Close()
	}()

	for {
		payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				h.logger.Debug("websocket read ended",
					zap.String("user_id", userID.String()),
					zap.Error(err),
				)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			h.sendError(conn, uuid.Nil, "invalid frame")
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), frameTimeout)
		switch frame.Type {
		case "join-club":
			// Re-joining a room this socket already holds would double
			// count its presence, so it is a no-op.
			if _, ok := joined[frame.ClubID]; ok {
				break
			}
			if err := h.chat.SubscribeClub(ctx, conn, frame.ClubID); err != nil {
				h.sendError(conn, frame.ClubID, fault.UserMessage(err))
			} else {
				joined[frame.ClubID] = struct{}{}
			}

		case "leave-club":
			if _, ok := joined[frame.ClubID]; ok {
				h.chat.UnsubscribeClub(conn, frame.ClubID)
				delete(joined, frame.ClubID)
			}

		case "send-message":
			// The new message reaches this client through the room
			// broadcast, same as everyone else.
			if _, err := h.chat.SendMessage(ctx, frame.ClubID, actor, frame.Text); err != nil {
				h.sendError(conn, frame.ClubID, fault.UserMessage(err))
			}

		case "edit-message":
			if _, err := h.chat.EditMessage(ctx, frame.ID, actor, frame.Text); err != nil {
				h.sendError(conn, frame.ClubID, fault.UserMessage(err))
			}

		case "delete-message":
			if _, err := h.chat.DeleteMessage(ctx, frame.ID, actor); err != nil {
				h.sendError(conn, frame.ClubID, fault.UserMessage(err))
			}

		default:
			h.sendError(conn, frame.ClubID, "unknown frame type")
		}
		cancel()
	}
}

func (h *SocketHandler) sendError(conn *realtime.Connection, clubID uuid.UUID, msg string) {
	payload, err := json.Marshal(errorFrame{Type: "error", ClubID: clubID, Error: msg})
	if err != nil {
		return
	}
	conn.Send(payload)
}
