package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/chat"
	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
	"github.com/Umair-Ahm3d/Club-Lit/internal/realtime"
)

// ChatService is the slice of chat.Service the HTTP and socket handlers
// call. Tests substitute a fake.
type ChatService interface {
	SendMessage(ctx context.Context, clubID uuid.UUID, actor chat.Actor, text string) (*models.Message, error)
	ListMessages(ctx context.Context, clubID uuid.UUID, actor chat.Actor, before int64, limit int) ([]models.Message, error)
	EditMessage(ctx context.Context, id int64, actor chat.Actor, text string) (*models.Message, error)
	DeleteMessage(ctx context.Context, id int64, actor chat.Actor) (*models.Message, error)
	PurgeMessage(ctx context.Context, id int64, actor chat.Actor) error

	JoinClub(ctx context.Context, clubID uuid.UUID, actor chat.Actor) error
	LeaveClub(ctx context.Context, clubID uuid.UUID, actor chat.Actor) error
	RemoveMember(ctx context.Context, clubID uuid.UUID, actor chat.Actor, targetID uuid.UUID) error
	OnlineUsers(ctx context.Context, clubID uuid.UUID, actor chat.Actor) ([]uuid.UUID, error)

	SubscribeClub(ctx context.Context, conn *realtime.Connection, clubID uuid.UUID) error
	UnsubscribeClub(conn *realtime.Connection, clubID uuid.UUID)
}

// actorFrom reads the authenticated caller out of the gin context.
func actorFrom(c *gin.Context) chat.Actor {
	return chat.Actor{ID: middleware.GetUserID(c), IsAdmin: middleware.GetIsAdmin(c)}
}

type ChatHandler struct {
	chat   ChatService
	logger *zap.Logger
}

func NewChatHandler(chat ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// Send handles POST /v1/clubs/:id/messages
func (h *ChatHandler) Send(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), clubID, actorFrom(c), req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// List handles GET /v1/clubs/:id/messages?before=123&limit=50. Messages
// come back oldest first; before pages into older history.
func (h *ChatHandler) List(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	// Unparseable cursors fall back to defaults rather than failing the
	// request; the service clamps the limit.
	before, err := strconv.ParseInt(c.DefaultQuery("before", "0"), 10, 64)
	if err != nil {
		before = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		limit = 0
	}

	msgs, err := h.chat.ListMessages(c.Request.Context(), clubID, actorFrom(c), before, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// Edit handles PUT /v1/messages/:id
func (h *ChatHandler) Edit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chat.EditMessage(c.Request.Context(), id, actorFrom(c), req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// Delete handles DELETE /v1/messages/:id. The response is the tombstone
// the room also received over the socket.
func (h *ChatHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	msg, err := h.chat.DeleteMessage(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// Purge handles DELETE /v1/admin/messages/:id, the hard delete.
func (h *ChatHandler) Purge(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.chat.PurgeMessage(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
