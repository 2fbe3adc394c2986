package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository"
)

type ClubHandler struct {
	clubs   repository.ClubRepository
	books   repository.BookRepository
	members repository.MembershipRepository
	chat    ChatService
	logger  *zap.Logger
}

func NewClubHandler(clubs repository.ClubRepository, books repository.BookRepository, members repository.MembershipRepository, chat ChatService, logger *zap.Logger) *ClubHandler {
	return &ClubHandler{clubs: clubs, books: books, members: members, chat: chat, logger: logger}
}

type createClubRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	BookID      uuid.UUID `json:"bookId" binding:"required"`
}

// Create handles POST /v1/clubs. The creator becomes the first member.
func (h *ClubHandler) Create(c *gin.Context) {
	var req createClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.books.GetByID(c.Request.Context(), req.BookID)
	if err != nil {
		h.logger.Error("failed to check club book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create club"})
		return
	}
	if book == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book not found"})
		return
	}

	club, err := h.clubs.Create(c.Request.Context(), req.Name, req.Description, req.BookID, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to create club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create club"})
		return
	}

	if err := h.chat.JoinClub(c.Request.Context(), club.ID, actorFrom(c)); err != nil {
		h.logger.Error("failed to join creator to club", zap.String("club_id", club.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create club"})
		return
	}

	c.JSON(http.StatusCreated, club)
}

// List handles GET /v1/clubs. ?mine=true narrows to the caller's clubs.
func (h *ClubHandler) List(c *gin.Context) {
	var (
		clubs any
		err   error
	)
	if c.Query("mine") == "true" {
		clubs, err = h.clubs.ListByMember(c.Request.Context(), middleware.GetUserID(c))
	} else {
		clubs, err = h.clubs.List(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("failed to list clubs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clubs"})
		return
	}

	c.JSON(http.StatusOK, clubs)
}

// clubDetail is the GET /v1/clubs/:id response: the club plus its roster,
// which is everything the club page renders.
type clubDetail struct {
	Club    *models.Club        `json:"club"`
	Members []models.ClubMember `json:"members"`
}

// GetByID handles GET /v1/clubs/:id
func (h *ClubHandler) GetByID(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	club, err := h.clubs.GetByID(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("failed to get club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get club"})
		return
	}
	if club == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return
	}

	members, err := h.members.List(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("failed to list members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get club"})
		return
	}

	c.JSON(http.StatusOK, clubDetail{Club: club, Members: members})
}

type updateClubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Update handles PUT /v1/clubs/:id. Creator or admin only.
func (h *ClubHandler) Update(c *gin.Context) {
	club := h.requireClubOwner(c)
	if club == nil {
		return
	}

	var req updateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.clubs.Update(c.Request.Context(), club.ID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to update club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update club"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/clubs/:id. Creator or admin only; members and
// messages cascade away with the club.
func (h *ClubHandler) Delete(c *gin.Context) {
	club := h.requireClubOwner(c)
	if club == nil {
		return
	}

	if err := h.clubs.Delete(c.Request.Context(), club.ID); err != nil {
		h.logger.Error("failed to delete club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete club"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Join handles POST /v1/clubs/:id/join
func (h *ClubHandler) Join(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	if err := h.chat.JoinClub(c.Request.Context(), clubID, actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave handles POST /v1/clubs/:id/leave
func (h *ClubHandler) Leave(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	if err := h.chat.LeaveClub(c.Request.Context(), clubID, actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Members handles GET /v1/clubs/:id/members
func (h *ClubHandler) Members(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	club, err := h.clubs.GetByID(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("failed to get club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}
	if club == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return
	}

	members, err := h.members.List(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("failed to list members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// RemoveMember handles DELETE /v1/clubs/:id/members/:userId. The creator
// can remove anyone but themselves; an admin likewise; a member only
// themselves (same as leaving).
func (h *ClubHandler) RemoveMember(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.chat.RemoveMember(c.Request.Context(), clubID, actorFrom(c), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Online handles GET /v1/clubs/:id/online
func (h *ClubHandler) Online(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	online, err := h.chat.OnlineUsers(c.Request.Context(), clubID, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"online": online})
}

// requireClubOwner loads the club and enforces that the caller created it
// or is an admin. Responds and returns nil on any failure.
func (h *ClubHandler) requireClubOwner(c *gin.Context) *models.Club {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return nil
	}

	club, err := h.clubs.GetByID(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("failed to get club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get club"})
		return nil
	}
	if club == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return nil
	}
	if club.CreatorID != middleware.GetUserID(c) && !middleware.GetIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator or an admin may change this club"})
		return nil
	}
	return club
}
