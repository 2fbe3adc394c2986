package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository"
)

type CommentHandler struct {
	comments repository.CommentRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewCommentHandler(comments repository.CommentRepository, users repository.UserRepository, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, users: users, logger: logger}
}

type createCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// Create handles POST /v1/books/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		h.logger.Error("failed to load comment author", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), bookID, userID, user.DisplayName, req.Body)
	if err != nil {
		h.logger.Error("failed to create comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListByBook handles GET /v1/books/:id/comments
func (h *CommentHandler) ListByBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	comments, err := h.comments.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to list comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Delete handles DELETE /v1/comments/:id. Only the author or an admin.
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	comment, err := h.comments.GetByID(c.Request.Context(), commentID)
	if err != nil {
		h.logger.Error("failed to get comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if comment.UserID != middleware.GetUserID(c) && !middleware.GetIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author or an admin may delete this comment"})
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID); err != nil {
		h.logger.Error("failed to delete comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}
