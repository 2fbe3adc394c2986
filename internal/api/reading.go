package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository"
)

// ReadingHandler covers per-user reading state: star ratings and the
// remembered page in a book's PDF.
type ReadingHandler struct {
	ratings   repository.RatingRepository
	bookmarks repository.BookmarkRepository
	logger    *zap.Logger
}

func NewReadingHandler(ratings repository.RatingRepository, bookmarks repository.BookmarkRepository, logger *zap.Logger) *ReadingHandler {
	return &ReadingHandler{ratings: ratings, bookmarks: bookmarks, logger: logger}
}

type rateRequest struct {
	Stars int `json:"stars" binding:"required,min=1,max=5"`
}

// Rate handles PUT /v1/books/:id/rating. Re-rating overwrites.
func (h *ReadingHandler) Rate(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stars must be between 1 and 5"})
		return
	}

	if err := h.ratings.Rate(c.Request.Context(), bookID, middleware.GetUserID(c), req.Stars); err != nil {
		h.logger.Error("failed to save rating", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rating"})
		return
	}

	summary, err := h.ratings.Summary(c.Request.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to get rating summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rating"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetRating handles GET /v1/books/:id/rating. Books nobody has rated
// report a zero average over zero votes rather than 404.
func (h *ReadingHandler) GetRating(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	summary, err := h.ratings.Summary(c.Request.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to get rating summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rating"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

type bookmarkRequest struct {
	Page int `json:"page" binding:"min=1"`
}

// SetBookmark handles PUT /v1/books/:id/bookmark.
func (h *ReadingHandler) SetBookmark(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be at least 1"})
		return
	}

	bookmark, err := h.bookmarks.Upsert(c.Request.Context(), middleware.GetUserID(c), bookID, req.Page)
	if err != nil {
		h.logger.Error("failed to save bookmark", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save bookmark"})
		return
	}

	c.JSON(http.StatusOK, bookmark)
}

// GetBookmark handles GET /v1/books/:id/bookmark.
func (h *ReadingHandler) GetBookmark(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	bookmark, err := h.bookmarks.Get(c.Request.Context(), middleware.GetUserID(c), bookID)
	if err != nil {
		h.logger.Error("failed to get bookmark", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get bookmark"})
		return
	}
	if bookmark == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no bookmark for this book"})
		return
	}

	c.JSON(http.StatusOK, bookmark)
}

// ListBookmarks handles GET /v1/bookmarks.
func (h *ReadingHandler) ListBookmarks(c *gin.Context) {
	bookmarks, err := h.bookmarks.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to list bookmarks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookmarks"})
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}
