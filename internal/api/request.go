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

type RequestHandler struct {
	requests repository.RequestRepository
	logger   *zap.Logger
}

func NewRequestHandler(requests repository.RequestRepository, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, logger: logger}
}

type createRequestRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author"`
	Note   string `json:"note"`
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requests.Create(c.Request.Context(), middleware.GetUserID(c), req.Title, req.Author, req.Note)
	if err != nil {
		h.logger.Error("failed to create book request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Mine handles GET /v1/requests, the caller's own requests.
func (h *RequestHandler) Mine(c *gin.Context) {
	requests, err := h.requests.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to list book requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// List handles GET /v1/admin/requests?status=pending
func (h *RequestHandler) List(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestDenied:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	requests, err := h.requests.List(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("failed to list book requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

type resolveRequestRequest struct {
	Status string `json:"status" binding:"required"`
}

// Resolve handles POST /v1/admin/requests/:id/resolve
func (h *RequestHandler) Resolve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req resolveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.RequestApproved && req.Status != models.RequestDenied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or denied"})
		return
	}

	request, err := h.requests.Resolve(c.Request.Context(), requestID, req.Status)
	if err != nil {
		h.logger.Error("failed to resolve book request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve request"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}

	c.JSON(http.StatusOK, request)
}
