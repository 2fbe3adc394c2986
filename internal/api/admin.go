package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/middleware"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository"
)

// AdminHandler covers platform administration endpoints. Routes mount
// behind middleware.AdminOnly, so handlers only do their own checks.
type AdminHandler struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewAdminHandler(users repository.UserRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, logger: logger}
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

type setAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}

// SetAdmin handles PUT /v1/admin/users/:id/admin. Admins cannot strip
// their own flag, so the platform always keeps at least one admin.
func (h *AdminHandler) SetAdmin(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isAdmin is required"})
		return
	}

	if userID == middleware.GetUserID(c) && !*req.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot revoke your own admin access"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.users.SetAdmin(c.Request.Context(), userID, *req.IsAdmin); err != nil {
		h.logger.Error("failed to set admin flag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	user.IsAdmin = *req.IsAdmin
	c.JSON(http.StatusOK, user)
}
