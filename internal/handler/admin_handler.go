package handler

import (
	"context"
	"net/http"

	"feedback_portal/internal/middleware"
	"feedback_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the moderation dashboard and the health check
type AdminHandler struct {
	service service.AdminService
	ping    func(ctx context.Context) error
}

func NewAdminHandler(s service.AdminService, ping func(ctx context.Context) error) *AdminHandler {
	return &AdminHandler{service: s, ping: ping}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeError(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health reports whether the storage can be read.
func (h *AdminHandler) Health(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, callerMW gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(callerMW)
	{
		admin.POST("/stats", h.Stats)
	}
}
