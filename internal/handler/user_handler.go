package handler

import (
	"net/http"

	"feedback_portal/internal/middleware"
	"feedback_portal/internal/model"
	"feedback_portal/internal/query"
	"feedback_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account management requests
type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// List authorizes the caller before looking at the paging options, so a
// non-admin gets 403 whatever the body holds.
func (h *UserHandler) List(c *gin.Context) {
	if err := h.service.RequireAdmin(c.Request.Context(), middleware.CallerID(c)); err != nil {
		writeError(c, "user listing", err)
		return
	}

	var params query.Params
	if err := bindJSON(c, &params); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), middleware.CallerID(c), params)
	if err != nil {
		writeError(c, "user listing", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "user lookup", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.service.Update(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, "user update", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.service.Delete(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		writeError(c, "user deletion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "user": user})
}

// RegisterUserRoutes registers account routes; mutations need a caller.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, callerMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.GET("/:id", h.Get)
		users.POST("/list", callerMW, h.List)
		users.PUT("/:id", callerMW, h.Update)
		users.DELETE("/:id", callerMW, h.Delete)
	}
}
