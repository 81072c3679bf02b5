package handler

import (
	"net/http"

	"feedback_portal/internal/model"
	"feedback_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// authResponse is a user rendered together with a session token
type authResponse struct {
	*model.User
	Token string `json:"token,omitempty"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, "registration", err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/users")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
