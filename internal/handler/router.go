package handler

import (
	"context"
	"net/http"

	"feedback_portal/internal/middleware"
	"feedback_portal/internal/service"
	"feedback_portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// Services are the dependencies of the HTTP API
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Feedbacks service.FeedbackService
	Admin     service.AdminService
	Ping      func(ctx context.Context) error
}

// NewRouter wires every route of the API onto a new gin engine
func NewRouter(svc Services, jwtUtil *utils.JWTUtil, authMode string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	feedbackHandler := NewFeedbackHandler(svc.Feedbacks)
	adminHandler := NewAdminHandler(svc.Admin, svc.Ping)

	callerMW := middleware.RequireCaller()

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.Identity(jwtUtil, authMode))
	authHandler.RegisterAuthRoutes(apiGroup)
	userHandler.RegisterUserRoutes(apiGroup, callerMW)
	feedbackHandler.RegisterFeedbackRoutes(apiGroup, callerMW)
	adminHandler.RegisterAdminRoutes(apiGroup, callerMW)

	router.GET("/health", adminHandler.Health)

	return router
}

// WithCORS wraps the API for browser clients served from origins
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
}
