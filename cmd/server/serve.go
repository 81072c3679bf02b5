package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback_portal/internal/config"
	"feedback_portal/internal/handler"
	"feedback_portal/internal/notify"
	"feedback_portal/internal/repository"
	"feedback_portal/internal/service"
	"feedback_portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

// app holds everything built from the configuration
type app struct {
	cfg     *config.Config
	backend *repository.Backend
	jwtUtil *utils.JWTUtil
	auth    service.AuthService
}

// setup loads the configuration, opens storage and seeds the admin account.
func setup(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logCloser := config.SetupLogging(cfg)

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)
	authService := service.NewAuthService(backend.Users, jwtUtil)

	if cfg.SeedAdmin {
		created, err := authService.SeedAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword)
		if err != nil {
			backend.Close()
			logCloser.Close()
			return nil, nil, fmt.Errorf("failed to seed admin: %w", err)
		}
		if created {
			log.Printf("Default admin credentials: %s / %s", cfg.AdminLogin, cfg.AdminPassword)
		}
	}

	cleanup := func() {
		backend.Close()
		logCloser.Close()
	}
	return &app{cfg: cfg, backend: backend, jwtUtil: jwtUtil, auth: authService}, cleanup, nil
}

func serve(cmd *cobra.Command, args []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if a.cfg.AuthMode == config.AuthModeAsserted {
		log.Println("WARNING: AUTH_MODE=asserted trusts the userId field of request bodies")
	}

	gin.SetMode(gin.ReleaseMode)
	notifier := notify.New(a.cfg.ResendAPIKey, a.cfg.FromEmail, a.cfg.NotifyEmail)
	router := handler.NewRouter(handler.Services{
		Auth:      a.auth,
		Users:     service.NewUserService(a.backend.Users),
		Feedbacks: service.NewFeedbackService(a.backend.Feedbacks, a.backend.Users, notifier),
		Admin:     service.NewAdminService(a.backend.Users, a.backend.Feedbacks),
		Ping:      a.backend.Ping,
	}, a.jwtUtil, a.cfg.AuthMode)

	srv := &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: handler.WithCORS(router, a.cfg.CORSOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on http://localhost:%s", a.cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}
