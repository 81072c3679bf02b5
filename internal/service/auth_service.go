package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"feedback_portal/internal/model"
	"feedback_portal/internal/repository"
	"feedback_portal/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
)

const seedAdminName = "Administrator"

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, login, password string) (*model.User, string, error)
	// SeedAdmin creates the bootstrap admin when no user exists yet.
	SeedAdmin(ctx context.Context, login, password string) (bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new user account. The role is always user.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	existingUser, err := s.userRepo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        utils.NewID(),
		Login:     req.Login,
		Password:  hashedPassword,
		Name:      req.Name,
		Email:     req.Email,
		Role:      model.RoleUser,
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrLoginTaken) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("ERROR: User %s (ID: %s) created, but failed to generate token: %v", user.Login, user.ID, err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token. Blocked accounts are
// rejected only after the credentials check out.
func (s *authService) Login(ctx context.Context, login, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by login: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	if user.IsBlocked() {
		return nil, "", ErrUserBlocked
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (s *authService) SeedAdmin(ctx context.Context, login, password string) (bool, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) > 0 {
		return false, nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := &model.User{
		ID:        utils.NewID(),
		Login:     login,
		Password:  hashedPassword,
		Name:      seedAdminName,
		Email:     "admin@example.com",
		Role:      model.RoleAdmin,
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrLoginTaken) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("INFO: Seeded admin account %q", login)
	return true, nil
}
