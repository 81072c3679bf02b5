package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback_portal/internal/model"
	"feedback_portal/internal/policy"
	"feedback_portal/internal/query"
	"feedback_portal/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidRole   = errors.New("role must be one of: admin, user")
	ErrInvalidStatus = errors.New("status must be one of: active, blocked")
)

// UserService covers the account management operations
type UserService interface {
	RequireAdmin(ctx context.Context, callerID string) error
	List(ctx context.Context, callerID string, params query.Params) (*query.Page[model.User], error)
	Get(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, callerID, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, callerID, id string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// RequireAdmin fails unless callerID names an active admin account.
func (s *userService) RequireAdmin(ctx context.Context, callerID string) error {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return err
	}
	return policy.RequireAdmin(caller)
}

// List returns one page of users; admin only.
func (s *userService) List(ctx context.Context, callerID string, params query.Params) (*query.Page[model.User], error) {
	if err := s.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	page := query.Apply(users, params)
	return &page, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies a partial update. Role and status are ignored unless the caller is an admin.
func (s *userService) Update(ctx context.Context, callerID, id string, req model.UpdateUserRequest) (*model.User, error) {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return nil, err
	}

	policy.RestrictUserUpdate(caller, &req)
	if req.Role != nil && !model.ValidRole(*req.Role) {
		return nil, ErrInvalidRole
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.Update(ctx, id, func(u *model.User) error {
		if err := policy.CanEditUser(caller, u); err != nil {
			return err
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.Status != nil {
			u.Status = *req.Status
		}
		u.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes another user's account; admin only.
func (s *userService) Delete(ctx context.Context, callerID, id string) (*model.User, error) {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return nil, err
	}
	if caller.ID == id {
		return nil, policy.ErrSelfDelete
	}
	if err := policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Delete(ctx, id, func(u *model.User) error {
		return policy.CanDeleteUser(caller, u)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
