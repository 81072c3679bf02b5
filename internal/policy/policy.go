// Package policy decides which caller may read or change which record.
package policy

import (
	"context"
	"errors"
	"fmt"

	"feedback_portal/internal/model"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnknownCaller   = errors.New("caller does not exist")
	ErrCallerBlocked   = errors.New("account is blocked")
	ErrAdminRequired   = errors.New("admin rights required")
	ErrForbidden       = errors.New("access denied")
	ErrSelfDelete      = errors.New("cannot delete your own account")
)

// UserFinder looks up the account behind a caller id
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ResolveCaller loads the caller's account and rejects missing, unknown and blocked callers.
func ResolveCaller(ctx context.Context, users UserFinder, callerID string) (*model.User, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	caller, err := users.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}
	if caller == nil {
		return nil, ErrUnknownCaller
	}
	if caller.IsBlocked() {
		return nil, ErrCallerBlocked
	}
	return caller, nil
}

func RequireAdmin(caller *model.User) error {
	if !caller.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// CanEditUser allows admins and the account owner.
func CanEditUser(caller, target *model.User) error {
	if caller.IsAdmin() || caller.ID == target.ID {
		return nil
	}
	return ErrForbidden
}

// CanDeleteUser forbids self-deletion before checking admin rights.
func CanDeleteUser(caller, target *model.User) error {
	if caller.ID == target.ID {
		return ErrSelfDelete
	}
	return RequireAdmin(caller)
}

// CanModifyFeedback allows admins and the author of the feedback.
func CanModifyFeedback(caller *model.User, f *model.Feedback) error {
	if caller.IsAdmin() || f.OwnedBy(caller.ID) {
		return nil
	}
	return ErrForbidden
}

// RestrictUserUpdate drops the fields only an admin may change.
func RestrictUserUpdate(caller *model.User, req *model.UpdateUserRequest) {
	if caller.IsAdmin() {
		return
	}
	req.Role = nil
	req.Status = nil
}

// RestrictFeedbackUpdate drops the moderation status for non-admins.
func RestrictFeedbackUpdate(caller *model.User, req *model.UpdateFeedbackRequest) {
	if caller.IsAdmin() {
		return
	}
	req.Status = nil
}
