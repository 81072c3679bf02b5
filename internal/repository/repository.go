// Package repository provides user and feedback persistence over the JSON
// document store, PostgreSQL or MongoDB.
package repository

import (
	"context"
	"errors"

	"feedback_portal/internal/model"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrLoginTaken = errors.New("login already taken")
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByID and FindByLogin return nil, nil when no user matches.
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Update loads the user, applies fn and persists the result as one unit.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id string, fn func(u *model.User) error) (*model.User, error)
	// Delete removes the user once check approves it. check may be nil.
	Delete(ctx context.Context, id string, check func(u *model.User) error) (*model.User, error)
}

// FeedbackRepository defines operations for feedback data
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	List(ctx context.Context) ([]model.Feedback, error)
	Update(ctx context.Context, id string, fn func(f *model.Feedback) error) (*model.Feedback, error)
	Delete(ctx context.Context, id string, check func(f *model.Feedback) error) (*model.Feedback, error)
}
