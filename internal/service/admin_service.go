package service

import (
	"context"
	"fmt"

	"feedback_portal/internal/model"
	"feedback_portal/internal/policy"
	"feedback_portal/internal/repository"
)

// AdminService serves the moderation dashboard
type AdminService interface {
	Stats(ctx context.Context, callerID string) (*model.Stats, error)
}

type adminService struct {
	userRepo     repository.UserRepository
	feedbackRepo repository.FeedbackRepository
}

func NewAdminService(userRepo repository.UserRepository, feedbackRepo repository.FeedbackRepository) AdminService {
	return &adminService{userRepo: userRepo, feedbackRepo: feedbackRepo}
}

// Stats counts users and feedback by status.
func (s *adminService) Stats(ctx context.Context, callerID string) (*model.Stats, error) {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for stats: %w", err)
	}
	feedbacks, err := s.feedbackRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedbacks for stats: %w", err)
	}

	stats := &model.Stats{TotalUsers: len(users), TotalFeedbacks: len(feedbacks)}
	for _, u := range users {
		if u.IsBlocked() {
			stats.BlockedUsers++
		} else {
			stats.ActiveUsers++
		}
		if u.IsAdmin() {
			stats.AdminUsers++
		}
	}
	for _, f := range feedbacks {
		if f.Status == model.StatusBlocked {
			stats.BlockedFeedbacks++
		} else {
			stats.ActiveFeedbacks++
		}
	}
	return stats, nil
}
