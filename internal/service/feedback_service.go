package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"time"

	"feedback_portal/internal/model"
	"feedback_portal/internal/notify"
	"feedback_portal/internal/policy"
	"feedback_portal/internal/query"
	"feedback_portal/internal/repository"
	"feedback_portal/internal/utils"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

const notifyTimeout = 10 * time.Second

// FeedbackService defines operations for feedback entries
type FeedbackService interface {
	Create(ctx context.Context, callerID string, req model.CreateFeedbackRequest) (*model.Feedback, error)
	ListAll(ctx context.Context) ([]model.Feedback, error)
	List(ctx context.Context, params query.Params) (*query.Page[model.Feedback], error)
	Update(ctx context.Context, callerID, id string, req model.UpdateFeedbackRequest) (*model.Feedback, error)
	Delete(ctx context.Context, callerID, id string) (*model.Feedback, error)

	// Admin methods
	ExportCSV(ctx context.Context, callerID string) (*bytes.Buffer, error)
}

type feedbackService struct {
	repo     repository.FeedbackRepository
	userRepo repository.UserRepository
	notifier notify.Notifier
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(repo repository.FeedbackRepository, userRepo repository.UserRepository, notifier notify.Notifier) FeedbackService {
	return &feedbackService{repo: repo, userRepo: userRepo, notifier: notifier}
}

// Create stores a new entry. callerID may be empty for anonymous visitors;
// a named caller must still exist and not be blocked.
func (s *feedbackService) Create(ctx context.Context, callerID string, req model.CreateFeedbackRequest) (*model.Feedback, error) {
	if callerID != "" {
		if _, err := policy.ResolveCaller(ctx, s.userRepo, callerID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	feedback := &model.Feedback{
		ID:        utils.NewID(),
		Name:      req.Name,
		Text:      req.Text,
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if callerID != "" {
		feedback.UserID = &callerID
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	if s.notifier != nil {
		message := notify.FeedbackMessage(feedback)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.Publish(ctx, message); err != nil {
				log.Printf("Error publishing feedback notification: %v", err)
			}
		}()
	}

	return feedback, nil
}

func (s *feedbackService) ListAll(ctx context.Context) ([]model.Feedback, error) {
	feedbacks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedbacks: %w", err)
	}
	return feedbacks, nil
}

func (s *feedbackService) List(ctx context.Context, params query.Params) (*query.Page[model.Feedback], error) {
	feedbacks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedbacks: %w", err)
	}
	page := query.Apply(feedbacks, params)
	return &page, nil
}

// Update edits the author's own entry; admins may edit any entry and its status.
func (s *feedbackService) Update(ctx context.Context, callerID, id string, req model.UpdateFeedbackRequest) (*model.Feedback, error) {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return nil, err
	}

	policy.RestrictFeedbackUpdate(caller, &req)
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	feedback, err := s.repo.Update(ctx, id, func(f *model.Feedback) error {
		if err := policy.CanModifyFeedback(caller, f); err != nil {
			return err
		}
		if req.Name != nil {
			f.Name = *req.Name
		}
		if req.Text != nil {
			f.Text = *req.Text
		}
		if req.Status != nil {
			f.Status = *req.Status
		}
		f.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return feedback, nil
}

func (s *feedbackService) Delete(ctx context.Context, callerID, id string) (*model.Feedback, error) {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return nil, err
	}

	feedback, err := s.repo.Delete(ctx, id, func(f *model.Feedback) error {
		return policy.CanModifyFeedback(caller, f)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return feedback, nil
}

// ExportCSV renders every feedback entry as CSV; admin only.
func (s *feedbackService) ExportCSV(ctx context.Context, callerID string) (*bytes.Buffer, error) {
	caller, err := policy.ResolveCaller(ctx, s.userRepo, callerID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	feedbacks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedbacks for CSV export: %w", err)
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "Name", "Text", "UserID", "Status", "CreatedAt", "UpdatedAt"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range feedbacks {
		var userID string
		if f.UserID != nil {
			userID = *f.UserID
		}
		row := []string{
			f.ID,
			f.Name,
			f.Text,
			userID,
			f.Status,
			f.CreatedAt.Format(time.RFC3339),
			f.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return buffer, nil
}
