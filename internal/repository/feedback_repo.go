package repository

import (
	"context"

	"feedback_portal/internal/model"
	"feedback_portal/internal/store"
)

type fileFeedbackRepository struct {
	store *store.FileStore
}

// NewFeedbackRepository creates a FeedbackRepository over the JSON document store
func NewFeedbackRepository(s *store.FileStore) FeedbackRepository {
	return &fileFeedbackRepository{store: s}
}

func (r *fileFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.store.Update(ctx, func(doc *store.Document) error {
		doc.Feedbacks = append(doc.Feedbacks, *feedback)
		return nil
	})
}

func (r *fileFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var found *model.Feedback
	err := r.store.View(ctx, func(doc *store.Document) error {
		if i := indexOfFeedback(doc.Feedbacks, id); i >= 0 {
			f := doc.Feedbacks[i]
			found = &f
		}
		return nil
	})
	return found, err
}

func (r *fileFeedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Feedbacks, nil
}

func (r *fileFeedbackRepository) Update(ctx context.Context, id string, fn func(f *model.Feedback) error) (*model.Feedback, error) {
	var updated *model.Feedback
	err := r.store.Update(ctx, func(doc *store.Document) error {
		i := indexOfFeedback(doc.Feedbacks, id)
		if i < 0 {
			return ErrNotFound
		}
		f := doc.Feedbacks[i]
		if err := fn(&f); err != nil {
			return err
		}
		doc.Feedbacks[i] = f
		updated = &f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *fileFeedbackRepository) Delete(ctx context.Context, id string, check func(f *model.Feedback) error) (*model.Feedback, error) {
	var deleted *model.Feedback
	err := r.store.Update(ctx, func(doc *store.Document) error {
		i := indexOfFeedback(doc.Feedbacks, id)
		if i < 0 {
			return ErrNotFound
		}
		f := doc.Feedbacks[i]
		if check != nil {
			if err := check(&f); err != nil {
				return err
			}
		}
		doc.Feedbacks = append(doc.Feedbacks[:i], doc.Feedbacks[i+1:]...)
		deleted = &f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func indexOfFeedback(feedbacks []model.Feedback, id string) int {
	for i := range feedbacks {
		if feedbacks[i].ID == id {
			return i
		}
	}
	return -1
}
