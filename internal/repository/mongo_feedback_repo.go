package repository

import (
	"context"
	"errors"
	"fmt"

	"feedback_portal/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a FeedbackRepository over the "feedbacks" collection
func NewMongoFeedbackRepository(db *mongo.Database) FeedbackRepository {
	return &mongoFeedbackRepository{collection: db.Collection("feedbacks")}
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	if _, err := r.collection.InsertOne(ctx, feedback); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *mongoFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	return &feedback, nil
}

func (r *mongoFeedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to query feedbacks: %w", err)
	}
	feedbacks := []model.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode feedbacks: %w", err)
	}
	return feedbacks, nil
}

func (r *mongoFeedbackRepository) Update(ctx context.Context, id string, fn func(f *model.Feedback) error) (*model.Feedback, error) {
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		feedback, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if feedback == nil {
			return nil, ErrNotFound
		}
		seen := feedback.UpdatedAt
		if err := fn(feedback); err != nil {
			return nil, err
		}
		res, err := r.collection.ReplaceOne(ctx, versionFilter(id, seen), feedback)
		if err != nil {
			return nil, fmt.Errorf("failed to update feedback: %w", err)
		}
		if res.MatchedCount == 1 {
			return feedback, nil
		}
	}
	return nil, fmt.Errorf("failed to update feedback %s: concurrent modification", id)
}

func (r *mongoFeedbackRepository) Delete(ctx context.Context, id string, check func(f *model.Feedback) error) (*model.Feedback, error) {
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		feedback, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if feedback == nil {
			return nil, ErrNotFound
		}
		if check != nil {
			if err := check(feedback); err != nil {
				return nil, err
			}
		}
		res, err := r.collection.DeleteOne(ctx, versionFilter(id, feedback.UpdatedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to delete feedback: %w", err)
		}
		if res.DeletedCount == 1 {
			return feedback, nil
		}
	}
	return nil, fmt.Errorf("failed to delete feedback %s: concurrent modification", id)
}

// EnsureIndexes creates the lookup indexes for the feedbacks collection
func (r *mongoFeedbackRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: insertionOrder},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
