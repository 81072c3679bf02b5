package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback_portal/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// maxReplaceAttempts bounds the optimistic retry loop of the Mongo updates.
const maxReplaceAttempts = 3

var insertionOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// versionFilter matches a document only while it still carries the updatedAt it was read with.
func versionFilter(id string, seen time.Time) bson.M {
	return bson.M{"_id": id, "updatedAt": seen}
}

type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a UserRepository over the "users" collection
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{collection: db.Collection("users")}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLoginTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"login": login})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Update replaces the document only if nobody touched it since it was read,
// retrying a few times on contention.
func (r *mongoUserRepository) Update(ctx context.Context, id string, fn func(u *model.User) error) (*model.User, error) {
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		user, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		seen := user.UpdatedAt
		if err := fn(user); err != nil {
			return nil, err
		}
		res, err := r.collection.ReplaceOne(ctx, versionFilter(id, seen), user)
		if err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if res.MatchedCount == 1 {
			return user, nil
		}
	}
	return nil, fmt.Errorf("failed to update user %s: concurrent modification", id)
}

// Delete removes the document only if it is unchanged since check approved it.
func (r *mongoUserRepository) Delete(ctx context.Context, id string, check func(u *model.User) error) (*model.User, error) {
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		user, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		if check != nil {
			if err := check(user); err != nil {
				return nil, err
			}
		}
		res, err := r.collection.DeleteOne(ctx, versionFilter(id, user.UpdatedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to delete user: %w", err)
		}
		if res.DeletedCount == 1 {
			return user, nil
		}
	}
	return nil, fmt.Errorf("failed to delete user %s: concurrent modification", id)
}

// EnsureIndexes creates the unique login index
func (r *mongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
