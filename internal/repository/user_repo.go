package repository

import (
	"context"

	"feedback_portal/internal/model"
	"feedback_portal/internal/store"
)

type fileUserRepository struct {
	store *store.FileStore
}

// NewUserRepository creates a UserRepository over the JSON document store
func NewUserRepository(s *store.FileStore) UserRepository {
	return &fileUserRepository{store: s}
}

// Create appends the user, rejecting a login that is already registered
func (r *fileUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.store.Update(ctx, func(doc *store.Document) error {
		for _, u := range doc.Users {
			if u.Login == user.Login {
				return ErrLoginTaken
			}
		}
		doc.Users = append(doc.Users, *user)
		return nil
	})
}

func (r *fileUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(ctx, func(u *model.User) bool { return u.ID == id })
}

func (r *fileUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.find(ctx, func(u *model.User) bool { return u.Login == login })
}

func (r *fileUserRepository) find(ctx context.Context, match func(u *model.User) bool) (*model.User, error) {
	var found *model.User
	err := r.store.View(ctx, func(doc *store.Document) error {
		for i := range doc.Users {
			if match(&doc.Users[i]) {
				u := doc.Users[i]
				found = &u
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *fileUserRepository) List(ctx context.Context) ([]model.User, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func (r *fileUserRepository) Update(ctx context.Context, id string, fn func(u *model.User) error) (*model.User, error) {
	var updated *model.User
	err := r.store.Update(ctx, func(doc *store.Document) error {
		i := indexOfUser(doc.Users, id)
		if i < 0 {
			return ErrNotFound
		}
		u := doc.Users[i]
		if err := fn(&u); err != nil {
			return err
		}
		doc.Users[i] = u
		updated = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *fileUserRepository) Delete(ctx context.Context, id string, check func(u *model.User) error) (*model.User, error) {
	var deleted *model.User
	err := r.store.Update(ctx, func(doc *store.Document) error {
		i := indexOfUser(doc.Users, id)
		if i < 0 {
			return ErrNotFound
		}
		u := doc.Users[i]
		if check != nil {
			if err := check(&u); err != nil {
				return err
			}
		}
		doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
		deleted = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func indexOfUser(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
