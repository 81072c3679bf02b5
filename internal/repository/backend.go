package repository

import (
	"context"
	"fmt"
	"log"

	"feedback_portal/internal/config"
	"feedback_portal/internal/store"
)

// Backend bundles the repositories of one storage driver
type Backend struct {
	Users     UserRepository
	Feedbacks FeedbackRepository
	// Ping reports whether the underlying storage is reachable.
	Ping  func(ctx context.Context) error
	Close func()
}

// NewFileBackend serves both repositories from one JSON document
func NewFileBackend(s *store.FileStore) *Backend {
	return &Backend{
		Users:     NewUserRepository(s),
		Feedbacks: NewFeedbackRepository(s),
		Ping: func(ctx context.Context) error {
			_, err := s.Load(ctx)
			return err
		},
		Close: func() {},
	}
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// ensureIndexes creates the indexes of every repository that declares some.
// A missing unique index would let duplicate logins through, so failures are fatal.
func ensureIndexes(ctx context.Context, repos ...any) error {
	for _, repo := range repos {
		ix, ok := repo.(indexer)
		if !ok {
			continue
		}
		if err := ix.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}
	return nil
}

// Open connects to the storage selected by cfg.StoreDriver and prepares its schema
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverFile:
		s := store.NewFileStore(cfg.DBPath)
		if err := s.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize database file: %w", err)
		}
		log.Printf("Using JSON document store at %s", cfg.DBPath)
		return NewFileBackend(s), nil

	case config.DriverPostgres:
		pool, err := config.ConnectDB(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := config.AutoMigrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Users:     NewPgUserRepository(pool),
			Feedbacks: NewPgFeedbackRepository(pool),
			Ping:      pool.Ping,
			Close:     pool.Close,
		}, nil

	case config.DriverMongo:
		client, err := config.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.DBName)
		users := NewMongoUserRepository(db)
		feedbacks := NewMongoFeedbackRepository(db)
		if err := ensureIndexes(ctx, users, feedbacks); err != nil {
			if derr := client.Disconnect(context.Background()); derr != nil {
				log.Printf("Error disconnecting from MongoDB: %v", derr)
			}
			return nil, err
		}
		return &Backend{
			Users:     users,
			Feedbacks: feedbacks,
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			Close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Printf("Error disconnecting from MongoDB: %v", err)
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
