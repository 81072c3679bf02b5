package repository

import (
	"context"
	"errors"
	"fmt"

	"feedback_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, login, password, name, email, role, status, created_at, updated_at`

type pgUserRepository struct {
	db DB
}

// NewPgUserRepository creates a UserRepository backed by PostgreSQL
func NewPgUserRepository(db DB) UserRepository {
	return &pgUserRepository{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Login, &u.Password, &u.Name, &u.Email, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user into the database
func (r *pgUserRepository) Create(ctx context.Context, u *model.User) error {
	sql := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, sql, u.ID, u.Login, u.Password, u.Name, u.Email, u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLoginTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID
func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// FindByLogin retrieves a user by login
func (r *pgUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by login: %w", err)
	}
	return u, nil
}

// List returns every user in insertion order
func (r *pgUserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update locks the row, applies fn and writes the mutable columns back
func (r *pgUserRepository) Update(ctx context.Context, id string, fn func(u *model.User) error) (*model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin user update: %w", err)
	}

	u, err := lockUser(ctx, tx, id)
	if err == nil {
		err = fn(u)
	}
	if err == nil {
		_, err = tx.Exec(ctx, `UPDATE users SET name = $1, email = $2, role = $3, status = $4, updated_at = $5 WHERE id = $6`,
			u.Name, u.Email, u.Role, u.Status, u.UpdatedAt, u.ID)
		if err != nil {
			err = fmt.Errorf("failed to update user: %w", err)
		}
	}
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit user update: %w", err)
	}
	return u, nil
}

// Delete locks the row, runs check and removes it
func (r *pgUserRepository) Delete(ctx context.Context, id string, check func(u *model.User) error) (*model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin user delete: %w", err)
	}

	u, err := lockUser(ctx, tx, id)
	if err == nil && check != nil {
		err = check(u)
	}
	if err == nil {
		if _, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			err = fmt.Errorf("failed to delete user: %w", err)
		}
	}
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit user delete: %w", err)
	}
	return u, nil
}

func lockUser(ctx context.Context, tx pgx.Tx, id string) (*model.User, error) {
	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return u, nil
}
