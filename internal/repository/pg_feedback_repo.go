package repository

import (
	"context"
	"errors"
	"fmt"

	"feedback_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

const feedbackColumns = `id, name, text, user_id, status, created_at, updated_at`

type pgFeedbackRepository struct {
	db DB
}

// NewPgFeedbackRepository creates a FeedbackRepository backed by PostgreSQL
func NewPgFeedbackRepository(db DB) FeedbackRepository {
	return &pgFeedbackRepository{db: db}
}

func scanFeedback(row pgx.Row) (*model.Feedback, error) {
	f := &model.Feedback{}
	err := row.Scan(&f.ID, &f.Name, &f.Text, &f.UserID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *pgFeedbackRepository) Create(ctx context.Context, f *model.Feedback) error {
	sql := `INSERT INTO feedbacks (` + feedbackColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.Exec(ctx, sql, f.ID, f.Name, f.Text, f.UserID, f.Status, f.CreatedAt, f.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *pgFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	f, err := scanFeedback(r.db.QueryRow(ctx, `SELECT `+feedbackColumns+` FROM feedbacks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find feedback by ID: %w", err)
	}
	return f, nil
}

func (r *pgFeedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	rows, err := r.db.Query(ctx, `SELECT `+feedbackColumns+` FROM feedbacks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedbacks: %w", err)
	}
	defer rows.Close()

	feedbacks := []model.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		feedbacks = append(feedbacks, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return feedbacks, nil
}

func (r *pgFeedbackRepository) Update(ctx context.Context, id string, fn func(f *model.Feedback) error) (*model.Feedback, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin feedback update: %w", err)
	}

	f, err := lockFeedback(ctx, tx, id)
	if err == nil {
		err = fn(f)
	}
	if err == nil {
		_, err = tx.Exec(ctx, `UPDATE feedbacks SET name = $1, text = $2, status = $3, updated_at = $4 WHERE id = $5`,
			f.Name, f.Text, f.Status, f.UpdatedAt, f.ID)
		if err != nil {
			err = fmt.Errorf("failed to update feedback: %w", err)
		}
	}
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit feedback update: %w", err)
	}
	return f, nil
}

func (r *pgFeedbackRepository) Delete(ctx context.Context, id string, check func(f *model.Feedback) error) (*model.Feedback, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin feedback delete: %w", err)
	}

	f, err := lockFeedback(ctx, tx, id)
	if err == nil && check != nil {
		err = check(f)
	}
	if err == nil {
		if _, err = tx.Exec(ctx, `DELETE FROM feedbacks WHERE id = $1`, id); err != nil {
			err = fmt.Errorf("failed to delete feedback: %w", err)
		}
	}
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit feedback delete: %w", err)
	}
	return f, nil
}

func lockFeedback(ctx context.Context, tx pgx.Tx, id string) (*model.Feedback, error) {
	f, err := scanFeedback(tx.QueryRow(ctx, `SELECT `+feedbackColumns+` FROM feedbacks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock feedback: %w", err)
	}
	return f, nil
}
