package repository

import (
	"context"
	"testing"
	"time"

	"feedback_portal/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedbackColumnNames = []string{"id", "name", "text", "user_id", "status", "created_at", "updated_at"}

func TestPgFeedbackRepository_CreateAnonymous(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgFeedbackRepository(mock)
	f := testFeedback("f1", nil)

	mock.ExpectExec("INSERT INTO feedbacks").
		WithArgs(f.ID, f.Name, f.Text, f.UserID, f.Status, f.CreatedAt, f.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), f))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgFeedbackRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgFeedbackRepository(mock)
	now := time.Now().UTC()
	owner := "u1"

	rows := pgxmock.NewRows(feedbackColumnNames).
		AddRow("f1", "Anna", "Great course", &owner, model.StatusActive, now, now).
		AddRow("f2", "Guest", "Hello", (*string)(nil), model.StatusBlocked, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM feedbacks ORDER BY created_at, id`).WillReturnRows(rows)

	feedbacks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, feedbacks, 2)
	assert.True(t, feedbacks[0].OwnedBy("u1"))
	assert.Nil(t, feedbacks[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgFeedbackRepository_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgFeedbackRepository(mock)
	now := time.Now().UTC()
	owner := "u1"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM feedbacks WHERE id = \$1 FOR UPDATE`).
		WithArgs("f1").
		WillReturnRows(pgxmock.NewRows(feedbackColumnNames).
			AddRow("f1", "Anna", "Great course", &owner, model.StatusActive, now, now))
	mock.ExpectExec("UPDATE feedbacks SET").
		WithArgs("Anna", "Great course", model.StatusBlocked, pgxmock.AnyArg(), "f1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	f, err := repo.Update(context.Background(), "f1", func(f *model.Feedback) error {
		f.Status = model.StatusBlocked
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, f.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgFeedbackRepository_DeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgFeedbackRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM feedbacks WHERE id = \$1 FOR UPDATE`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err = repo.Delete(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
