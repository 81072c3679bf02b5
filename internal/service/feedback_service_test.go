package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"sync"
	"testing"
	"time"

	"feedback_portal/internal/model"
	"feedback_portal/internal/policy"
	"feedback_portal/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_CreateAnonymousAndOwned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anna := env.register(t, "anna")

	anon, err := env.feedbacks.Create(ctx, "", model.CreateFeedbackRequest{Name: "Guest", Text: "Hello"})
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)
	assert.Equal(t, model.StatusActive, anon.Status)

	owned, err := env.feedbacks.Create(ctx, anna.ID, model.CreateFeedbackRequest{Name: "Anna", Text: "Great labs"})
	require.NoError(t, err)
	require.NotNil(t, owned.UserID)
	assert.Equal(t, anna.ID, *owned.UserID)

	all, err := env.feedbacks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, owned.Name, all[1].Name)
	assert.Equal(t, owned.Text, all[1].Text)
	assert.Equal(t, owned.UserID, all[1].UserID)
	assert.Equal(t, model.StatusActive, all[1].Status)
}

func TestFeedbackService_CreateRejectsUnusableCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	boris := env.register(t, "boris")
	env.block(t, boris.ID)

	_, err := env.feedbacks.Create(ctx, boris.ID, model.CreateFeedbackRequest{Name: "Boris", Text: "still here"})
	assert.ErrorIs(t, err, policy.ErrCallerBlocked)

	_, err = env.feedbacks.Create(ctx, "deleted-account", model.CreateFeedbackRequest{Name: "Ghost", Text: "boo"})
	assert.ErrorIs(t, err, policy.ErrUnknownCaller)

	all, err := env.feedbacks.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFeedbackService_CreateNotifies(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.feedbacks.Create(context.Background(), "", model.CreateFeedbackRequest{Name: "Guest", Text: "Hello there"})
	require.NoError(t, err)

	select {
	case <-env.notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not published")
	}
	env.notifier.mu.Lock()
	defer env.notifier.mu.Unlock()
	require.Len(t, env.notifier.messages, 1)
	assert.Contains(t, env.notifier.messages[0], "Hello there")
}

func TestFeedbackService_ConcurrentCreates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.feedbacks.Create(ctx, "", model.CreateFeedbackRequest{Name: fmt.Sprintf("n%d", i), Text: "t"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := env.feedbacks.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestFeedbackService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		_, err := env.feedbacks.Create(ctx, "", model.CreateFeedbackRequest{Name: fmt.Sprintf("n%02d", i), Text: "t"})
		require.NoError(t, err)
	}

	page, err := env.feedbacks.List(ctx, query.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 5)

	page, err = env.feedbacks.List(ctx, query.Params{Search: "n03"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestFeedbackService_UpdateByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anna := env.register(t, "anna")
	boris := env.register(t, "boris")
	f, err := env.feedbacks.Create(ctx, anna.ID, model.CreateFeedbackRequest{Name: "Anna", Text: "first"})
	require.NoError(t, err)

	updated, err := env.feedbacks.Update(ctx, anna.ID, f.ID, model.UpdateFeedbackRequest{
		Text:   strPtr("edited"),
		Status: strPtr(model.StatusBlocked),
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, model.StatusActive, updated.Status, "only admins change the status")

	_, err = env.feedbacks.Update(ctx, boris.ID, f.ID, model.UpdateFeedbackRequest{Text: strPtr("mine now")})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = env.feedbacks.Update(ctx, anna.ID, "ghost", model.UpdateFeedbackRequest{Text: strPtr("x")})
	assert.ErrorIs(t, err, ErrFeedbackNotFound)

	_, err = env.feedbacks.Update(ctx, "", f.ID, model.UpdateFeedbackRequest{Text: strPtr("x")})
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestFeedbackService_AdminModeration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.promote(t, env.register(t, "root").ID)
	f, err := env.feedbacks.Create(ctx, "", model.CreateFeedbackRequest{Name: "Guest", Text: "spam"})
	require.NoError(t, err)

	updated, err := env.feedbacks.Update(ctx, admin.ID, f.ID, model.UpdateFeedbackRequest{Status: strPtr(model.StatusBlocked)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, updated.Status)

	_, err = env.feedbacks.Update(ctx, admin.ID, f.ID, model.UpdateFeedbackRequest{Status: strPtr("hidden")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	deleted, err := env.feedbacks.Delete(ctx, admin.ID, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, deleted.ID)
}

func TestFeedbackService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anna := env.register(t, "anna")
	boris := env.register(t, "boris")
	mine, err := env.feedbacks.Create(ctx, anna.ID, model.CreateFeedbackRequest{Name: "Anna", Text: "one"})
	require.NoError(t, err)
	_, err = env.feedbacks.Create(ctx, anna.ID, model.CreateFeedbackRequest{Name: "Anna", Text: "two"})
	require.NoError(t, err)

	_, err = env.feedbacks.Delete(ctx, boris.ID, mine.ID)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = env.feedbacks.Delete(ctx, anna.ID, mine.ID)
	require.NoError(t, err)

	all, err := env.feedbacks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "two", all[0].Text)

	_, err = env.feedbacks.Delete(ctx, anna.ID, mine.ID)
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestFeedbackService_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anna := env.register(t, "anna")
	admin := env.promote(t, env.register(t, "root").ID)
	_, err := env.feedbacks.Create(ctx, anna.ID, model.CreateFeedbackRequest{Name: "Anna", Text: "has, a comma"})
	require.NoError(t, err)

	_, err = env.feedbacks.ExportCSV(ctx, anna.ID)
	assert.ErrorIs(t, err, policy.ErrAdminRequired)

	buf, err := env.feedbacks.ExportCSV(ctx, admin.ID)
	require.NoError(t, err)
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ID", records[0][0])
	assert.Equal(t, "has, a comma", records[1][2])
	assert.Equal(t, anna.ID, records[1][3])
}
