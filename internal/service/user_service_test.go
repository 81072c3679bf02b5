package service

import (
	"context"
	"fmt"
	"testing"

	"feedback_portal/internal/model"
	"feedback_portal/internal/policy"
	"feedback_portal/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.register(t, "anna")
	admin := env.promote(t, env.register(t, "root").ID)

	_, err := env.users.List(ctx, member.ID, query.Params{Page: 1, Limit: 100})
	assert.ErrorIs(t, err, policy.ErrAdminRequired)

	_, err = env.users.List(ctx, "", query.Params{})
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	page, err := env.users.List(ctx, admin.ID, query.Params{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestUserService_RequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	member := env.register(t, "anna")
	admin := env.promote(t, env.register(t, "root").ID)

	assert.ErrorIs(t, env.users.RequireAdmin(ctx, ""), policy.ErrUnauthenticated)
	assert.ErrorIs(t, env.users.RequireAdmin(ctx, "missing"), policy.ErrUnknownCaller)
	assert.ErrorIs(t, env.users.RequireAdmin(ctx, member.ID), policy.ErrAdminRequired)
	assert.NoError(t, env.users.RequireAdmin(ctx, admin.ID))

	env.block(t, admin.ID)
	assert.ErrorIs(t, env.users.RequireAdmin(ctx, admin.ID), policy.ErrCallerBlocked)
}

func TestUserService_ListSearchAndPaginate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.promote(t, env.register(t, "root").ID)
	for i := 0; i < 12; i++ {
		env.register(t, fmt.Sprintf("student%02d", i))
	}

	page, err := env.users.List(ctx, admin.ID, query.Params{Page: 2, Limit: 5, Search: "STUDENT", SortBy: "login", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 5)
	assert.Equal(t, "student05", page.Data[0].Login)
}

func TestUserService_Get(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "anna")

	got, err := env.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", got.Login)

	_, err = env.users.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateSelfStripsRoleAndStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "anna")

	updated, err := env.users.Update(ctx, u.ID, u.ID, model.UpdateUserRequest{
		Name:   strPtr("Anna K."),
		Role:   strPtr(model.RoleAdmin),
		Status: strPtr(model.StatusBlocked),
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna K.", updated.Name)
	assert.Equal(t, model.RoleUser, updated.Role)
	assert.Equal(t, model.StatusActive, updated.Status)
	assert.True(t, updated.UpdatedAt.After(u.UpdatedAt) || updated.UpdatedAt.Equal(u.UpdatedAt))
}

func TestUserService_UpdateByAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "anna")
	admin := env.promote(t, env.register(t, "root").ID)

	updated, err := env.users.Update(ctx, admin.ID, u.ID, model.UpdateUserRequest{Status: strPtr(model.StatusBlocked)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, updated.Status)

	_, err = env.users.Update(ctx, admin.ID, u.ID, model.UpdateUserRequest{Status: strPtr("banned")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = env.users.Update(ctx, admin.ID, u.ID, model.UpdateUserRequest{Role: strPtr("owner")})
	assert.ErrorIs(t, err, ErrInvalidRole)

	stored, err := env.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, stored.Status)
	assert.Equal(t, model.RoleUser, stored.Role)

	_, err = env.users.Update(ctx, admin.ID, "ghost", model.UpdateUserRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateOtherForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anna := env.register(t, "anna")
	boris := env.register(t, "boris")

	_, err := env.users.Update(ctx, boris.ID, anna.ID, model.UpdateUserRequest{Name: strPtr("hacked")})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = env.users.Update(ctx, "ghost", anna.ID, model.UpdateUserRequest{Name: strPtr("hacked")})
	assert.ErrorIs(t, err, policy.ErrUnknownCaller)

	stored, err := env.users.Get(ctx, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", stored.Name)
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anna := env.register(t, "anna")
	boris := env.register(t, "boris")
	admin := env.promote(t, env.register(t, "root").ID)

	_, err := env.users.Delete(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, policy.ErrSelfDelete)

	_, err = env.users.Delete(ctx, anna.ID, anna.ID)
	assert.ErrorIs(t, err, policy.ErrSelfDelete)

	_, err = env.users.Delete(ctx, anna.ID, boris.ID)
	assert.ErrorIs(t, err, policy.ErrAdminRequired)

	_, err = env.users.Delete(ctx, admin.ID, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	deleted, err := env.users.Delete(ctx, admin.ID, boris.ID)
	require.NoError(t, err)
	assert.Equal(t, "boris", deleted.Login)

	_, err = env.users.Get(ctx, boris.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_BlockedCallerRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.promote(t, env.register(t, "root").ID)
	env.block(t, admin.ID)

	_, err := env.users.List(ctx, admin.ID, query.Params{})
	assert.ErrorIs(t, err, policy.ErrCallerBlocked)
}
