package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"feedback_portal/internal/model"
	"feedback_portal/internal/repository"
	"feedback_portal/internal/store"
	"feedback_portal/internal/utils"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	done     chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 64)}
}

func (n *recordingNotifier) Publish(ctx context.Context, message string) error {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

type testEnv struct {
	backend   *repository.Backend
	jwt       *utils.JWTUtil
	auth      AuthService
	users     UserService
	feedbacks FeedbackService
	admin     AdminService
	notifier  *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, s.Init())
	backend := repository.NewFileBackend(s)
	jwtUtil := utils.NewJWTUtil("test-secret", 1)
	notifier := newRecordingNotifier()

	return &testEnv{
		backend:   backend,
		jwt:       jwtUtil,
		auth:      NewAuthService(backend.Users, jwtUtil),
		users:     NewUserService(backend.Users),
		feedbacks: NewFeedbackService(backend.Feedbacks, backend.Users, notifier),
		admin:     NewAdminService(backend.Users, backend.Feedbacks),
		notifier:  notifier,
	}
}

// register creates an account and returns it.
func (e *testEnv) register(t *testing.T, login string) *model.User {
	t.Helper()
	u, _, err := e.auth.Register(context.Background(), model.RegisterRequest{Login: login, Password: "secret1", Name: login})
	require.NoError(t, err)
	return u
}

// promote turns an existing account into an admin directly in storage.
func (e *testEnv) promote(t *testing.T, id string) *model.User {
	t.Helper()
	u, err := e.backend.Users.Update(context.Background(), id, func(u *model.User) error {
		u.Role = model.RoleAdmin
		return nil
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) block(t *testing.T, id string) {
	t.Helper()
	_, err := e.backend.Users.Update(context.Background(), id, func(u *model.User) error {
		u.Status = model.StatusBlocked
		return nil
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
