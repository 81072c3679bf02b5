package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeIndexer struct {
	err   error
	calls int
}

func (f *fakeIndexer) EnsureIndexes(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestEnsureIndexes(t *testing.T) {
	ctx := context.Background()
	first, second := &fakeIndexer{}, &fakeIndexer{}

	require.NoError(t, ensureIndexes(ctx, first, "not an indexer", second))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestEnsureIndexes_FailureIsReturned(t *testing.T) {
	boom := errors.New("not authorized to create index")
	failing, after := &fakeIndexer{err: boom}, &fakeIndexer{}

	err := ensureIndexes(context.Background(), failing, after)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, after.calls)
}

func TestVersionFilter(t *testing.T) {
	seen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"_id": "u1", "updatedAt": seen}, versionFilter("u1", seen))
}
