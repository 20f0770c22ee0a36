package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/factchecker/newscred/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAPIKeyLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &models.APIKey{
		ID:                uuid.New().String(),
		KeyHash:           "hash-1",
		Name:              "newsroom",
		RequestsPerMinute: 30,
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateAPIKey(ctx, key))

	got, err := store.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, key.ID, got.ID)
	assert.Equal(t, "newsroom", got.Name)
	assert.Equal(t, 30, got.RequestsPerMinute)
	assert.Nil(t, got.LastUsedAt)

	used := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.UpdateAPIKeyLastUsed(ctx, key.ID, used))
	got, err = store.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	assert.True(t, used.Equal(*got.LastUsedAt))

	keys, err := store.ListAPIKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Empty(t, keys[0].KeyHash)

	require.NoError(t, store.DeleteAPIKey(ctx, key.ID))
	assert.ErrorIs(t, store.DeleteAPIKey(ctx, key.ID), ErrNotFound)

	got, err = store.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateAPIKey_DuplicateHash(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	k := func() *models.APIKey {
		return &models.APIKey{ID: uuid.New().String(), KeyHash: "same", Name: "k", RequestsPerMinute: 1, CreatedAt: time.Now()}
	}
	require.NoError(t, store.CreateAPIKey(ctx, k()))
	assert.Error(t, store.CreateAPIKey(ctx, k()))
}

func TestAuditLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.LogRequest(ctx, &models.AuditLog{
			ID:           uuid.New().String(),
			APIKeyID:     "anonymous",
			Endpoint:     "/api/v1/fact-check",
			Method:       "POST",
			RequestSize:  int64(100 * (i + 1)),
			ResponseCode: 200,
			DurationMs:   int64(i),
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := store.GetAuditLogs(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(300), logs[0].RequestSize)
	assert.Equal(t, int64(200), logs[1].RequestSize)

	logs, err = store.GetAuditLogs(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(100), logs[0].RequestSize)
}

func TestMemoryStore(t *testing.T) {
	store, err := NewSQLiteStore(MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	keys, err := store.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}
