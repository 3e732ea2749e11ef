package adapter

import (
	"context"
	"testing"

	"cquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	_, err := storage.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrStorageMiss)

	require.NoError(t, storage.Save(ctx, "k", "v1"))
	require.NoError(t, storage.Save(ctx, "k", "v2"))
	val, err := storage.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestMemoryStorage_CancelledContext(t *testing.T) {
	storage := NewMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, storage.Save(ctx, "k", "v"), context.Canceled)
	_, err := storage.Load(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
