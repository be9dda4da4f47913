package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	iris := testClassificationTree()
	require.NoError(t, s.Save(ctx, "iris", iris))
	require.NoError(t, s.Save(ctx, "boston", testRegressionLeafTree()))

	got, err := s.Load(ctx, "iris")
	require.NoError(t, err)
	assert.Equal(t, iris, got)

	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"boston", "iris"}, names)

	require.NoError(t, s.Delete(ctx, "iris"))
	got, err = s.Load(ctx, "iris")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Close(ctx))
}

func TestMemoryStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, "model", testClassificationTree()))
	replacement := testRegressionLeafTree()
	require.NoError(t, s.Save(ctx, "model", replacement))

	got, err := s.Load(ctx, "model")
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"model"}, names)
}
