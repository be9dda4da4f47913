package dendro

import (
	"context"
	"testing"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestSplitFindsObservedThreshold(t *testing.T) {
	x := column(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	y := []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	ds, err := dataset.FromFloats(x, y)
	require.NoError(t, err)

	s, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression}, ds, ds.Target())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, s.Feature)
	assert.Equal(t, 5.0, s.Threshold, "thresholds are observed values, not midpoints")
	assert.Equal(t, 0.0, s.Impurity)
}

func TestBestSplitSkipsLowestObservedValue(t *testing.T) {
	ds, err := dataset.FromFloats(column(1, 2), []float64{0, 1})
	require.NoError(t, err)

	s, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression}, ds, ds.Target())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, s.Threshold, "splitting below the minimum would leave the left side empty")
}

func TestBestSplitNotFound(t *testing.T) {
	t.Run("constant predictor", func(t *testing.T) {
		ds, err := dataset.FromFloats(column(3, 3, 3), []float64{1, 2, 3})
		require.NoError(t, err)
		_, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression}, ds, ds.Target())
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("single sample", func(t *testing.T) {
		ds, err := dataset.FromFloats(column(3), []float64{1})
		require.NoError(t, err)
		_, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression}, ds, ds.Target())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBestSplitTieBreaksTowardsFirstCandidate(t *testing.T) {
	// Both predictors carry the same values, and within each the
	// splits at 1 and 3 score the same weighted impurity. The scan
	// order makes feature 0 at threshold 1 the winner.
	x := [][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	labels := []string{"a", "b", "a", "b"}
	ds, err := dataset.FromLabels(x, labels)
	require.NoError(t, err)

	s, ok, err := BestSplit(context.Background(), Config{Task: tree.Classification}, ds, ds.Target())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, s.Feature)
	assert.Equal(t, 1.0, s.Threshold)
	assert.InDelta(t, 1.0/3.0, s.Impurity, 1e-12)
}

func TestBestSplitWeightedGiniImpurity(t *testing.T) {
	ds, err := dataset.FromLabels(column(0, 1, 2, 3), []string{"a", "a", "b", "a"})
	require.NoError(t, err)

	s, ok, err := BestSplit(context.Background(), Config{Task: tree.Classification}, ds, ds.Target())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, s.Threshold)
	assert.Equal(t, 0.25, s.Impurity)
}

func TestBestSplitWithMeanAbsoluteError(t *testing.T) {
	x := column(0, 1, 2, 3, 4, 5)
	y := []float64{0, 0, 0, 10, 10, 10}
	ds, err := dataset.FromFloats(x, y)
	require.NoError(t, err)

	s, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression, Criterion: "mae"}, ds, ds.Target())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, s.Threshold)
	assert.Equal(t, 0.0, s.Impurity)
}

func TestBestSplitErrors(t *testing.T) {
	ds, err := dataset.FromFloats(column(1, 2, 3), []float64{1, 2, 3})
	require.NoError(t, err)

	t.Run("unknown criterion", func(t *testing.T) {
		_, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression, Criterion: "twoing"}, ds, ds.Target())
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrUnknownCriterion)
	})
	t.Run("task mismatch", func(t *testing.T) {
		_, ok, err := BestSplit(context.Background(), Config{Task: tree.Classification}, ds, ds.Target())
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrTaskMismatch)
	})
	t.Run("empty dataset", func(t *testing.T) {
		target := feature.NewContinuousFeature("y")
		empty := dataset.New([]feature.Feature{feature.NewContinuousFeature("x0"), target}, nil)
		_, ok, err := BestSplit(context.Background(), Config{Task: tree.Regression}, empty, target)
		assert.False(t, ok)
		assert.ErrorIs(t, err, dataset.ErrNoSamples)
	})
}
