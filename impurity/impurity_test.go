package impurity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariance(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "single value", values: []float64{3.5}, want: 0.0},
		{name: "identical values", values: []float64{2, 2, 2, 2}, want: 0.0},
		{name: "two values", values: []float64{0, 2}, want: 1.0},
		{name: "symmetric spread", values: []float64{1, 2, 3, 4, 5}, want: 2.0},
		{name: "negative values", values: []float64{-1, 1}, want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Variance(tt.values), 1e-12)
		})
	}
}

func TestMeanAbsoluteError(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "single value", values: []float64{7}, want: 0.0},
		{name: "identical values", values: []float64{1, 1, 1}, want: 0.0},
		{name: "odd count", values: []float64{1, 2, 6}, want: 5.0 / 3.0},
		{name: "even count", values: []float64{1, 3, 5, 7}, want: 2.0},
		{name: "unsorted input", values: []float64{6, 1, 2}, want: 5.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MeanAbsoluteError(tt.values), 1e-12)
		})
	}
}

func TestGini(t *testing.T) {
	t.Run("single class is exactly zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Gini([]int{10}))
		assert.Equal(t, 0.0, Gini([]int{10, 0, 0}))
	})
	t.Run("two-class even split is exactly one half", func(t *testing.T) {
		assert.Equal(t, 0.5, Gini([]int{5, 5}))
	})
	t.Run("skewed split", func(t *testing.T) {
		assert.Equal(t, 0.625, Gini([]int{2, 1, 1}))
	})
	t.Run("empty counts", func(t *testing.T) {
		assert.Equal(t, 0.0, Gini(nil))
	})
}

func TestEntropy(t *testing.T) {
	t.Run("single class is exactly zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Entropy([]int{7}))
		assert.Equal(t, 0.0, Entropy([]int{7, 0}))
	})
	t.Run("two-class even split is exactly one bit", func(t *testing.T) {
		assert.Equal(t, 1.0, Entropy([]int{5, 5}))
	})
	t.Run("four-class even split is two bits", func(t *testing.T) {
		assert.Equal(t, 2.0, Entropy([]int{1, 1, 1, 1}))
	})
	t.Run("skewed split", func(t *testing.T) {
		assert.InDelta(t, 0.8112781244591328, Entropy([]int{3, 1}), 1e-12)
	})
}

func TestRegressionSelector(t *testing.T) {
	for _, name := range []string{"", CriterionVariance, CriterionMSE} {
		f, err := Regression(name)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, f([]float64{1, 2, 3, 4, 5}), 1e-12)
	}
	f, err := Regression(CriterionMAE)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f([]float64{1, 3, 5, 7}), 1e-12)

	_, err = Regression("gini")
	assert.Error(t, err)
}

func TestClassificationSelector(t *testing.T) {
	for _, name := range []string{"", CriterionGini} {
		f, err := Classification(name)
		require.NoError(t, err)
		assert.Equal(t, 0.5, f([]int{5, 5}))
	}
	f, err := Classification(CriterionEntropy)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f([]int{5, 5}))

	_, err = Classification("variance")
	assert.Error(t, err)
}
