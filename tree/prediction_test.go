package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegressionPrediction(t *testing.T) {
	p := NewRegressionPrediction(3.5, 12)
	assert.Equal(t, Regression, p.Task())
	assert.Equal(t, 12, p.Weight())

	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = p.Class()
	assert.ErrorIs(t, err, ErrNotClassification)
	_, err = p.ProbabilityOf("a")
	assert.ErrorIs(t, err, ErrNotClassification)
	assert.Nil(t, p.Probabilities())
	assert.Equal(t, "3.5", p.String())
}

func TestClassificationPrediction(t *testing.T) {
	classes := []string{"red", "green", "blue"}
	p := NewClassificationPrediction(classes, []float64{0.25, 0.5, 0.25}, 8)
	assert.Equal(t, Classification, p.Task())
	assert.Equal(t, 8, p.Weight())

	class, err := p.Class()
	require.NoError(t, err)
	assert.Equal(t, "green", class)

	prob, err := p.ProbabilityOf("blue")
	require.NoError(t, err)
	assert.Equal(t, 0.25, prob)

	prob, err = p.ProbabilityOf("yellow")
	require.NoError(t, err)
	assert.Equal(t, 0.0, prob)

	_, err = p.Value()
	assert.ErrorIs(t, err, ErrNotRegression)

	assert.Equal(t, classes, p.Classes())
	assert.Equal(t, "[red:0.25 green:0.5 blue:0.25]", p.String())
}

func TestClassTieBreaksOnLowestIndex(t *testing.T) {
	p := NewClassificationPrediction([]string{"b", "a"}, []float64{0.5, 0.5}, 4)
	class, err := p.Class()
	require.NoError(t, err)
	assert.Equal(t, "b", class)
}

func TestParseTask(t *testing.T) {
	task, err := ParseTask("regression")
	require.NoError(t, err)
	assert.Equal(t, Regression, task)

	task, err = ParseTask("classification")
	require.NoError(t, err)
	assert.Equal(t, Classification, task)

	_, err = ParseTask("clustering")
	assert.Error(t, err)
}
