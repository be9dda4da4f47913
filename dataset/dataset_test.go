package dataset

import (
	"context"
	"testing"

	"github.com/alexwalshml/dendro/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromFloats(t *testing.T) {
	ds, err := FromFloats([][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{10, 20, 30})
	require.NoError(t, err)

	features := ds.Features()
	require.Len(t, features, 3)
	assert.Equal(t, "x0", features[0].Name())
	assert.Equal(t, "x1", features[1].Name())
	assert.Equal(t, "y", features[2].Name())
	require.NotNil(t, ds.Target())
	assert.Equal(t, "y", ds.Target().Name())

	n, err := ds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	samples, err := ds.Samples(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 3)
	v, err := samples[1].ValueFor(context.Background(), features[0])
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestFromFloatsErrors(t *testing.T) {
	_, err := FromFloats(nil, nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = FromFloats([][]float64{{1}, {2, 3}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrRaggedMatrix)

	_, err = FromFloats([][]float64{{1}, {2}}, []float64{1})
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestFromLabels(t *testing.T) {
	ds, err := FromLabels([][]float64{{1}, {2}, {3}, {4}}, []string{"b", "a", "b", "c"})
	require.NoError(t, err)

	target, ok := ds.Target().(*feature.DiscreteFeature)
	require.True(t, ok)
	assert.Equal(t, "class", target.Name())
	assert.Equal(t, []string{"b", "a", "c"}, target.AvailableValues())

	_, err = FromLabels([][]float64{{1}}, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestFromClasses(t *testing.T) {
	ds, err := FromClasses([][]float64{{1}, {2}, {3}}, []int{1, 0, 1}, []string{"no", "yes"})
	require.NoError(t, err)

	target, ok := ds.Target().(*feature.DiscreteFeature)
	require.True(t, ok)
	assert.Equal(t, []string{"no", "yes"}, target.AvailableValues())

	tbl, err := Materialize(context.Background(), ds, target)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, tbl.YC)

	_, err = FromClasses([][]float64{{1}}, []int{2}, []string{"no", "yes"})
	assert.ErrorIs(t, err, ErrUnknownClass)

	_, err = FromClasses([][]float64{{1}}, []int{0, 1}, []string{"no", "yes"})
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestFromMat(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	ds, err := FromMat(m, []float64{5, 6})
	require.NoError(t, err)

	tbl, err := Materialize(context.Background(), ds, ds.Target())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, tbl.X)
	assert.Equal(t, []float64{5, 6}, tbl.Y)
}

func TestMaterializeRegression(t *testing.T) {
	age := feature.NewContinuousFeature("age")
	height := feature.NewContinuousFeature("height")
	weight := feature.NewContinuousFeature("weight")
	ds := New(
		[]feature.Feature{age, height, weight},
		[]Sample{
			MapSample{"age": 30, "height": 170.5, "weight": 70.0},
			MapSample{"age": 41, "height": 160.0, "weight": int64(65)},
		},
	)

	tbl, err := Materialize(context.Background(), ds, weight)
	require.NoError(t, err)
	assert.False(t, tbl.IsClassification())
	assert.Equal(t, 2, tbl.Count())
	assert.Equal(t, [][]float64{{30, 170.5}, {41, 160}}, tbl.X)
	assert.Equal(t, []float64{70, 65}, tbl.Y)
	require.Len(t, tbl.Predictors, 2)
	assert.Equal(t, "age", tbl.Predictors[0].Name())
	assert.Equal(t, "height", tbl.Predictors[1].Name())
	assert.Nil(t, tbl.YC)
}

func TestMaterializeClassification(t *testing.T) {
	x := feature.NewContinuousFeature("x")
	species := feature.NewDiscreteFeature("species", []string{"setosa", "versicolor"})
	ds := New(
		[]feature.Feature{x, species},
		[]Sample{
			MapSample{"x": 1.0, "species": "versicolor"},
			MapSample{"x": 2.0, "species": "setosa"},
			MapSample{"x": 3.0, "species": "versicolor"},
		},
	)

	tbl, err := Materialize(context.Background(), ds, species)
	require.NoError(t, err)
	assert.True(t, tbl.IsClassification())
	assert.Equal(t, []string{"setosa", "versicolor"}, tbl.Classes)
	assert.Equal(t, []int{1, 0, 1}, tbl.YC)
	assert.Nil(t, tbl.Y)
}

func TestMaterializeErrors(t *testing.T) {
	x := feature.NewContinuousFeature("x")
	y := feature.NewContinuousFeature("y")
	color := feature.NewDiscreteFeature("color", []string{"red", "blue"})

	tests := []struct {
		name   string
		ds     Dataset
		target feature.Feature
		want   InputError
	}{
		{
			name:   "no samples",
			ds:     New([]feature.Feature{x, y}, nil),
			target: y,
			want:   ErrNoSamples,
		},
		{
			name:   "missing value",
			ds:     New([]feature.Feature{x, y}, []Sample{MapSample{"x": 1.0}}),
			target: y,
			want:   ErrMissingValue,
		},
		{
			name:   "non-numeric value",
			ds:     New([]feature.Feature{x, y}, []Sample{MapSample{"x": "one", "y": 1.0}}),
			target: y,
			want:   ErrNonNumericValue,
		},
		{
			name:   "discrete predictor",
			ds:     New([]feature.Feature{x, color, y}, []Sample{MapSample{"x": 1.0, "color": "red", "y": 1.0}}),
			target: y,
			want:   ErrDiscretePredictor,
		},
		{
			name:   "unknown class",
			ds:     New([]feature.Feature{x, color}, []Sample{MapSample{"x": 1.0, "color": "green"}}),
			target: color,
			want:   ErrUnknownClass,
		},
		{
			name:   "target not in dataset",
			ds:     New([]feature.Feature{x}, []Sample{MapSample{"x": 1.0}}),
			target: y,
			want:   ErrTargetNotFound,
		},
		{
			name:   "nil target",
			ds:     New([]feature.Feature{x}, []Sample{MapSample{"x": 1.0}}),
			target: nil,
			want:   ErrTargetNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Materialize(context.Background(), tt.ds, tt.target)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
