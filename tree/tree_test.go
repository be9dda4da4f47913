package tree

import (
	"context"
	"testing"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func continuousFeatures(names ...string) []feature.Feature {
	fs := make([]feature.Feature, 0, len(names))
	for _, n := range names {
		fs = append(fs, feature.NewContinuousFeature(n))
	}
	return fs
}

// testClassificationTree builds by hand a tree over features x0
// and x1 splitting x0 at 5 and, on the left side, x1 at 2:
//
//	x0 < 5 ? (x1 < 2 ? a : b) : b
func testClassificationTree() *Tree {
	classes := []string{"a", "b"}
	left := &Branch{
		Feature:   1,
		Threshold: 2,
		Impurity:  0.32,
		Weight:    5,
		Left:      &Leaf{Impurity: 0, Weight: 3, Prediction: NewClassificationPrediction(classes, []float64{1, 0}, 3)},
		Right:     &Leaf{Impurity: 0, Weight: 2, Prediction: NewClassificationPrediction(classes, []float64{0, 1}, 2)},
	}
	root := &Branch{
		Feature:   0,
		Threshold: 5,
		Impurity:  0.5,
		Weight:    10,
		Left:      left,
		Right:     &Leaf{Impurity: 0, Weight: 5, Prediction: NewClassificationPrediction(classes, []float64{0, 1}, 5)},
	}
	target := feature.NewDiscreteFeature("class", classes)
	return New(root, Classification, continuousFeatures("x0", "x1"), target)
}

func testRegressionLeafTree() *Tree {
	root := &Leaf{Impurity: 0, Weight: 4, Prediction: NewRegressionPrediction(5, 4)}
	return New(root, Regression, continuousFeatures("x0"), feature.NewContinuousFeature("y"))
}

func TestPredict(t *testing.T) {
	tr := testClassificationTree()
	tests := []struct {
		name string
		x    []float64
		want string
	}{
		{name: "left left", x: []float64{1, 1}, want: "a"},
		{name: "left right", x: []float64{1, 3}, want: "b"},
		{name: "value equal to threshold goes right", x: []float64{5, 0}, want: "b"},
		{name: "right", x: []float64{7, 9}, want: "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tr.Predict(tt.x)
			require.NoError(t, err)
			class, err := p.Class()
			require.NoError(t, err)
			assert.Equal(t, tt.want, class)
		})
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	tr := testClassificationTree()
	_, err := tr.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = tr.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPredictSingleLeaf(t *testing.T) {
	tr := testRegressionLeafTree()
	p, err := tr.Predict([]float64{42})
	require.NoError(t, err)
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestPredictSample(t *testing.T) {
	tr := testClassificationTree()
	ctx := context.Background()

	p, err := tr.PredictSample(ctx, dataset.MapSample{"x0": 1.0, "x1": 3.0})
	require.NoError(t, err)
	class, err := p.Class()
	require.NoError(t, err)
	assert.Equal(t, "b", class)

	// only the features on the descent path are needed
	p, err = tr.PredictSample(ctx, dataset.MapSample{"x0": 7.0})
	require.NoError(t, err)
	class, err = p.Class()
	require.NoError(t, err)
	assert.Equal(t, "b", class)

	_, err = tr.PredictSample(ctx, dataset.MapSample{"x1": 1.0})
	assert.ErrorIs(t, err, ErrCannotPredictFromSample)
}

func TestDepthLeavesNodes(t *testing.T) {
	tr := testClassificationTree()
	assert.Equal(t, 2, tr.Depth())
	assert.Equal(t, 3, tr.Leaves())
	assert.Equal(t, 5, tr.Nodes())

	leafTree := testRegressionLeafTree()
	assert.Equal(t, 0, leafTree.Depth())
	assert.Equal(t, 1, leafTree.Leaves())
	assert.Equal(t, 1, leafTree.Nodes())
}

func TestTraversePreorder(t *testing.T) {
	tr := testClassificationTree()
	type visit struct {
		depth     int
		hasParent bool
		branch    bool
	}
	var visits []visit
	err := tr.Traverse(func(n Node, depth int, parent Node) error {
		_, branch := n.(*Branch)
		visits = append(visits, visit{depth: depth, hasParent: parent != nil, branch: branch})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []visit{
		{depth: 0, hasParent: false, branch: true},
		{depth: 1, hasParent: true, branch: true},
		{depth: 2, hasParent: true, branch: false},
		{depth: 2, hasParent: true, branch: false},
		{depth: 1, hasParent: true, branch: false},
	}, visits)
}

func TestTraverseAbortsOnError(t *testing.T) {
	tr := testClassificationTree()
	boom := assert.AnError
	count := 0
	err := tr.Traverse(func(n Node, depth int, parent Node) error {
		count++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, count)
}

func TestString(t *testing.T) {
	tr := testClassificationTree()
	s := tr.String()
	assert.Contains(t, s, "x0 < 5")
	assert.Contains(t, s, "x1 < 2")
	assert.Contains(t, s, "|__")
}
