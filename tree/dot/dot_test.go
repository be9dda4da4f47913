package dot

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *tree.Tree {
	classes := []string{"red", "green"}
	root := &tree.Branch{
		Feature:   0,
		Threshold: 5,
		Impurity:  0.5,
		Weight:    10,
		Left: &tree.Leaf{
			Weight:     6,
			Prediction: tree.NewClassificationPrediction(classes, []float64{1, 0}, 6),
		},
		Right: &tree.Leaf{
			Weight:     4,
			Prediction: tree.NewClassificationPrediction(classes, []float64{0, 1}, 4),
		},
	}
	features := []feature.Feature{
		feature.NewContinuousFeature("x0"),
		feature.NewContinuousFeature("x1"),
	}
	target := feature.NewDiscreteFeature("color", classes)
	return tree.New(root, tree.Classification, features, target)
}

func TestRenderWritesSVG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(testTree(), "svg", &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "svg")
	assert.Contains(t, buf.String(), "x0 &lt; 5")
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(testTree(), "gif", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Zero(t, buf.Len())
}

func TestRenderRejectsEmptyTree(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&tree.Tree{}, "svg", &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.svg")
	err := RenderFile(testTree(), "svg", path)
	require.NoError(t, err)
}
