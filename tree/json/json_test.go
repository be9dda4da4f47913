package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classificationTree() *tree.Tree {
	classes := []string{"red", "green"}
	root := &tree.Branch{
		Feature:   0,
		Threshold: 5,
		Impurity:  0.5,
		Weight:    10,
		Left: &tree.Leaf{
			Impurity:   0,
			Weight:     6,
			Prediction: tree.NewClassificationPrediction(classes, []float64{1, 0}, 6),
		},
		Right: &tree.Branch{
			Feature:   1,
			Threshold: 2.5,
			Impurity:  0.375,
			Weight:    4,
			Left: &tree.Leaf{
				Impurity:   0,
				Weight:     1,
				Prediction: tree.NewClassificationPrediction(classes, []float64{1, 0}, 1),
			},
			Right: &tree.Leaf{
				Impurity:   0,
				Weight:     3,
				Prediction: tree.NewClassificationPrediction(classes, []float64{0, 1}, 3),
			},
		},
	}
	features := []feature.Feature{
		feature.NewContinuousFeature("x0"),
		feature.NewContinuousFeature("x1"),
	}
	target := feature.NewDiscreteFeature("color", classes)
	return tree.New(root, tree.Classification, features, target)
}

func regressionTree() *tree.Tree {
	root := &tree.Leaf{
		Impurity:   2.5,
		Weight:     4,
		Prediction: tree.NewRegressionPrediction(7.25, 4),
	}
	features := []feature.Feature{feature.NewContinuousFeature("x0")}
	return tree.New(root, tree.Regression, features, feature.NewContinuousFeature("y"))
}

func TestClassificationRoundTrip(t *testing.T) {
	original := classificationTree()
	var buf bytes.Buffer
	require.NoError(t, WriteTree(original, &buf))

	decoded, err := ReadTree(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.String(), decoded.String())
	assert.Equal(t, tree.Classification, decoded.Task)
	assert.Equal(t, original.Depth(), decoded.Depth())
	assert.Equal(t, original.Leaves(), decoded.Leaves())
	assert.Equal(t, "color", decoded.Target.Name())

	p, err := decoded.Predict([]float64{7, 3})
	require.NoError(t, err)
	c, err := p.Class()
	require.NoError(t, err)
	assert.Equal(t, "green", c)
	pg, err := p.ProbabilityOf("green")
	require.NoError(t, err)
	assert.Equal(t, 1.0, pg)

	assert.Equal(t, original.FeatureImportances(), decoded.FeatureImportances())
}

func TestRegressionRoundTrip(t *testing.T) {
	original := regressionTree()
	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, tree.Regression, decoded.Task)

	p, err := decoded.Predict([]float64{0})
	require.NoError(t, err)
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, 7.25, v)
	assert.Equal(t, 4, p.Weight())
}

func TestWriteTreeLayout(t *testing.T) {
	data, err := Encode(regressionTree())
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, `{"task":"regression"`), s)
	assert.Contains(t, s, `"features":[{"name":"x0","kind":"continuous"}]`)
	assert.Contains(t, s, `"target":{"name":"y","kind":"continuous"}`)
	assert.Contains(t, s, `"nodes":[{"k":"l"`)
}

func TestReadTreeErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "not JSON at all",
			content: "nope",
			wantErr: "parsing tree",
		},
		{
			name:    "unknown task",
			content: `{"task":"ranking","features":[],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"l","imp":0,"w":1}]}`,
			wantErr: "parsing tree",
		},
		{
			name:    "no nodes",
			content: `{"task":"regression","features":[],"target":{"name":"y","kind":"continuous"},"nodes":[]}`,
			wantErr: "no nodes",
		},
		{
			name:    "truncated node list",
			content: `{"task":"regression","features":[{"name":"x0","kind":"continuous"}],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"b","f":0,"t":1,"imp":1,"w":2}]}`,
			wantErr: "ends before the tree is complete",
		},
		{
			name:    "trailing nodes",
			content: `{"task":"regression","features":[],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"l","imp":0,"w":1},{"k":"l","imp":0,"w":1}]}`,
			wantErr: "left after the tree is complete",
		},
		{
			name:    "unknown node kind",
			content: `{"task":"regression","features":[],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"x","imp":0,"w":1}]}`,
			wantErr: "unknown kind",
		},
		{
			name:    "branch on unknown feature",
			content: `{"task":"regression","features":[{"name":"x0","kind":"continuous"}],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"b","f":3,"t":1,"imp":1,"w":2},{"k":"l","imp":0,"w":1},{"k":"l","imp":0,"w":1}]}`,
			wantErr: "unknown feature 3",
		},
		{
			name:    "unknown feature kind",
			content: `{"task":"regression","features":[{"name":"x0","kind":"fuzzy"}],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"l","imp":0,"w":1}]}`,
			wantErr: "unknown kind",
		},
		{
			name:    "task and target disagree",
			content: `{"task":"regression","features":[],"target":{"name":"color","kind":"discrete","values":["a"]},"nodes":[{"k":"l","imp":0,"w":1}]}`,
			wantErr: "discrete target",
		},
		{
			name:    "probabilities and classes disagree",
			content: `{"task":"classification","features":[],"target":{"name":"color","kind":"discrete","values":["a","b"]},"nodes":[{"k":"l","imp":0,"w":1,"pred":{"probs":[1],"w":1}}]}`,
			wantErr: "probabilities for 2 classes",
		},
		{
			name:    "regression prediction without value",
			content: `{"task":"regression","features":[],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"l","imp":0,"w":1,"pred":{"w":1}}]}`,
			wantErr: "carries no value",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadTree(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestReadTreeWithoutPrediction(t *testing.T) {
	content := `{"task":"regression","features":[],"target":{"name":"y","kind":"continuous"},"nodes":[{"k":"l","imp":0,"w":1}]}`
	decoded, err := ReadTree(strings.NewReader(content))
	require.NoError(t, err)

	_, err = decoded.Predict(nil)
	assert.ErrorIs(t, err, tree.ErrNoPrediction)
}
