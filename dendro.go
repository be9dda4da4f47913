/*
Package dendro grows binary decision trees for regression and
classification over continuous predictors.

Trees are grown with the classic CART recursion: every node is
split on the predictor value that minimizes the weighted impurity
of the two subsets it produces, until a stopping condition turns
the node into a leaf. Leaves predict the mean label of their
samples on regression tasks and the majority class, along with the
full class distribution, on classification tasks.

Growing is deterministic: the same dataset and configuration
always produce the same tree. The grown tree.Tree can be applied
to samples concurrently, serialized with the tree/json package,
persisted with a tree.Store and rendered with the tree/dot
package.
*/
package dendro

import (
	"context"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/impurity"
	"github.com/alexwalshml/dendro/tree"
)

// Node impurities at or below this are considered pure on
// regression tasks, where accumulated float error keeps the
// variance of equal labels from reaching an exact zero.
const pureEpsilon = 1e-7

/*
Grow materializes the given dataset for the given target feature
and grows a tree predicting the target from the dataset's other
features under the given configuration.

The configuration and dataset are validated before any node is
built, so an error never leaves a partially grown tree behind.
The given context is checked between node expansions and growing
is abandoned with its error when it is cancelled.
*/
func Grow(ctx context.Context, cfg Config, ds dataset.Dataset, target feature.Feature) (*tree.Tree, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	tbl, err := dataset.Materialize(ctx, ds, target)
	if err != nil {
		return nil, err
	}
	if !taskMatches(cfg.Task, tbl) {
		return nil, ErrTaskMismatch
	}
	if cfg.MinSamplesLeaf > tbl.Count() {
		return nil, ErrLeafLargerThanDataset
	}
	reg, cls, fastVariance, err := cfg.scorers()
	if err != nil {
		return nil, err
	}
	g := &grower{cfg: cfg, tbl: tbl, reg: reg, cls: cls, fastVariance: fastVariance}
	root, err := g.grow(ctx, allRows(tbl.Count()), 0)
	if err != nil {
		return nil, err
	}
	return tree.New(root, cfg.Task, tbl.Predictors, target), nil
}

func taskMatches(task tree.Task, tbl *dataset.Table) bool {
	if tbl.IsClassification() {
		return task == tree.Classification
	}
	return task == tree.Regression
}

// grower carries the materialized dataset and scoring functions
// through the recursive expansion of a tree's nodes.
type grower struct {
	cfg          Config
	tbl          *dataset.Table
	reg          impurity.RegressionFunc
	cls          impurity.ClassificationFunc
	fastVariance bool
}

/*
grow expands the node holding the given rows at the given depth.
The node becomes a leaf when it reaches the depth bound, holds too
few samples to split, is already pure, or when no split of it is
valid, decreases impurity enough or keeps enough samples on both
sides. Otherwise the best split partitions the rows and both
sides are grown one level deeper.
*/
func (g *grower) grow(ctx context.Context, rows []int, depth int) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	imp := subsetImpurity(g.tbl, rows, g.reg, g.cls)
	if g.cfg.MaxDepth > 0 && depth >= g.cfg.MaxDepth {
		return g.leaf(rows, imp), nil
	}
	if len(rows) < g.cfg.MinSamplesSplit {
		return g.leaf(rows, imp), nil
	}
	if g.pure(rows, imp) {
		return g.leaf(rows, imp), nil
	}
	best, ok := findBestSplit(g.tbl, rows, g.reg, g.cls, g.fastVariance)
	if !ok {
		return g.leaf(rows, imp), nil
	}
	if imp-best.Impurity < g.cfg.MinImpurityDecrease {
		return g.leaf(rows, imp), nil
	}
	left, right := partitionRows(g.tbl, rows, best.Feature, best.Threshold)
	if len(left) < g.cfg.MinSamplesLeaf || len(right) < g.cfg.MinSamplesLeaf {
		return g.leaf(rows, imp), nil
	}
	leftNode, err := g.grow(ctx, left, depth+1)
	if err != nil {
		return nil, err
	}
	rightNode, err := g.grow(ctx, right, depth+1)
	if err != nil {
		return nil, err
	}
	return &tree.Branch{
		Feature:   best.Feature,
		Threshold: best.Threshold,
		Impurity:  imp,
		Weight:    len(rows),
		Left:      leftNode,
		Right:     rightNode,
	}, nil
}

// pure reports whether the rows cannot be improved by splitting:
// a single class on classification tasks, a vanishing impurity on
// regression ones.
func (g *grower) pure(rows []int, imp float64) bool {
	if g.tbl.IsClassification() {
		first := g.tbl.YC[rows[0]]
		for _, r := range rows[1:] {
			if g.tbl.YC[r] != first {
				return false
			}
		}
		return true
	}
	return imp <= pureEpsilon
}

func (g *grower) leaf(rows []int, imp float64) tree.Node {
	return &tree.Leaf{
		Impurity:   imp,
		Weight:     len(rows),
		Prediction: g.prediction(rows),
	}
}

func (g *grower) prediction(rows []int) *tree.Prediction {
	if g.tbl.IsClassification() {
		counts := make([]int, len(g.tbl.Classes))
		for _, r := range rows {
			counts[g.tbl.YC[r]]++
		}
		probabilities := make([]float64, len(counts))
		for i, c := range counts {
			probabilities[i] = float64(c) / float64(len(rows))
		}
		return tree.NewClassificationPrediction(g.tbl.Classes, probabilities, len(rows))
	}
	var sum float64
	for _, r := range rows {
		sum += g.tbl.Y[r]
	}
	return tree.NewRegressionPrediction(sum/float64(len(rows)), len(rows))
}
