package tree

/*
FeatureImportances returns the importance of every predictor
feature of the tree, indexed like the tree's features: the total
impurity reduction achieved by the splits on each feature,
weighted by the fraction of training samples reaching them, and
normalized so that all importances sum to 1. A tree made of a
single leaf splits on nothing and has all-zero importances.
*/
func (t *Tree) FeatureImportances() []float64 {
	if t == nil {
		return nil
	}
	importances := make([]float64, len(t.Features))
	if t.Root == nil {
		return importances
	}
	rootWeight, _ := nodeStats(t.Root)
	if rootWeight == 0 {
		return importances
	}
	var total float64
	t.Traverse(func(n Node, depth int, parent Node) error {
		b, ok := n.(*Branch)
		if !ok {
			return nil
		}
		if b.Feature < 0 || b.Feature >= len(importances) || b.Weight == 0 {
			return nil
		}
		leftWeight, leftImpurity := nodeStats(b.Left)
		rightWeight, rightImpurity := nodeStats(b.Right)
		weightedChildImpurity := (float64(leftWeight)*leftImpurity + float64(rightWeight)*rightImpurity) / float64(b.Weight)
		contribution := (float64(b.Weight) / float64(rootWeight)) * (b.Impurity - weightedChildImpurity)
		importances[b.Feature] += contribution
		total += contribution
		return nil
	})
	if total > 0 {
		for i := range importances {
			importances[i] /= total
		}
	}
	return importances
}

func nodeStats(n Node) (weight int, impurity float64) {
	switch node := n.(type) {
	case *Branch:
		return node.Weight, node.Impurity
	case *Leaf:
		return node.Weight, node.Impurity
	}
	return 0, 0
}
