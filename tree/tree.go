package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
)

// Tree represents a grown regression or classification tree. It
// is composed of the root node of the tree, the task it was grown
// for, the predictor features its split feature indexes refer to
// and the target feature it predicts.
type Tree struct {
	Root     Node
	Task     Task
	Features []feature.Feature
	Target   feature.Feature
}

// New takes a root node, a task, the predictor features in split
// index order and a target feature, and returns the tree composed
// of them.
func New(root Node, task Task, features []feature.Feature, target feature.Feature) *Tree {
	return &Tree{Root: root, Task: task, Features: features, Target: target}
}

// Predict takes a feature vector with one value per predictor
// feature, in the tree's feature order, and returns the
// prediction the tree makes for it: the descent from the root
// goes left wherever the vector's value for the split feature is
// strictly below the threshold and right otherwise, until it ends
// on a leaf.
//
// Predict takes no locks and is safe to call from any number of
// goroutines at once.
func (t *Tree) Predict(x []float64) (*Prediction, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("nil tree cannot predict samples")
	}
	if len(x) != len(t.Features) {
		return nil, ErrDimensionMismatch
	}
	n := t.Root
	for {
		switch node := n.(type) {
		case *Branch:
			if node.Feature < 0 || node.Feature >= len(x) {
				return nil, ErrMalformedTree
			}
			if x[node.Feature] < node.Threshold {
				n = node.Left
			} else {
				n = node.Right
			}
		case *Leaf:
			if node.Prediction == nil {
				return nil, ErrNoPrediction
			}
			return node.Prediction, nil
		default:
			return nil, ErrMalformedTree
		}
	}
}

// PredictSample takes a sample and returns the prediction the
// tree makes for it, resolving through the sample's ValueFor only
// the feature values the root-to-leaf descent actually visits.
// A sample without a usable value for a visited feature cannot be
// predicted and yields ErrCannotPredictFromSample.
func (t *Tree) PredictSample(ctx context.Context, s dataset.Sample) (*Prediction, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("nil tree cannot predict samples")
	}
	n := t.Root
	for {
		switch node := n.(type) {
		case *Branch:
			if node.Feature < 0 || node.Feature >= len(t.Features) {
				return nil, ErrMalformedTree
			}
			f := t.Features[node.Feature]
			v, err := s.ValueFor(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("predicting sample: obtaining value for feature %s: %v", f.Name(), err)
			}
			if v == nil {
				return nil, ErrCannotPredictFromSample
			}
			value, err := feature.Number(v)
			if err != nil {
				return nil, ErrCannotPredictFromSample
			}
			if value < node.Threshold {
				n = node.Left
			} else {
				n = node.Right
			}
		case *Leaf:
			if node.Prediction == nil {
				return nil, ErrNoPrediction
			}
			return node.Prediction, nil
		default:
			return nil, ErrMalformedTree
		}
	}
}

// Traverse goes through the tree in preorder running the given
// function with every node, its depth in edges from the root and
// its parent node, which is nil for the root. If a call to the
// function returns an error the traversing is aborted and the
// error returned. Otherwise, when the traversing is over, nil is
// returned.
func (t *Tree) Traverse(f func(n Node, depth int, parent Node) error) error {
	if t == nil || t.Root == nil {
		return nil
	}
	return traverse(t.Root, 0, nil, f)
}

func traverse(n Node, depth int, parent Node, f func(Node, int, Node) error) error {
	if err := f(n, depth, parent); err != nil {
		return err
	}
	if b, ok := n.(*Branch); ok {
		if err := traverse(b.Left, depth+1, b, f); err != nil {
			return err
		}
		if err := traverse(b.Right, depth+1, b, f); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the longest root-to-leaf edge count of the tree.
// A tree whose root is a leaf has depth 0.
func (t *Tree) Depth() int {
	var max int
	t.Traverse(func(n Node, depth int, parent Node) error {
		if depth > max {
			max = depth
		}
		return nil
	})
	return max
}

// Leaves returns the number of leaves of the tree
func (t *Tree) Leaves() int {
	var count int
	t.Traverse(func(n Node, depth int, parent Node) error {
		if _, ok := n.(*Leaf); ok {
			count++
		}
		return nil
	})
	return count
}

// Nodes returns the total number of nodes of the tree, branches
// and leaves both.
func (t *Tree) Nodes() int {
	var count int
	t.Traverse(func(n Node, depth int, parent Node) error {
		count++
		return nil
	})
	return count
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return ""
	}
	return t.subtreeString(t.Root)
}

func (t *Tree) subtreeString(n Node) string {
	switch node := n.(type) {
	case *Branch:
		name := fmt.Sprintf("feature %d", node.Feature)
		if node.Feature >= 0 && node.Feature < len(t.Features) {
			name = t.Features[node.Feature].Name()
		}
		result := fmt.Sprintf("{ %s < %v }\n|\n", name, node.Threshold)
		for i, child := range []Node{node.Left, node.Right} {
			for j, line := range strings.Split(t.subtreeString(child), "\n") {
				if len(line) == 0 {
					continue
				}
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else if i == 1 {
					result = fmt.Sprintf("%s   %s\n", result, line)
				} else {
					result = fmt.Sprintf("%s|  %s\n", result, line)
				}
			}
		}
		return result
	case *Leaf:
		return fmt.Sprintf("{ %v }\n \n", node.Prediction)
	}
	return ""
}
