package json

import (
	"encoding/json"
	"fmt"

	"github.com/alexwalshml/dendro/tree"
)

const (
	branchKind = "b"
	leafKind   = "l"
)

type jsonBranch struct {
	Kind      string  `json:"k"`
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Impurity  float64 `json:"imp"`
	Weight    int     `json:"w"`
}

type jsonLeaf struct {
	Kind       string          `json:"k"`
	Impurity   float64         `json:"imp"`
	Weight     int             `json:"w"`
	Prediction *jsonPrediction `json:"pred,omitempty"`
}

type jsonNode struct {
	Kind       string          `json:"k"`
	Feature    int             `json:"f"`
	Threshold  float64         `json:"t"`
	Impurity   float64         `json:"imp"`
	Weight     int             `json:"w"`
	Prediction *jsonPrediction `json:"pred"`
}

type jsonPrediction struct {
	Value         *float64  `json:"value,omitempty"`
	Probabilities []float64 `json:"probs,omitempty"`
	Weight        int       `json:"w"`
}

func encodeNode(n tree.Node) ([]byte, error) {
	switch n := n.(type) {
	case *tree.Branch:
		return json.Marshal(&jsonBranch{
			Kind:      branchKind,
			Feature:   n.Feature,
			Threshold: n.Threshold,
			Impurity:  n.Impurity,
			Weight:    n.Weight,
		})
	case *tree.Leaf:
		jl := &jsonLeaf{
			Kind:     leafKind,
			Impurity: n.Impurity,
			Weight:   n.Weight,
		}
		if n.Prediction != nil {
			jp, err := encodePrediction(n.Prediction)
			if err != nil {
				return nil, err
			}
			jl.Prediction = jp
		}
		return json.Marshal(jl)
	}
	return nil, fmt.Errorf("cannot encode nodes of type %T", n)
}

func encodePrediction(p *tree.Prediction) (*jsonPrediction, error) {
	jp := &jsonPrediction{Weight: p.Weight()}
	if p.Task() == tree.Regression {
		v, err := p.Value()
		if err != nil {
			return nil, err
		}
		jp.Value = &v
		return jp, nil
	}
	jp.Probabilities = p.Probabilities()
	return jp, nil
}

// decodeNodes rebuilds the subtree rooted at position pos of a
// preorder node list and returns it along with the position right
// after the subtree.
func decodeNodes(nodes []*jsonNode, pos int, task tree.Task, dims int, classes []string) (tree.Node, int, error) {
	if pos >= len(nodes) {
		return nil, pos, fmt.Errorf("node list ends before the tree is complete")
	}
	jn := nodes[pos]
	switch jn.Kind {
	case branchKind:
		if jn.Feature < 0 || jn.Feature >= dims {
			return nil, pos, fmt.Errorf("node %d splits on unknown feature %d", pos, jn.Feature)
		}
		left, next, err := decodeNodes(nodes, pos+1, task, dims, classes)
		if err != nil {
			return nil, pos, err
		}
		right, next, err := decodeNodes(nodes, next, task, dims, classes)
		if err != nil {
			return nil, pos, err
		}
		return &tree.Branch{
			Feature:   jn.Feature,
			Threshold: jn.Threshold,
			Impurity:  jn.Impurity,
			Weight:    jn.Weight,
			Left:      left,
			Right:     right,
		}, next, nil
	case leafKind:
		leaf := &tree.Leaf{Impurity: jn.Impurity, Weight: jn.Weight}
		if jn.Prediction != nil {
			p, err := decodePrediction(jn.Prediction, task, classes)
			if err != nil {
				return nil, pos, fmt.Errorf("node %d: %v", pos, err)
			}
			leaf.Prediction = p
		}
		return leaf, pos + 1, nil
	}
	return nil, pos, fmt.Errorf("node %d has unknown kind %q", pos, jn.Kind)
}

func decodePrediction(jp *jsonPrediction, task tree.Task, classes []string) (*tree.Prediction, error) {
	if task == tree.Regression {
		if jp.Value == nil {
			return nil, fmt.Errorf("regression prediction carries no value")
		}
		return tree.NewRegressionPrediction(*jp.Value, jp.Weight), nil
	}
	if len(jp.Probabilities) != len(classes) {
		return nil, fmt.Errorf("prediction carries %d probabilities for %d classes", len(jp.Probabilities), len(classes))
	}
	return tree.NewClassificationPrediction(classes, jp.Probabilities, jp.Weight), nil
}
