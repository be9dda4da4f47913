package tree

/*
Node is a node of a grown tree: either a *Branch holding a split
and two children or a *Leaf holding a prediction. Code walking a
tree switches on the concrete type instead of checking for the
presence of children.
*/
type Node interface {
	node()
}

/*
Branch is an internal node of a tree. Samples whose value for the
split feature is strictly below the threshold descend into Left,
every other sample descends into Right.

Impurity is the impurity score of the training samples that
reached the branch when the tree was grown, and Weight how many
of them there were.
*/
type Branch struct {
	Feature   int
	Threshold float64
	Impurity  float64
	Weight    int
	Left      Node
	Right     Node
}

func (b *Branch) node() {}

/*
Leaf is a terminal node of a tree, holding the prediction for
every sample whose root-to-leaf descent ends on it, along with the
impurity score and number of the training samples it was built
from.
*/
type Leaf struct {
	Impurity   float64
	Weight     int
	Prediction *Prediction
}

func (l *Leaf) node() {}
