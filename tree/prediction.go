package tree

import (
	"fmt"
	"strings"
)

/*
Prediction represents the value a tree predicts at one of its
leaves: the mean label for regression trees, or the class
distribution observed at the leaf for classification trees.
*/
type Prediction struct {
	task          Task
	value         float64
	classes       []string
	probabilities []float64
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
Errors returned when predicting or reading predictions
*/
const (
	// ErrCannotPredictFromSample is returned by PredictSample when the
	// sample has no usable value for a feature the descent needs, as
	// opposed to cases where obtaining the value itself fails.
	ErrCannotPredictFromSample PredictionError = "no prediction available for this kind of sample"
	// ErrDimensionMismatch is returned by Predict when the feature
	// vector's length does not match the tree's feature count.
	ErrDimensionMismatch PredictionError = "the feature vector length does not match the tree's features"
	// ErrNotRegression is returned by Value on predictions of
	// classification trees.
	ErrNotRegression PredictionError = "the prediction is not from a regression tree"
	// ErrNotClassification is returned by Class and ProbabilityOf on
	// predictions of regression trees.
	ErrNotClassification PredictionError = "the prediction is not from a classification tree"
	// ErrNoPrediction is returned when a descent ends on a leaf that
	// carries no prediction.
	ErrNoPrediction PredictionError = "the leaf holds no prediction"
	// ErrMalformedTree is returned when a descent runs into a node
	// referencing features the tree does not have.
	ErrMalformedTree PredictionError = "the tree structure is malformed"
)

/*
NewRegressionPrediction takes the mean label of the samples a leaf
was built from and their number and returns a prediction
representing them.
*/
func NewRegressionPrediction(value float64, weight int) *Prediction {
	return &Prediction{task: Regression, value: value, weight: weight}
}

/*
NewClassificationPrediction takes the class names of a tree's
target feature, the probability of each class among the samples a
leaf was built from and their number, and returns a prediction
representing them. Classes and probabilities are parallel slices
in class index order.
*/
func NewClassificationPrediction(classes []string, probabilities []float64, weight int) *Prediction {
	return &Prediction{
		task:          Classification,
		classes:       classes,
		probabilities: probabilities,
		weight:        weight,
	}
}

/*
Task returns the task of the tree the prediction was made by
*/
func (p *Prediction) Task() Task {
	return p.task
}

/*
Value returns the predicted continuous value. It returns
ErrNotRegression when the prediction was made by a classification
tree.
*/
func (p *Prediction) Value() (float64, error) {
	if p.task != Regression {
		return 0, ErrNotRegression
	}
	return p.value, nil
}

/*
Class returns the predicted class: the one with the highest
probability, ties broken in favor of the lowest class index. It
returns ErrNotClassification when the prediction was made by a
regression tree or holds no class distribution.
*/
func (p *Prediction) Class() (string, error) {
	if p.task != Classification || len(p.probabilities) == 0 {
		return "", ErrNotClassification
	}
	best := 0
	for i, prob := range p.probabilities {
		if prob > p.probabilities[best] {
			best = i
		}
	}
	return p.classes[best], nil
}

/*
Classes returns the class names of the prediction in class index
order, or nil for regression predictions.
*/
func (p *Prediction) Classes() []string {
	return p.classes
}

/*
Probabilities returns the probability of each class in class index
order, or nil for regression predictions.
*/
func (p *Prediction) Probabilities() []float64 {
	return p.probabilities
}

/*
ProbabilityOf takes a class name and returns its probability
according to the prediction. Class names the prediction does not
know have probability 0.
*/
func (p *Prediction) ProbabilityOf(class string) (float64, error) {
	if p.task != Classification {
		return 0, ErrNotClassification
	}
	for i, c := range p.classes {
		if c == class {
			return p.probabilities[i], nil
		}
	}
	return 0, nil
}

/*
Weight returns the weight of the prediction: the number of
training samples at the leaf the prediction was built from.
*/
func (p *Prediction) Weight() int {
	return p.weight
}

func (p *Prediction) String() string {
	if p.task == Regression {
		return fmt.Sprintf("%g", p.value)
	}
	parts := make([]string, 0, len(p.classes))
	for i, c := range p.classes {
		parts = append(parts, fmt.Sprintf("%s:%g", c, p.probabilities[i]))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
