package dataset

import (
	"context"
	"fmt"

	"github.com/alexwalshml/dendro/feature"
	"gonum.org/v1/gonum/mat"
)

/*
Dataset represents a collection of samples sharing a set of
features.

Its Features method returns the features every sample in the
collection can be asked for.

Its Samples method returns the samples it contains, and its Count
method how many there are. Both take a context because backend
implementations may have to reach storage to answer.
*/
type Dataset interface {
	Features() []feature.Feature
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
}

/*
InputError is the kind of error returned when the data handed to
the library breaks one of its preconditions.
*/
type InputError string

func (ie InputError) Error() string {
	return string(ie)
}

/*
Errors returned when validating input data
*/
const (
	ErrNoSamples         InputError = "dataset has no samples"
	ErrRaggedMatrix      InputError = "dataset samples have differing feature counts"
	ErrLabelMismatch     InputError = "dataset sample and label counts differ"
	ErrMissingValue      InputError = "sample has no value for a required feature"
	ErrNonNumericValue   InputError = "sample has a non-numeric value for a continuous feature"
	ErrUnknownClass      InputError = "sample has a value outside the target feature's available values"
	ErrDiscretePredictor InputError = "discrete features can only be used as the classification target"
	ErrTargetNotFound    InputError = "the target feature does not belong to the dataset"
	ErrBadTarget         InputError = "the target feature must be continuous or discrete"
)

/*
Memory is the in-memory Dataset implementation. Datasets built
with the FromFloats, FromLabels and FromMat constructors also keep
track of which feature is the training target.
*/
type Memory struct {
	features []feature.Feature
	target   feature.Feature
	samples  []Sample
}

/*
New takes a feature slice and a sample slice and returns an
in-memory dataset built with them.
*/
func New(features []feature.Feature, samples []Sample) *Memory {
	return &Memory{features: features, samples: samples}
}

/*
FromFloats takes a rectangular matrix of predictor values and a
parallel slice of continuous labels and returns a regression
dataset. Predictors are named x0 through x{d-1} and the label
feature is named y.
*/
func FromFloats(x [][]float64, y []float64) (*Memory, error) {
	if len(x) != len(y) {
		return nil, ErrLabelMismatch
	}
	features, err := vectorFeatures(x)
	if err != nil {
		return nil, err
	}
	target := feature.NewContinuousFeature("y")
	samples := make([]Sample, 0, len(x))
	for i, row := range x {
		samples = append(samples, rowSample(features, row, target, y[i]))
	}
	return &Memory{
		features: append(features, target),
		target:   target,
		samples:  samples,
	}, nil
}

/*
FromLabels takes a rectangular matrix of predictor values and a
parallel slice of class labels and returns a classification
dataset. Predictors are named x0 through x{d-1} and the label
feature is named class, with its available values in first-seen
order.
*/
func FromLabels(x [][]float64, labels []string) (*Memory, error) {
	if len(x) != len(labels) {
		return nil, ErrLabelMismatch
	}
	features, err := vectorFeatures(x)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var classes []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	target := feature.NewDiscreteFeature("class", classes)
	samples := make([]Sample, 0, len(x))
	for i, row := range x {
		samples = append(samples, rowSample(features, row, target, labels[i]))
	}
	return &Memory{
		features: append(features, target),
		target:   target,
		samples:  samples,
	}, nil
}

/*
FromClasses takes a rectangular matrix of predictor values, a
parallel slice of class indexes and the class list the indexes
point into, and returns a classification dataset. Predictors are
named x0 through x{d-1} and the label feature is named class, with
the given class list as its available values. Indexes outside the
class list are an ErrUnknownClass.
*/
func FromClasses(x [][]float64, indexes []int, classes []string) (*Memory, error) {
	if len(x) != len(indexes) {
		return nil, ErrLabelMismatch
	}
	features, err := vectorFeatures(x)
	if err != nil {
		return nil, err
	}
	target := feature.NewDiscreteFeature("class", classes)
	samples := make([]Sample, 0, len(x))
	for i, row := range x {
		ci := indexes[i]
		if ci < 0 || ci >= len(classes) {
			return nil, ErrUnknownClass
		}
		samples = append(samples, rowSample(features, row, target, classes[ci]))
	}
	return &Memory{
		features: append(features, target),
		target:   target,
		samples:  samples,
	}, nil
}

/*
FromMat takes a gonum matrix of predictor values and a parallel
slice of continuous labels and returns a regression dataset built
as FromFloats would.
*/
func FromMat(m mat.Matrix, y []float64) (*Memory, error) {
	rows, cols := m.Dims()
	x := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = m.At(i, j)
		}
		x[i] = row
	}
	return FromFloats(x, y)
}

/*
Features returns the features of the dataset, the target feature
included as the last one for constructor-built datasets.
*/
func (m *Memory) Features() []feature.Feature {
	return m.features
}

/*
Target returns the feature the dataset was built to predict, or
nil for datasets assembled with New.
*/
func (m *Memory) Target() feature.Feature {
	return m.target
}

/*
Samples returns the samples of the dataset
*/
func (m *Memory) Samples(ctx context.Context) ([]Sample, error) {
	return m.samples, nil
}

/*
Count returns the number of samples of the dataset
*/
func (m *Memory) Count(ctx context.Context) (int, error) {
	return len(m.samples), nil
}

func vectorFeatures(x [][]float64) ([]feature.Feature, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	dims := len(x[0])
	for _, row := range x {
		if len(row) != dims {
			return nil, ErrRaggedMatrix
		}
	}
	features := make([]feature.Feature, 0, dims+1)
	for j := 0; j < dims; j++ {
		features = append(features, feature.NewContinuousFeature(fmt.Sprintf("x%d", j)))
	}
	return features, nil
}

func rowSample(predictors []feature.Feature, row []float64, target feature.Feature, label interface{}) MapSample {
	ms := make(MapSample, len(row)+1)
	for j, f := range predictors {
		ms[f.Name()] = row[j]
	}
	ms[target.Name()] = label
	return ms
}
