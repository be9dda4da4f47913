package dataset

import (
	"context"

	"github.com/alexwalshml/dendro/feature"
)

/*
Table is the dense, materialized view of a dataset that tree
growing works on: a rectangular predictor matrix with a parallel
label column. Regression tables fill Y, classification tables
fill YC with indexes into Classes.
*/
type Table struct {
	X          [][]float64
	Y          []float64
	YC         []int
	Predictors []feature.Feature
	Target     feature.Feature
	Classes    []string
}

/*
IsClassification returns whether the table holds class indexes
rather than continuous labels.
*/
func (t *Table) IsClassification() bool {
	return t.YC != nil
}

/*
Count returns the number of samples laid out on the table
*/
func (t *Table) Count() int {
	return len(t.X)
}

/*
Materialize reads every sample of the given dataset and lays it
out as a Table for the given target feature. Predictor values are
converted to float64 with feature.Number. Missing values, values
outside a discrete target's available values and non-numeric
predictor values are InputErrors, as is a dataset whose features
other than the target are not all continuous.
*/
func Materialize(ctx context.Context, ds Dataset, target feature.Feature) (*Table, error) {
	if target == nil {
		return nil, ErrTargetNotFound
	}
	var predictors []feature.Feature
	found := false
	for _, f := range ds.Features() {
		if f.Name() == target.Name() {
			found = true
			continue
		}
		if _, ok := f.(*feature.ContinuousFeature); !ok {
			return nil, ErrDiscretePredictor
		}
		predictors = append(predictors, f)
	}
	if !found {
		return nil, ErrTargetNotFound
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	t := &Table{
		X:          make([][]float64, 0, len(samples)),
		Predictors: predictors,
		Target:     target,
	}
	var discreteTarget *feature.DiscreteFeature
	switch tf := target.(type) {
	case *feature.DiscreteFeature:
		discreteTarget = tf
		t.Classes = tf.AvailableValues()
		t.YC = make([]int, 0, len(samples))
	case *feature.ContinuousFeature:
		t.Y = make([]float64, 0, len(samples))
	default:
		return nil, ErrBadTarget
	}
	for _, s := range samples {
		row := make([]float64, len(predictors))
		for j, f := range predictors {
			v, err := s.ValueFor(ctx, f)
			if err != nil {
				return nil, err
			}
			if v == nil {
				return nil, ErrMissingValue
			}
			n, err := feature.Number(v)
			if err != nil {
				return nil, ErrNonNumericValue
			}
			row[j] = n
		}
		v, err := s.ValueFor(ctx, target)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, ErrMissingValue
		}
		if discreteTarget != nil {
			vs, ok := v.(string)
			if !ok {
				return nil, ErrUnknownClass
			}
			ci, ok := discreteTarget.ValueIndex(vs)
			if !ok {
				return nil, ErrUnknownClass
			}
			t.YC = append(t.YC, ci)
		} else {
			n, err := feature.Number(v)
			if err != nil {
				return nil, ErrNonNumericValue
			}
			t.Y = append(t.Y, n)
		}
		t.X = append(t.X, row)
	}
	return t, nil
}
