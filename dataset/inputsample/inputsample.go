/*
Package inputsample provides an implementation of dataset.Sample
whose feature values are read from an io.Reader as they are asked
for, the way an interactive prediction session needs them.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"strconv"
)

/*
FeatureValueRequester represents a way to ask for feature values
and to reject the values given for them.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, interface{}) error
}

type readSample struct {
	obtainedValues        map[string]interface{}
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []feature.Feature
}

/*
New takes an io.Reader, a slice of features, a
FeatureValueRequester and a string coding for an undefined value,
and returns a dataset.Sample whose ValueFor method reads feature
values from the reader, requesting each one first through the
given FeatureValueRequester.

Values are expected one per line. For a continuous feature, lines
are read until one holds a valid float64 number; for a discrete
feature, until one holds one of the feature's available values.
Rejected lines are notified through the FeatureValueRequester's
RejectValueFor method. A line holding exactly the undefined value
string yields a nil value. Values already read are not requested
again.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) dataset.Sample {
	return &readSample{
		obtainedValues:        make(map[string]interface{}),
		undefinedValue:        undefinedValue,
		scanner:               bufio.NewScanner(r),
		featureValueRequester: featureValueRequester,
		features:              features,
	}
}

func (rs *readSample) ValueFor(_ context.Context, f feature.Feature) (interface{}, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	var featureWithInfo feature.Feature
	for _, known := range rs.features {
		if f.Name() == known.Name() {
			featureWithInfo = known
			break
		}
	}
	if featureWithInfo == nil {
		return nil, fmt.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	if err := rs.featureValueRequester.RequestValueFor(featureWithInfo); err != nil {
		return nil, err
	}
	switch featureWithInfo := featureWithInfo.(type) {
	case *feature.ContinuousFeature:
		return rs.readContinuousFeature(featureWithInfo)
	case *feature.DiscreteFeature:
		return rs.readDiscreteFeature(featureWithInfo)
	}
	return nil, fmt.Errorf("do not know how to read a value for features of type %T", featureWithInfo)
}

func (rs *readSample) readContinuousFeature(f *feature.ContinuousFeature) (interface{}, error) {
	var err error
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			rs.obtainedValues[f.Name()] = nil
			return nil, nil
		}
		value, parseErr := strconv.ParseFloat(line, 64)
		if parseErr == nil {
			rs.obtainedValues[f.Name()] = value
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	if err := rs.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for feature %s", f.Name())
}

func (rs *readSample) readDiscreteFeature(df *feature.DiscreteFeature) (interface{}, error) {
	var err error
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			rs.obtainedValues[df.Name()] = nil
			return nil, nil
		}
		if _, ok := df.ValueIndex(line); ok {
			rs.obtainedValues[df.Name()] = line
			return line, nil
		}
		err = rs.featureValueRequester.RejectValueFor(df, line)
		if err != nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	if err := rs.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for feature %s", df.Name())
}
