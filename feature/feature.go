package feature

import "fmt"

/*
Feature is a property that can be observed on every sample of a
dataset: a named column with a validation rule for its values.
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
ContinuousFeature is a feature taking numeric values. Predictor
columns are always continuous, and so is the target feature of a
regression tree.
*/
type ContinuousFeature struct {
	name string
}

/*
DiscreteFeature is a feature taking one value out of a finite set.
The target feature of a classification tree is discrete, and the
order of its available values fixes the class index order used for
distributions and majority tie-breaking.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
NewContinuousFeature returns a continuous feature with the given
name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
NewDiscreteFeature returns a discrete feature with the given name
and available values, keeping the given value order.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
Name returns the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid returns true when the given value is numeric, that is, when
Number can convert it to a float64. Nil values are invalid: samples
are expected to arrive with no missing values.
*/
func (cf *ContinuousFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return false, fmt.Errorf("continuous feature %s got no value", cf.name)
	}
	if _, err := Number(value); err != nil {
		return false, fmt.Errorf("continuous feature %s: %v", cf.name, err)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
Name returns the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid returns true when the given value is one of the feature's
available values. Nil values are invalid: samples are expected to
arrive with no missing values.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return false, fmt.Errorf("discrete feature %s got no value", df.name)
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.name, value)
	}
	if _, ok := df.ValueIndex(vs); !ok {
		return false, fmt.Errorf("discrete feature %s got unknown value %s", df.name, vs)
	}
	return true, nil
}

/*
AvailableValues returns the values available for the feature in
their declared order
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

/*
ValueIndex returns the index of the given value in the feature's
available values, and whether the value is available at all.
*/
func (df *DiscreteFeature) ValueIndex(value string) (int, bool) {
	for i, av := range df.availableValues {
		if av == value {
			return i, true
		}
	}
	return 0, false
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Number converts a value obtained for a continuous feature into a
float64. Integer and float values of the usual widths are
accepted, anything else is an error.
*/
func Number(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected numeric value, got %T value", value)
}
