package dendro

import (
	"github.com/alexwalshml/dendro/impurity"
	"github.com/alexwalshml/dendro/tree"
)

/*
Config collects the settings that govern how a tree is grown.
The zero value of every field other than Task selects a sensible
default, so a Config carrying just a task grows a fully unbounded
tree with the task's default criterion.
*/
type Config struct {
	// Task selects regression or classification growing. It must
	// match the kind of the target feature: continuous targets are
	// grown with tree.Regression, discrete ones with
	// tree.Classification.
	Task tree.Task
	// Criterion names the impurity metric splits are scored with:
	// variance (or its alias mse) and mae for regression, gini and
	// entropy for classification. Empty selects the task default.
	Criterion string
	// MaxDepth caps the edge depth of the grown tree. Zero grows
	// without a depth bound.
	MaxDepth int
	// MinSamplesSplit is the number of samples a node must hold for
	// a split of it to be attempted. Zero selects the default of 2.
	MinSamplesSplit int
	// MinSamplesLeaf is the number of samples every child of an
	// accepted split must retain. Zero selects the default of 1.
	MinSamplesLeaf int
	// MinImpurityDecrease is the smallest reduction from a node's
	// impurity to the weighted impurity of its children that makes
	// a split acceptable.
	MinImpurityDecrease float64
}

/*
ConfigError is the kind of error returned when a Config breaks
one of its preconditions. It is detected eagerly when growing
starts, before any node is built.
*/
type ConfigError string

func (ce ConfigError) Error() string {
	return string(ce)
}

/*
Errors returned when validating a Config against a dataset
*/
const (
	ErrUnknownTask                 ConfigError = "the task must be regression or classification"
	ErrNegativeMaxDepth            ConfigError = "the maximum depth cannot be negative"
	ErrNegativeMinSamplesSplit     ConfigError = "the minimum samples to split cannot be negative"
	ErrNegativeMinSamplesLeaf      ConfigError = "the minimum samples per leaf cannot be negative"
	ErrNegativeMinImpurityDecrease ConfigError = "the minimum impurity decrease cannot be negative"
	ErrUnknownCriterion            ConfigError = "the criterion is not known for the task"
	ErrTaskMismatch                ConfigError = "the task does not match the target feature kind"
	ErrLeafLargerThanDataset       ConfigError = "the minimum samples per leaf exceeds the dataset sample count"
)

func (c Config) withDefaults() Config {
	if c.MinSamplesSplit == 0 {
		c.MinSamplesSplit = 2
	}
	if c.MinSamplesLeaf == 0 {
		c.MinSamplesLeaf = 1
	}
	return c
}

func (c Config) validate() error {
	if c.Task != tree.Regression && c.Task != tree.Classification {
		return ErrUnknownTask
	}
	if c.MaxDepth < 0 {
		return ErrNegativeMaxDepth
	}
	if c.MinSamplesSplit < 0 {
		return ErrNegativeMinSamplesSplit
	}
	if c.MinSamplesLeaf < 0 {
		return ErrNegativeMinSamplesLeaf
	}
	if c.MinImpurityDecrease < 0 {
		return ErrNegativeMinImpurityDecrease
	}
	_, _, _, err := c.scorers()
	return err
}

// scorers returns the impurity functions selected by the config's
// task and criterion, and whether the incremental variance scan
// applies.
func (c Config) scorers() (impurity.RegressionFunc, impurity.ClassificationFunc, bool, error) {
	switch c.Task {
	case tree.Regression:
		reg, err := impurity.Regression(c.Criterion)
		if err != nil {
			return nil, nil, false, ErrUnknownCriterion
		}
		fast := c.Criterion == "" || c.Criterion == impurity.CriterionVariance || c.Criterion == impurity.CriterionMSE
		return reg, nil, fast, nil
	case tree.Classification:
		cls, err := impurity.Classification(c.Criterion)
		if err != nil {
			return nil, nil, false, ErrUnknownCriterion
		}
		return nil, cls, false, nil
	}
	return nil, nil, false, ErrUnknownTask
}
