// Package impurity provides the splitting criteria used to score
// how heterogeneous the labels of a subset of samples are.
package impurity

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

/*
RegressionFunc scores the heterogeneity of a set of continuous
values. A score of 0 means every value is identical.
*/
type RegressionFunc func(values []float64) float64

/*
ClassificationFunc scores the heterogeneity of a subset of samples
given its per-class sample counts. A score of 0 means a single
class holds every sample.
*/
type ClassificationFunc func(counts []int) float64

/*
Criterion names accepted by the Regression and Classification
selectors.
*/
const (
	CriterionVariance = "variance"
	CriterionMSE      = "mse"
	CriterionMAE      = "mae"
	CriterionGini     = "gini"
	CriterionEntropy  = "entropy"
)

/*
Variance returns the mean of the squared deviations of the given
values from their mean, which is the squared-error criterion for
regression splits. The sum-of-squares variant ranks splits
identically and is not exposed separately.
*/
func Variance(values []float64) float64 {
	if len(values) <= 1 {
		return 0.0
	}
	mean := stat.Mean(values, nil)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(values))
}

/*
MeanAbsoluteError returns the mean of the absolute deviations of
the given values from their median. Subsets with an even number of
values take the midpoint of the two middle values as the median.
*/
func MeanAbsoluteError(values []float64) float64 {
	if len(values) <= 1 {
		return 0.0
	}
	med := median(values)
	var sum float64
	for _, v := range values {
		sum += math.Abs(v - med)
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

/*
Gini returns the Gini impurity of a subset given its per-class
sample counts: the probability that two samples drawn from the
subset with replacement belong to different classes.
*/
func Gini(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0.0
	}
	n := float64(total)
	var sumSquares float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		sumSquares += p * p
	}
	return 1.0 - sumSquares
}

/*
Entropy returns the Shannon entropy in bits of a subset given its
per-class sample counts. Classes with no samples contribute
nothing, following the 0*log2(0) = 0 convention.
*/
func Entropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0.0
	}
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, float64(c)/float64(total))
	}
	return stat.Entropy(p) / math.Ln2
}

/*
Regression returns the regression criterion registered under the
given name. The empty name selects variance, and "mse" is accepted
as an alias for it.
*/
func Regression(name string) (RegressionFunc, error) {
	switch name {
	case "", CriterionVariance, CriterionMSE:
		return Variance, nil
	case CriterionMAE:
		return MeanAbsoluteError, nil
	}
	return nil, fmt.Errorf("unknown regression criterion %q", name)
}

/*
Classification returns the classification criterion registered
under the given name. The empty name selects gini.
*/
func Classification(name string) (ClassificationFunc, error) {
	switch name {
	case "", CriterionGini:
		return Gini, nil
	case CriterionEntropy:
		return Entropy, nil
	}
	return nil, fmt.Errorf("unknown classification criterion %q", name)
}
