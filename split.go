package dendro

import (
	"context"
	"sort"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/impurity"
)

/*
Split is a way to partition the samples of a node in two: samples
whose value for the predictor at Feature is strictly below
Threshold go left, the rest go right. Impurity is the
sample-weighted average impurity of the two sides.
*/
type Split struct {
	Feature   int
	Threshold float64
	Impurity  float64
}

/*
BestSplit materializes the given dataset for the given target
feature and returns the lowest-impurity split of its samples under
the given configuration. The returned bool is false when no
predictor value partitions the samples in two non-empty subsets.
An error is returned when the configuration is invalid or the
dataset cannot be materialized.
*/
func BestSplit(ctx context.Context, cfg Config, ds dataset.Dataset, target feature.Feature) (Split, bool, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return Split{}, false, err
	}
	tbl, err := dataset.Materialize(ctx, ds, target)
	if err != nil {
		return Split{}, false, err
	}
	if !taskMatches(cfg.Task, tbl) {
		return Split{}, false, ErrTaskMismatch
	}
	reg, cls, fastVariance, err := cfg.scorers()
	if err != nil {
		return Split{}, false, err
	}
	s, ok := findBestSplit(tbl, allRows(tbl.Count()), reg, cls, fastVariance)
	return s, ok, nil
}

/*
boundaryScorer scores the ways to split a node's samples, sorted by
one predictor, at the boundaries between consecutive sorted
positions. It is rebuilt for every predictor and walked left to
right: move takes the row crossing from the right subset into the
left one, score returns the weighted impurity of splitting with
leftN samples on the left and rightN on the right.
*/
type boundaryScorer interface {
	move(row int)
	score(leftN, rightN int) float64
}

// countScorer keeps per-class sample counts on both sides, so any
// classification metric can be evaluated exactly at each boundary.
type countScorer struct {
	yc    []int
	cls   impurity.ClassificationFunc
	left  []int
	right []int
}

func (s *countScorer) move(row int) {
	c := s.yc[row]
	s.left[c]++
	s.right[c]--
}

func (s *countScorer) score(leftN, rightN int) float64 {
	l := float64(leftN) * s.cls(s.left)
	r := float64(rightN) * s.cls(s.right)
	return (l + r) / float64(leftN+rightN)
}

// varianceScorer keeps running sums and squared sums on both
// sides, so variance is updated in constant time per boundary.
type varianceScorer struct {
	y                 []float64
	leftSum, leftSq   float64
	rightSum, rightSq float64
}

func (s *varianceScorer) move(row int) {
	v := s.y[row]
	s.leftSum += v
	s.leftSq += v * v
	s.rightSum -= v
	s.rightSq -= v * v
}

func (s *varianceScorer) score(leftN, rightN int) float64 {
	l := float64(leftN) * varianceOf(s.leftSum, s.leftSq, leftN)
	r := float64(rightN) * varianceOf(s.rightSum, s.rightSq, rightN)
	return (l + r) / float64(leftN+rightN)
}

func varianceOf(sum, sumSq float64, n int) float64 {
	if n <= 1 {
		return 0
	}
	fn := float64(n)
	mean := sum / fn
	v := sumSq/fn - mean*mean
	if v < 0 {
		// rounding can push the difference below zero
		return 0
	}
	return v
}

// sliceScorer recomputes the metric on both label subslices at
// each boundary. It is the fallback for metrics with no
// incremental update, like the median-based mean absolute error.
type sliceScorer struct {
	ys  []float64
	reg impurity.RegressionFunc
}

func (s *sliceScorer) move(row int) {}

func (s *sliceScorer) score(leftN, rightN int) float64 {
	l := float64(leftN) * s.reg(s.ys[:leftN])
	r := float64(rightN) * s.reg(s.ys[leftN:])
	return (l + r) / float64(leftN+rightN)
}

/*
findBestSplit scans every predictor of the materialized dataset
over the given rows and returns the split with the lowest weighted
impurity, or false when no predictor value splits the rows in two
non-empty subsets. Candidate thresholds are the distinct values
observed for the predictor except the lowest one, whose left
subset would be empty. Ties are broken towards the lowest
predictor index and then the lowest threshold. The impurity of the
winner is recomputed with the plain metric so that callers compare
it against node impurities computed the same way.
*/
func findBestSplit(tbl *dataset.Table, rows []int, reg impurity.RegressionFunc, cls impurity.ClassificationFunc, fastVariance bool) (Split, bool) {
	n := len(rows)
	if n < 2 {
		return Split{}, false
	}

	var totalCounts []int
	var totalSum, totalSq float64
	switch {
	case tbl.IsClassification():
		totalCounts = make([]int, len(tbl.Classes))
		for _, r := range rows {
			totalCounts[tbl.YC[r]]++
		}
	case fastVariance:
		for _, r := range rows {
			v := tbl.Y[r]
			totalSum += v
			totalSq += v * v
		}
	}
	newScorer := func(order []int) boundaryScorer {
		if tbl.IsClassification() {
			right := make([]int, len(totalCounts))
			copy(right, totalCounts)
			return &countScorer{yc: tbl.YC, cls: cls, left: make([]int, len(totalCounts)), right: right}
		}
		if fastVariance {
			return &varianceScorer{y: tbl.Y, rightSum: totalSum, rightSq: totalSq}
		}
		ys := make([]float64, len(order))
		for i, r := range order {
			ys[i] = tbl.Y[r]
		}
		return &sliceScorer{ys: ys, reg: reg}
	}

	var best Split
	found := false
	order := make([]int, n)
	for feat := range tbl.Predictors {
		feat := feat
		copy(order, rows)
		sort.Slice(order, func(i, j int) bool {
			return tbl.X[order[i]][feat] < tbl.X[order[j]][feat]
		})
		if tbl.X[order[0]][feat] == tbl.X[order[n-1]][feat] {
			continue
		}
		scorer := newScorer(order)
		for i := 1; i < n; i++ {
			scorer.move(order[i-1])
			v := tbl.X[order[i]][feat]
			if v == tbl.X[order[i-1]][feat] {
				continue
			}
			weighted := scorer.score(i, n-i)
			if !found || weighted < best.Impurity {
				found = true
				best = Split{Feature: feat, Threshold: v, Impurity: weighted}
			}
		}
	}
	if !found {
		return Split{}, false
	}
	left, right := partitionRows(tbl, rows, best.Feature, best.Threshold)
	best.Impurity = weightedImpurity(tbl, left, right, reg, cls)
	return best, true
}

// partitionRows splits rows on a predictor value, keeping the
// original row order within each side.
func partitionRows(tbl *dataset.Table, rows []int, feat int, threshold float64) (left, right []int) {
	for _, r := range rows {
		if tbl.X[r][feat] < threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

func subsetImpurity(tbl *dataset.Table, rows []int, reg impurity.RegressionFunc, cls impurity.ClassificationFunc) float64 {
	if tbl.IsClassification() {
		counts := make([]int, len(tbl.Classes))
		for _, r := range rows {
			counts[tbl.YC[r]]++
		}
		return cls(counts)
	}
	ys := make([]float64, len(rows))
	for i, r := range rows {
		ys[i] = tbl.Y[r]
	}
	return reg(ys)
}

func weightedImpurity(tbl *dataset.Table, left, right []int, reg impurity.RegressionFunc, cls impurity.ClassificationFunc) float64 {
	l := float64(len(left)) * subsetImpurity(tbl, left, reg, cls)
	r := float64(len(right)) * subsetImpurity(tbl, right, reg, cls)
	return (l + r) / float64(len(left)+len(right))
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
