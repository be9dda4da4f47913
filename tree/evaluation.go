package tree

import (
	"context"
	"fmt"
	"math"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"gonum.org/v1/gonum/stat"
)

/*
Evaluation holds the result of testing a tree against a dataset.
Count is the number of samples in the dataset and Failed how many
of them the tree could not predict. Classification trees report
Correct and Accuracy, with accuracy counting failed samples as
misses. Regression trees report MSE, MAE and R2 over the samples
that could be evaluated.
*/
type Evaluation struct {
	Task   Task
	Count  int
	Failed int

	Correct  int
	Accuracy float64

	MSE float64
	MAE float64
	R2  float64
}

/*
Evaluate tests the tree against every sample of the given dataset
and returns the resulting Evaluation. Samples the tree cannot
predict because they lack usable feature values are counted as
failed instead of aborting the run; any other error aborts it.
*/
func (t *Tree) Evaluate(ctx context.Context, ds dataset.Dataset) (*Evaluation, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tree cannot be evaluated")
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, dataset.ErrNoSamples
	}
	ev := &Evaluation{Task: t.Task, Count: len(samples)}
	var predicted, actual []float64
	for _, s := range samples {
		p, err := t.PredictSample(ctx, s)
		if err != nil {
			if err == ErrCannotPredictFromSample {
				ev.Failed++
				continue
			}
			return nil, err
		}
		v, err := s.ValueFor(ctx, t.Target)
		if err != nil {
			return nil, err
		}
		if t.Task == Classification {
			class, err := p.Class()
			if err != nil {
				return nil, err
			}
			if vs, ok := v.(string); ok && vs == class {
				ev.Correct++
			}
			continue
		}
		value, err := p.Value()
		if err != nil {
			return nil, err
		}
		label, err := feature.Number(v)
		if err != nil {
			return nil, fmt.Errorf("evaluating tree: value for feature %s: %v", t.Target.Name(), err)
		}
		predicted = append(predicted, value)
		actual = append(actual, label)
	}
	if t.Task == Classification {
		ev.Accuracy = float64(ev.Correct) / float64(ev.Count)
		return ev, nil
	}
	if len(actual) == 0 {
		return nil, fmt.Errorf("evaluating tree: no sample could be evaluated")
	}
	var mse, mae float64
	for i := range actual {
		d := predicted[i] - actual[i]
		mse += d * d
		mae += math.Abs(d)
	}
	n := float64(len(actual))
	ev.MSE = mse / n
	ev.MAE = mae / n
	ev.R2 = stat.RSquaredFrom(predicted, actual, nil)
	return ev, nil
}

func (e *Evaluation) String() string {
	if e.Task == Classification {
		return fmt.Sprintf("accuracy %.4f (%d/%d correct, %d failed)", e.Accuracy, e.Correct, e.Count, e.Failed)
	}
	return fmt.Sprintf("mse %.4f, mae %.4f, r2 %.4f (%d samples, %d failed)", e.MSE, e.MAE, e.R2, e.Count, e.Failed)
}
