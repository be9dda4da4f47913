package sqldataset

import (
	"context"
	"fmt"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
)

/*
Adapter is an interface for the database-specific side of a SQL
dataset: building and running the statements that create the
samples table and insert, list and count its rows. Implementations
exist for PostgreSQL and SQLite in the pgadapter and
sqlite3adapter subpackages.

Raw samples flow through the adapter as maps from column names to
values: strings for discrete feature columns, float64 numbers for
continuous ones, missing entries for NULL cells.
*/
type Adapter interface {
	// ColumnName translates a feature name into a column name, or
	// returns an error when the name cannot be used as a column.
	ColumnName(featureName string) (string, error)
	// CreateSampleTable ensures the samples table exists, with a
	// text column per discrete feature and a floating point column
	// per continuous feature.
	CreateSampleTable(ctx context.Context, discreteColumns, continuousColumns []string) error
	// AddSamples inserts the given raw samples and returns how
	// many were inserted.
	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteColumns, continuousColumns []string) (int, error)
	// IterateOnSamples scans the samples table and hands each raw
	// sample to the given lambda along with its index. The lambda
	// returning false stops the scan.
	IterateOnSamples(ctx context.Context, discreteColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	// CountSamples returns the number of rows on the samples table
	CountSamples(ctx context.Context) (int, error)
	// Close releases the connection to the database
	Close() error
}

/*
Dataset is a dataset.Dataset backed by a SQL database, to which
samples can be added and from which samples can be sequentially
read.
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
	Close() error
}

type sqlDataset struct {
	db                  Adapter
	features            []feature.Feature
	featureNamesColumns map[string]string
	columnFeatures      map[string]feature.Feature
	dfColumns           []string
	cfColumns           []string
	count               *int
}

/*
Open takes an Adapter to a database and a slice of features and
returns a Dataset backed by the given adapter. It expects the
samples table to exist already, the way Create leaves it.
*/
func Open(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Dataset, error) {
	sds := &sqlDataset{db: dbAdapter, features: features}
	if err := sds.initFeatureColumns(); err != nil {
		return nil, err
	}
	return sds, nil
}

/*
Create takes an Adapter to a database and a slice of features,
ensures the samples table exists on the database and returns a
Dataset backed by the given adapter.
*/
func Create(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Dataset, error) {
	sds := &sqlDataset{db: dbAdapter, features: features}
	if err := sds.initFeatureColumns(); err != nil {
		return nil, err
	}
	if err := sds.db.CreateSampleTable(ctx, sds.dfColumns, sds.cfColumns); err != nil {
		return nil, err
	}
	return sds, nil
}

func (sds *sqlDataset) Features() []feature.Feature {
	return sds.features
}

func (sds *sqlDataset) Count(ctx context.Context) (int, error) {
	if sds.count != nil {
		return *sds.count, nil
	}
	result, err := sds.db.CountSamples(ctx)
	if err == nil {
		sds.count = &result
	}
	return result, err
}

func (sds *sqlDataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	err := sds.db.IterateOnSamples(
		ctx,
		sds.dfColumns,
		sds.cfColumns,
		func(_ int, rawSample map[string]interface{}) (bool, error) {
			samples = append(samples, sds.newSample(rawSample))
			return true, nil
		})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (sds *sqlDataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	for _, s := range samples {
		rs, err := sds.newRawSample(ctx, s)
		if err != nil {
			return 0, err
		}
		rawSamples = append(rawSamples, rs)
	}
	n, err := sds.db.AddSamples(ctx, rawSamples, sds.dfColumns, sds.cfColumns)
	if err == nil {
		sds.count = nil
	}
	return n, err
}

func (sds *sqlDataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error, 1)
	go func() {
		err := sds.db.IterateOnSamples(
			ctx,
			sds.dfColumns,
			sds.cfColumns,
			func(_ int, rawSample map[string]interface{}) (bool, error) {
				select {
				case <-ctx.Done():
					return false, ctx.Err()
				case sampleStream <- sds.newSample(rawSample):
				}
				return true, nil
			})
		if err != nil {
			errStream <- err
		}
		close(errStream)
		close(sampleStream)
	}()
	return sampleStream, errStream
}

func (sds *sqlDataset) Close() error {
	return sds.db.Close()
}

func (sds *sqlDataset) newSample(rawSample map[string]interface{}) dataset.Sample {
	ms := make(dataset.MapSample, len(rawSample))
	for column, value := range rawSample {
		f, ok := sds.columnFeatures[column]
		if !ok {
			continue
		}
		ms[f.Name()] = value
	}
	return ms
}

func (sds *sqlDataset) newRawSample(ctx context.Context, s dataset.Sample) (map[string]interface{}, error) {
	rs := make(map[string]interface{})
	for _, f := range sds.features {
		v, err := s.ValueFor(ctx, f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if _, ok := f.(*feature.DiscreteFeature); ok {
			if _, ok := v.(string); !ok {
				return nil, fmt.Errorf("expected string value for discrete feature %s of sample, got %T", f.Name(), v)
			}
		} else {
			n, err := feature.Number(v)
			if err != nil {
				return nil, fmt.Errorf("continuous feature %s of sample: %v", f.Name(), err)
			}
			v = n
		}
		rs[sds.featureNamesColumns[f.Name()]] = v
	}
	return rs, nil
}

func (sds *sqlDataset) initFeatureColumns() error {
	sds.columnFeatures = make(map[string]feature.Feature)
	sds.featureNamesColumns = make(map[string]string)
	for _, f := range sds.features {
		column, err := sds.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		if of, ok := sds.columnFeatures[column]; ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		sds.columnFeatures[column] = f
		sds.featureNamesColumns[f.Name()] = column
	}
	for _, f := range sds.features {
		if _, ok := f.(*feature.DiscreteFeature); ok {
			sds.dfColumns = append(sds.dfColumns, sds.featureNamesColumns[f.Name()])
		} else {
			sds.cfColumns = append(sds.cfColumns, sds.featureNamesColumns[f.Name()])
		}
	}
	return nil
}
