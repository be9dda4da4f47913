package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/dataset/csv"
	"github.com/alexwalshml/dendro/dataset/mongodataset"
	"github.com/alexwalshml/dendro/dataset/npy"
	"github.com/alexwalshml/dendro/dataset/sqldataset"
	"github.com/alexwalshml/dendro/dataset/sqldataset/pgadapter"
	"github.com/alexwalshml/dendro/dataset/sqldataset/sqlite3adapter"
	"github.com/alexwalshml/dendro/feature"
	mgo "gopkg.in/mgo.v2"
)

// openDataset opens input for reading as a dataset, choosing the
// backend off its form: a postgresql:// or mongodb:// URL, a path
// to an SQLite3 (.db) file, a path to a CSV file or STDIN when
// empty. The returned function releases the backend and must be
// called once the dataset is no longer needed.
func openDataset(ctx context.Context, config *rootCmdConfig, input string, features []feature.Feature) (dataset.Dataset, func() error, error) {
	if input == "" {
		config.Logf("Reading dataset from STDIN...")
		ds, err := csv.ReadFile("", features)
		if err != nil {
			return nil, nil, err
		}
		return ds, noClose, nil
	}
	if strings.HasPrefix(input, "postgresql://") {
		config.Logf("Creating PostgreSQL adapter for url %s...", input)
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, nil, err
		}
		config.Logf("Opening dataset over PostgreSQL adapter for url %s...", input)
		ds, err := sqldataset.Open(ctx, adapter, features)
		if err != nil {
			return nil, nil, err
		}
		return ds, ds.Close, nil
	}
	if strings.HasPrefix(input, "mongodb://") {
		config.Logf("Dialing MongoDB at %s...", input)
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to MongoDB at %s: %v", input, err)
		}
		config.Logf("Opening dataset over MongoDB session for url %s...", input)
		ds, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			session.Close()
			return nil, nil, err
		}
		return ds, func() error {
			session.Close()
			return nil
		}, nil
	}
	if strings.HasSuffix(input, ".db") {
		config.Logf("Creating SQLite3 adapter for file %s...", input)
		adapter, err := sqlite3adapter.New(input)
		if err != nil {
			return nil, nil, err
		}
		config.Logf("Opening dataset over SQLite3 adapter for file %s...", input)
		ds, err := sqldataset.Open(ctx, adapter, features)
		if err != nil {
			return nil, nil, err
		}
		return ds, ds.Close, nil
	}
	config.Logf("Opening %s to read dataset...", input)
	ds, err := csv.ReadFile(input, features)
	if err != nil {
		return nil, nil, err
	}
	return ds, noClose, nil
}

// npyDataset reads the .npy predictor matrix at input and the .npy
// label vector at labels, as a classification dataset when a
// comma-separated class list is given and as a regression one
// otherwise.
func npyDataset(config *rootCmdConfig, input, labels, classes string) (*dataset.Memory, error) {
	if classes == "" {
		config.Logf("Reading regression dataset from npy pair %s, %s...", input, labels)
		return npy.ReadRegression(input, labels)
	}
	config.Logf("Reading classification dataset from npy pair %s, %s...", input, labels)
	return npy.ReadClassification(input, labels, strings.Split(classes, ","))
}

func noClose() error {
	return nil
}
