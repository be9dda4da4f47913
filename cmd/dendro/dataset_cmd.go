package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/dataset/csv"
	"github.com/alexwalshml/dendro/dataset/mongodataset"
	"github.com/alexwalshml/dendro/dataset/sqldataset"
	"github.com/alexwalshml/dendro/dataset/sqldataset/pgadapter"
	"github.com/alexwalshml/dendro/dataset/sqldataset/sqlite3adapter"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/feature/yaml"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

type datasetCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	dataOutput    string
}

type sampleWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
}

type writableDataset interface {
	sampleWriter
	Flush() error
}

type flushableSampleWriter struct {
	sampleWriter
}

func datasetCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &datasetCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Copy a dataset between backends",
		Long:  `Stream a dataset from one backend into another: CSV files, SQLite3 files, PostgreSQL databases and MongoDB databases`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Features from metadata read")

			output, err := config.OutputWriter(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}

			inputStream, errStream, err := config.InputStream(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			cancel := config.ContextCancelFunc()
			for s := range inputStream {
				_, err = output.Write(config.Context(), []dataset.Sample{s})
				if err != nil {
					cancel()
					break
				}
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			err = <-errStream
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Flushing output dataset...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input dataset (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the dataset into (defaults to STDOUT in CSV)")
	return cmd
}

func (dcc *datasetCmdConfig) Validate() error {
	if dcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (dcc *datasetCmdConfig) OutputWriter(features []feature.Feature) (writableDataset, error) {
	if dcc.dataOutput != "" {
		if strings.HasPrefix(dcc.dataOutput, "postgresql://") {
			return dcc.postgreSQLOutputWriter(features)
		}
		if strings.HasPrefix(dcc.dataOutput, "mongodb://") {
			return dcc.mongoDBOutputWriter(features)
		}
		if strings.HasSuffix(dcc.dataOutput, ".db") {
			return dcc.sqlite3OutputWriter(features)
		}
	}
	var outputFile *os.File
	var err error
	if dcc.dataOutput != "" {
		dcc.Logf("Creating %s to dump output dataset...", dcc.dataOutput)
		outputFile, err = os.Create(dcc.dataOutput)
		if err != nil {
			return nil, err
		}
	} else {
		dcc.Logf("Using STDOUT to dump output dataset...")
		outputFile = os.Stdout
	}
	dcc.Logf("Preparing to write output dataset...")
	return csv.NewWriter(outputFile, features)
}

func (dcc *datasetCmdConfig) InputStream(features []feature.Feature) (<-chan dataset.Sample, <-chan error, error) {
	if dcc.dataInput != "" {
		if strings.HasPrefix(dcc.dataInput, "postgresql://") {
			return dcc.postgreSQLInputStream(features)
		}
		if strings.HasPrefix(dcc.dataInput, "mongodb://") {
			return dcc.mongoDBInputStream(features)
		}
		if strings.HasSuffix(dcc.dataInput, ".db") {
			return dcc.sqlite3InputStream(features)
		}
		dcc.Logf("Opening %s to read input dataset...", dcc.dataInput)
	} else {
		dcc.Logf("Reading input dataset from STDIN and dumping it into the output dataset...")
	}
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error)
	go func() {
		_, err := csv.ReadBySampleFile(dcc.dataInput, features, func(i int, s dataset.Sample) (bool, error) {
			select {
			case <-dcc.Context().Done():
				return false, nil
			case sampleStream <- s:
			}
			return true, nil
		})
		if err != nil {
			go func() {
				errStream <- err
				close(errStream)
			}()
		} else {
			close(errStream)
		}
		close(sampleStream)
	}()
	return sampleStream, errStream, nil
}

func (dcc *datasetCmdConfig) sqlite3InputStream(features []feature.Feature) (<-chan dataset.Sample, <-chan error, error) {
	dcc.Logf("Creating SQLite3 adapter for file %s to read input dataset...", dcc.dataInput)
	adapter, err := sqlite3adapter.New(dcc.dataInput)
	if err != nil {
		return nil, nil, err
	}
	dcc.Logf("Opening dataset over SQLite3 adapter for file %s to read input dataset...", dcc.dataInput)
	ds, err := sqldataset.Open(dcc.Context(), adapter, features)
	if err != nil {
		return nil, nil, err
	}
	sampleStream, errStream := ds.Read(dcc.Context())
	return sampleStream, errStream, nil
}

func (dcc *datasetCmdConfig) postgreSQLInputStream(features []feature.Feature) (<-chan dataset.Sample, <-chan error, error) {
	dcc.Logf("Creating PostgreSQL adapter for url %s to read input dataset...", dcc.dataInput)
	adapter, err := pgadapter.New(dcc.dataInput)
	if err != nil {
		return nil, nil, err
	}
	dcc.Logf("Opening dataset over PostgreSQL adapter for url %s to read input dataset...", dcc.dataInput)
	ds, err := sqldataset.Open(dcc.Context(), adapter, features)
	if err != nil {
		return nil, nil, err
	}
	sampleStream, errStream := ds.Read(dcc.Context())
	return sampleStream, errStream, nil
}

func (dcc *datasetCmdConfig) mongoDBInputStream(features []feature.Feature) (<-chan dataset.Sample, <-chan error, error) {
	dcc.Logf("Dialing MongoDB at %s to read input dataset...", dcc.dataInput)
	session, err := mgo.Dial(dcc.dataInput)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MongoDB at %s: %v", dcc.dataInput, err)
	}
	ds, err := mongodataset.Open(dcc.Context(), session, features)
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	sampleStream, errStream := ds.Read(dcc.Context())
	return sampleStream, errStream, nil
}

func (dcc *datasetCmdConfig) sqlite3OutputWriter(features []feature.Feature) (writableDataset, error) {
	dcc.Logf("Creating SQLite3 adapter for file %s to dump output dataset...", dcc.dataOutput)
	adapter, err := sqlite3adapter.New(dcc.dataOutput)
	if err != nil {
		return nil, err
	}
	dcc.Logf("Creating dataset over SQLite3 adapter for file %s to dump output dataset...", dcc.dataOutput)
	ds, err := sqldataset.Create(dcc.Context(), adapter, features)
	if err != nil {
		return nil, err
	}
	return &flushableSampleWriter{ds}, nil
}

func (dcc *datasetCmdConfig) postgreSQLOutputWriter(features []feature.Feature) (writableDataset, error) {
	dcc.Logf("Creating PostgreSQL adapter for url %s to dump output dataset...", dcc.dataOutput)
	adapter, err := pgadapter.New(dcc.dataOutput)
	if err != nil {
		return nil, err
	}
	dcc.Logf("Creating dataset over PostgreSQL adapter for url %s to dump output dataset...", dcc.dataOutput)
	ds, err := sqldataset.Create(dcc.Context(), adapter, features)
	if err != nil {
		return nil, err
	}
	return &flushableSampleWriter{ds}, nil
}

func (dcc *datasetCmdConfig) mongoDBOutputWriter(features []feature.Feature) (writableDataset, error) {
	dcc.Logf("Dialing MongoDB at %s to dump output dataset...", dcc.dataOutput)
	session, err := mgo.Dial(dcc.dataOutput)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB at %s: %v", dcc.dataOutput, err)
	}
	ds, err := mongodataset.Open(dcc.Context(), session, features)
	if err != nil {
		session.Close()
		return nil, err
	}
	return &flushableSampleWriter{ds}, nil
}

func (fsw *flushableSampleWriter) Flush() error {
	return nil
}
