package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
)

/*
Writer is an interface for a destination samples can be written to
in CSV form.
*/
type Writer interface {
	// Write attempts to write the given samples and returns the
	// number actually written, along with an error when not all
	// of them could be written.
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written so far
	Count() int
	// Flush ensures any pending write operations finish before
	// returning. It returns an error if that cannot be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
Read takes an io.Reader for a CSV stream and a slice of known
features and returns an in-memory dataset with the features named
by the CSV header and the samples parsed from the remaining rows.

The header or first row of the CSV content must consist of names
of features in the given slice and fixes the column order. Every
other row must hold a valid value for each column: columns for
continuous features take numbers, columns for discrete features
take one of the feature's available values, and no column may be
left blank or undefined.
*/
func Read(reader io.Reader, features []feature.Feature) (*dataset.Memory, error) {
	var samples []dataset.Sample
	columns, err := ReadBySample(reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(columns, samples), nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, a slice of known
features and a lambda function on a sample index and the sample
parsed from the row at it. Samples are handed to the lambda one at
a time: returning true continues with the next row, returning
false stops the scan. The features the CSV header names are
returned in column order. An error is returned when the stream
cannot be read or a row cannot be parsed into a valid sample.
*/
func ReadBySample(reader io.Reader, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) ([]feature.Feature, error) {
	featuresByName := featureSliceToMap(features)
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %v", err)
	}
	columns, err := parseFeaturesFromCSVHeader(header, featuresByName)
	if err != nil {
		return nil, err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("parsing CSV line %d: %w", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return columns, nil
}

/*
ReadFile takes a filepath string and a slice of known features,
opens the file the filepath points to and uses Read to parse a
dataset from it. An empty filepath reads from os.Stdin instead. It
returns an error when the file cannot be opened for reading or its
content cannot be parsed.
*/
func ReadFile(filepath string, features []feature.Feature) (*dataset.Memory, error) {
	f, err := openInput(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Read(f, features)
	if err != nil && filepath != "" {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
ReadBySampleFile takes a filepath string, a slice of known features
and a lambda function like the one ReadBySample takes, opens the
file the filepath points to and scans its samples with ReadBySample.
An empty filepath reads from os.Stdin instead.
*/
func ReadBySampleFile(filepath string, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) ([]feature.Feature, error) {
	f, err := openInput(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBySample(f, features, lambda)
}

/*
NewWriter takes an io.Writer and a slice of features and returns a
Writer that writes the feature names as a CSV header and then any
samples given to it as CSV rows with that column order.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, len(features))
	for i, f := range features {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

/*
WriteDataset takes an io.Writer, a dataset and a slice of features
and dumps the dataset to the writer in CSV form, one column per
feature in the given slice. A nil feature slice dumps every column
of the dataset. It returns an error when the dataset cannot be
read or the writer cannot be written to.
*/
func WriteDataset(ctx context.Context, writer io.Writer, ds dataset.Dataset, features []feature.Feature) error {
	if features == nil {
		features = ds.Features()
	}
	cw, err := NewWriter(writer, features)
	if err != nil {
		return err
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

/*
WriteFile takes a filepath string, a dataset and a slice of
features and dumps the dataset to the file the filepath points to
with WriteDataset, creating or truncating it. An empty filepath
writes to os.Stdout instead.
*/
func WriteFile(ctx context.Context, filepath string, ds dataset.Dataset, features []feature.Feature) error {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(filepath)
		if err != nil {
			return fmt.Errorf("writing CSV file %s: %v", filepath, err)
		}
		defer f.Close()
	}
	return WriteDataset(ctx, f, ds, features)
}

func openInput(filepath string) (*os.File, error) {
	if filepath == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading CSV file %s: %v", filepath, err)
	}
	return f, nil
}

func parseFeaturesFromCSVHeader(header []string, features map[string]feature.Feature) ([]feature.Feature, error) {
	columns := make([]feature.Feature, 0, len(header))
	for _, name := range header {
		f, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("parsing CSV header: reference to unknown feature %s", name)
		}
		columns = append(columns, f)
	}
	return columns, nil
}

func parseSampleFromCSVRow(row []string, columns []feature.Feature) (dataset.Sample, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("row holds %d values for %d columns", len(row), len(columns))
	}
	featureValues := make(dataset.MapSample, len(columns))
	for i, f := range columns {
		v := row[i]
		if v == "" || v == "?" {
			return nil, fmt.Errorf("feature %s: %w", f.Name(), dataset.ErrMissingValue)
		}
		var value interface{}
		if _, ok := f.(*feature.ContinuousFeature); ok {
			number, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("feature %s: %w", f.Name(), dataset.ErrNonNumericValue)
			}
			value = number
		} else {
			value = v
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return featureValues, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n := 0; n < len(samples); n++ {
		if err := cw.writeSample(ctx, samples[n]); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("writing CSV row for sample %d: feature %s: %w", cw.count+1, f.Name(), dataset.ErrMissingValue)
		}
		record[j] = fmt.Sprintf("%v", v)
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func featureSliceToMap(features []feature.Feature) map[string]feature.Feature {
	result := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		result[f.Name()] = f
	}
	return result
}
