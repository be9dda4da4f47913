/*
Package mongodataset provides an implementation of dataset.Dataset
that uses a MongoDB database as backend.

Samples are stored as documents of a samples collection on the
session's default database, with one field per feature.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.Dataset backed by a MongoDB collection, to
which samples can be added and from which samples can be
sequentially read.
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type mongoDataset struct {
	session  *mgo.Session
	features []feature.Feature
}

const samplesCollectionName = "samples"

/*
Open takes a MongoDB database session and a slice of features and
returns a Dataset that works on the samples collection of the
session's default database, ensuring an index exists for every
feature, or an error if the collection cannot be prepared.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (Dataset, error) {
	mds := &mongoDataset{session, features}
	if err := mds.ensureIndexes(); err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongoDataset) Features() []feature.Feature {
	return mds.features
}

func (mds *mongoDataset) Count(context.Context) (int, error) {
	return mds.samplesCollection().Find(nil).Count()
}

func (mds *mongoDataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := mds.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	sampleStream, errStream := mds.Read(ctx)
	for sample := range sampleStream {
		samples = append(samples, sample)
	}
	if err := <-errStream; err != nil {
		return nil, err
	}
	return samples, nil
}

func (mds *mongoDataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M)
		for _, f := range mds.features {
			value, err := s.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	if err := mds.samplesCollection().Insert(docs...); err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (mds *mongoDataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error, 1)
	go func() {
		var doc bson.M
		var err error
		iter := mds.samplesCollection().Find(nil).Iter()
		defer iter.Close()
		for err == nil && iter.Next(&doc) {
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case sampleStream <- mds.newSample(doc):
			}
		}
		if err == nil {
			err = iter.Err()
		}
		if err != nil {
			errStream <- err
		}
		close(errStream)
		close(sampleStream)
	}()
	return sampleStream, errStream
}

func (mds *mongoDataset) newSample(doc bson.M) dataset.Sample {
	ms := make(dataset.MapSample, len(mds.features))
	for _, f := range mds.features {
		if v, ok := doc[f.Name()]; ok {
			ms[f.Name()] = v
		}
	}
	return ms
}

func (mds *mongoDataset) ensureIndexes() error {
	for _, f := range mds.features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		if err := mds.samplesCollection().EnsureIndex(index); err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongoDataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}
