package dataset

import (
	"context"

	"github.com/alexwalshml/dendro/feature"
)

/*
Sample represents a sample to grow a tree with or to predict a
value for. Its ValueFor method returns the value of the sample for
the given feature, or nil when the sample has none. Obtaining a
value may require I/O on backend-resident samples, so the method
takes a context to allow cancellation.
*/
type Sample interface {
	ValueFor(context.Context, feature.Feature) (interface{}, error)
}

/*
MapSample is an in-memory Sample backed by a map from feature
names to values.
*/
type MapSample map[string]interface{}

/*
ValueFor returns the value of the sample for the feature with the
given name, or nil when the sample has none.
*/
func (ms MapSample) ValueFor(ctx context.Context, f feature.Feature) (interface{}, error) {
	return ms[f.Name()], nil
}
