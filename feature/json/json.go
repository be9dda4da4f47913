/*
Package json serializes features to JSON and deserializes them back.

A feature is encoded as a JSON object with a "name" property set to
the name of the feature and a "kind" property that can be either
"continuous" or "discrete". Discrete features also carry a "values"
property listing their available values in order, so decoding
restores the value set exactly as it was encoded.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/alexwalshml/dendro/feature"
)

type jsonFeature struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Values []string `json:"values,omitempty"`
}

/*
Encode receives a feature.Feature and returns a slice of bytes with
the feature encoded as JSON or an error if the feature is of an
unknown type.
*/
func Encode(f feature.Feature) ([]byte, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		return json.Marshal(&jsonFeature{Name: f.Name(), Kind: "continuous"})
	case *feature.DiscreteFeature:
		return json.Marshal(&jsonFeature{Name: f.Name(), Kind: "discrete", Values: f.AvailableValues()})
	}
	return nil, fmt.Errorf("cannot encode features of type %T", f)
}

/*
Decode receives a slice of bytes and returns the feature.Feature
decoded from it or an error if the slice of bytes does not describe
a feature.
*/
func Decode(data []byte) (feature.Feature, error) {
	jf := &jsonFeature{}
	if err := json.Unmarshal(data, jf); err != nil {
		return nil, err
	}
	return jf.Feature()
}

func (jf *jsonFeature) Feature() (feature.Feature, error) {
	switch jf.Kind {
	case "continuous":
		return feature.NewContinuousFeature(jf.Name), nil
	case "discrete":
		return feature.NewDiscreteFeature(jf.Name, jf.Values), nil
	}
	return nil, fmt.Errorf("feature %s has unknown kind %q", jf.Name, jf.Kind)
}
