/*
Package yaml parses feature.Feature declarations, also known as
dataset metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"
	"sort"

	"github.com/alexwalshml/dendro/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadFeatures takes a slice of bytes with feature declarations in
YAML and returns the features parsed from it or an error.

The document is expected to contain a features property holding an
object with one property per feature: the string "continuous" for
continuous features, or the list of valid values for discrete
features. Features are returned sorted by name so that a metadata
file always yields the same feature order, while the value lists
of discrete features keep their declared order.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	metadata := struct {
		Features map[string]interface{}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	names := make([]string, 0, len(metadata.Features))
	for fn := range metadata.Features {
		names = append(names, fn)
	}
	sort.Strings(names)
	features := make([]feature.Feature, 0, len(names))
	for _, fn := range names {
		switch values := metadata.Features[fn].(type) {
		case string:
			if values != "continuous" {
				return nil, fmt.Errorf("feature %s declared with unknown kind %q", fn, values)
			}
			features = append(features, feature.NewContinuousFeature(fn))
		case []interface{}:
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			features = append(features, feature.NewDiscreteFeature(fn, stringVs))
		case []string:
			features = append(features, feature.NewDiscreteFeature(fn, values))
		default:
			return nil, fmt.Errorf("invalid declaration of type %T for feature %s", values, fn)
		}
	}
	return features, nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents
and uses ReadFeatures to parse it and return the declared features
or an error.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return features, err
}
