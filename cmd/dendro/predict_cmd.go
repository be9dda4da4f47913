package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexwalshml/dendro/dataset/inputsample"
	"github.com/alexwalshml/dendro/dataset/npy"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/tree"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

type predictCmdConfig struct {
	*rootCmdConfig
	dataInput      string
	treeInput      string
	storeURL       string
	modelName      string
	output         string
	undefinedValue string
	interactive    bool
}

type stdoutFeatureValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the target feature for samples",
		Long:  `Use a grown tree to predict its target feature for every sample of a dataset, or for a single sample answering questions about its features.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			t, err := loadModel(config.Context(), config.rootCmdConfig, config.treeInput, config.storeURL, config.modelName)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if config.interactive {
				prediction, err := config.interactivePrediction(t)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				fmt.Printf("Predicted %s is %v\n", t.Target.Name(), prediction)
				return
			}
			predictions, err := config.batchPredictions(t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			err = config.writePredictions(t, predictions)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), SQLite3 (.db) or NumPy (.npy) file, or a PostgreSQL or MongoDB connection URL with samples to predict (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to predict with will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.storeURL), "store", "", "redis:// URL of a model store to load the tree from instead of a file")
	cmd.PersistentFlags().StringVar(&(config.modelName), "name", "", "name of the tree to load from the model store (required with the store flag)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a CSV or NumPy (.npy) file to write the predictions to (defaults to STDOUT in CSV)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	cmd.PersistentFlags().BoolVar(&(config.interactive), "interactive", false, "predict a single sample answering questions about its feature values instead of reading a dataset")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if err := validateTreeSource(pcc.treeInput, pcc.storeURL, pcc.modelName); err != nil {
		return err
	}
	if pcc.interactive && pcc.dataInput != "" {
		return fmt.Errorf("cannot set both interactive and input flags at the same time")
	}
	if pcc.interactive && pcc.output != "" {
		return fmt.Errorf("cannot set both interactive and output flags at the same time")
	}
	return nil
}

func (pcc *predictCmdConfig) interactivePrediction(t *tree.Tree) (*tree.Prediction, error) {
	sample := inputsample.New(os.Stdin, t.Features, stdoutFeatureValueRequester(pcc.undefinedValue), pcc.undefinedValue)
	return t.PredictSample(pcc.Context(), sample)
}

func (pcc *predictCmdConfig) batchPredictions(t *tree.Tree) ([]*tree.Prediction, error) {
	if strings.HasSuffix(pcc.dataInput, ".npy") {
		return pcc.npyPredictions(t)
	}
	ds, closeDataset, err := openDataset(pcc.Context(), pcc.rootCmdConfig, pcc.dataInput, pcc.inputFeatures(t))
	if err != nil {
		return nil, err
	}
	defer closeDataset()
	samples, err := ds.Samples(pcc.Context())
	if err != nil {
		return nil, err
	}
	predictions := make([]*tree.Prediction, 0, len(samples))
	for i, s := range samples {
		p, err := t.PredictSample(pcc.Context(), s)
		if err != nil {
			return nil, fmt.Errorf("predicting sample %d: %v", i, err)
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

func (pcc *predictCmdConfig) npyPredictions(t *tree.Tree) ([]*tree.Prediction, error) {
	m, err := npy.ReadMatrixFile(pcc.dataInput)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	predictions := make([]*tree.Prediction, 0, rows)
	for i := 0; i < rows; i++ {
		x := make([]float64, cols)
		for j := 0; j < cols; j++ {
			x[j] = m.At(i, j)
		}
		p, err := t.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("predicting sample %d: %v", i, err)
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// inputFeatures returns the features samples are read with: the
// tree's predictors, plus its target for CSV input so a labeled
// file is accepted as it comes.
func (pcc *predictCmdConfig) inputFeatures(t *tree.Tree) []feature.Feature {
	input := pcc.dataInput
	if strings.HasPrefix(input, "postgresql://") || strings.HasPrefix(input, "mongodb://") || strings.HasSuffix(input, ".db") {
		return t.Features
	}
	features := make([]feature.Feature, 0, len(t.Features)+1)
	features = append(features, t.Features...)
	return append(features, t.Target)
}

func (pcc *predictCmdConfig) writePredictions(t *tree.Tree, predictions []*tree.Prediction) error {
	if strings.HasSuffix(pcc.output, ".npy") {
		values := make([]float64, len(predictions))
		for i, p := range predictions {
			v, err := predictionNumber(t, p)
			if err != nil {
				return err
			}
			values[i] = v
		}
		pcc.Logf("Writing %d predictions to %s...", len(predictions), pcc.output)
		return npy.WriteMatrixFile(pcc.output, mat.NewDense(len(values), 1, values))
	}
	var f *os.File
	var err error
	if pcc.output == "" {
		f = os.Stdout
	} else {
		pcc.Logf("Creating %s to write predictions...", pcc.output)
		f, err = os.Create(pcc.output)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	w := csv.NewWriter(f)
	if err = w.Write([]string{"prediction"}); err != nil {
		return err
	}
	for _, p := range predictions {
		cell, err := predictionCell(p)
		if err != nil {
			return err
		}
		if err = w.Write([]string{cell}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func predictionCell(p *tree.Prediction) (string, error) {
	if p.Task() == tree.Classification {
		return p.Class()
	}
	v, err := p.Value()
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

// predictionNumber maps a prediction to the number a .npy output
// holds for it: the predicted value for regression trees, the
// predicted class index for classification ones.
func predictionNumber(t *tree.Tree, p *tree.Prediction) (float64, error) {
	if t.Task == tree.Regression {
		return p.Value()
	}
	class, err := p.Class()
	if err != nil {
		return 0, err
	}
	df, ok := t.Target.(*feature.DiscreteFeature)
	if !ok {
		return 0, fmt.Errorf("classification tree with a continuous target feature")
	}
	i, ok := df.ValueIndex(class)
	if !ok {
		return 0, fmt.Errorf("predicted class %q is not an available value of feature %s", class, df.Name())
	}
	return float64(i), nil
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value interface{}) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
