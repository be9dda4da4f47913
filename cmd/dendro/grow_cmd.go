package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexwalshml/dendro"
	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/feature/yaml"
	"github.com/alexwalshml/dendro/tree"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput           string
	labelsInput         string
	classes             string
	metadataInput       string
	targetFeature       string
	criterion           string
	maxDepth            int
	minSamplesSplit     int
	minSamplesLeaf      int
	minImpurityDecrease float64
	output              string
	storeURL            string
	modelName           string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a regression or classification tree from a dataset to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ds, target, closeDataset, err := config.trainingDataset()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			defer closeDataset()
			count, err := ds.Count(config.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting dataset samples: %v\n", err)
				os.Exit(3)
			}
			task := tree.Regression
			if _, ok := target.(*feature.DiscreteFeature); ok {
				task = tree.Classification
			}
			config.Logf("Growing %s tree from a dataset with %d samples to predict %s ...", task, count, target.Name())
			t, err := dendro.Grow(config.Context(), dendro.Config{
				Task:                task,
				Criterion:           config.criterion,
				MaxDepth:            config.maxDepth,
				MinSamplesSplit:     config.minSamplesSplit,
				MinSamplesLeaf:      config.minSamplesLeaf,
				MinImpurityDecrease: config.minImpurityDecrease,
			}, ds, target)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = config.outputGrownTree(t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), SQLite3 (.db) or NumPy (.npy) file, or a PostgreSQL or MongoDB connection URL with data to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.labelsInput), "labels", "l", "", "path to a NumPy (.npy) file with the label vector for a .npy input")
	cmd.PersistentFlags().StringVar(&(config.classes), "classes", "", "comma-separated class list decoding the labels of a .npy input as a classification target")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input dataset (required unless the input is a .npy pair)")
	cmd.PersistentFlags().StringVarP(&(config.targetFeature), "target", "t", "", "name of the feature the generated tree will predict (required unless the input is a .npy pair)")
	cmd.PersistentFlags().StringVarP(&(config.criterion), "criterion", "c", "", "impurity criterion to minimize: variance, mse or mae for regression, gini or entropy for classification (defaults to variance or gini)")
	cmd.PersistentFlags().IntVarP(&(config.maxDepth), "max-depth", "d", 0, "maximum depth the tree may reach (defaults to 0: no limit)")
	cmd.PersistentFlags().IntVar(&(config.minSamplesSplit), "min-samples-split", 2, "minimum number of samples a node must hold to be split")
	cmd.PersistentFlags().IntVar(&(config.minSamplesLeaf), "min-samples-leaf", 1, "minimum number of samples every leaf must hold")
	cmd.PersistentFlags().Float64Var(&(config.minImpurityDecrease), "min-impurity-decrease", 0, "minimum weighted impurity decrease the best split must achieve to be applied")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.storeURL), "store", "", "redis:// URL of a model store to save the generated tree into instead of writing it out")
	cmd.PersistentFlags().StringVar(&(config.modelName), "name", "", "name to save the generated tree under in the model store (required with the store flag)")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if strings.HasSuffix(gcc.dataInput, ".npy") {
		if gcc.labelsInput == "" {
			return fmt.Errorf("required labels flag was not set for a .npy input")
		}
	} else {
		if gcc.metadataInput == "" {
			return fmt.Errorf("required metadata flag was not set")
		}
		if gcc.targetFeature == "" {
			return fmt.Errorf("required target flag was not set")
		}
	}
	if gcc.storeURL == "" && gcc.modelName != "" {
		return fmt.Errorf("name flag requires the store flag")
	}
	if gcc.storeURL != "" {
		if gcc.modelName == "" {
			return fmt.Errorf("required name flag was not set")
		}
		if gcc.output != "" {
			return fmt.Errorf("cannot set both output and store flags at the same time")
		}
	}
	return nil
}

func (gcc *growCmdConfig) trainingDataset() (dataset.Dataset, feature.Feature, func() error, error) {
	if strings.HasSuffix(gcc.dataInput, ".npy") {
		ds, err := npyDataset(gcc.rootCmdConfig, gcc.dataInput, gcc.labelsInput, gcc.classes)
		if err != nil {
			return nil, nil, nil, err
		}
		return ds, ds.Target(), noClose, nil
	}
	gcc.Logf("Reading features from metadata at %s...", gcc.metadataInput)
	features, err := yaml.ReadFeaturesFromFile(gcc.metadataInput)
	if err != nil {
		return nil, nil, nil, err
	}
	gcc.Logf("Features from metadata read")
	var target feature.Feature
	for _, f := range features {
		if f.Name() == gcc.targetFeature {
			target = f
			break
		}
	}
	if target == nil {
		return nil, nil, nil, fmt.Errorf("target feature '%s' is not defined", gcc.targetFeature)
	}
	ds, closeDataset, err := openDataset(gcc.Context(), gcc.rootCmdConfig, gcc.dataInput, features)
	if err != nil {
		return nil, nil, nil, err
	}
	return ds, target, closeDataset, nil
}

func (gcc *growCmdConfig) outputGrownTree(t *tree.Tree) error {
	if gcc.storeURL == "" {
		return outputTree(gcc.output, t)
	}
	gcc.Logf("Saving tree as %q in store at %s...", gcc.modelName, gcc.storeURL)
	store, err := openStore(gcc.storeURL)
	if err != nil {
		return err
	}
	defer store.Close(gcc.Context())
	return store.Save(gcc.Context(), gcc.modelName, t)
}
