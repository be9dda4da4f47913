package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/feature"
	"github.com/alexwalshml/dendro/tree"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	dataInput   string
	labelsInput string
	classes     string
	treeInput   string
	storeURL    string
	modelName   string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a labeled test dataset`,
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
			ds, closeDataset, err := config.testingDataset(t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			defer closeDataset()
			count, err := ds.Count(config.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting dataset samples: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Testing tree against a dataset with %d samples...", count)
			ev, err := t.Evaluate(config.Context(), ds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Done")
			fmt.Println(ev)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), SQLite3 (.db) or NumPy (.npy) file, or a PostgreSQL or MongoDB connection URL with labeled data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.labelsInput), "labels", "l", "", "path to a NumPy (.npy) file with the label vector for a .npy input")
	cmd.PersistentFlags().StringVar(&(config.classes), "classes", "", "comma-separated class list decoding the labels of a .npy input as a classification target")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.storeURL), "store", "", "redis:// URL of a model store to load the tree from instead of a file")
	cmd.PersistentFlags().StringVar(&(config.modelName), "name", "", "name of the tree to load from the model store (required with the store flag)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if err := validateTreeSource(tcc.treeInput, tcc.storeURL, tcc.modelName); err != nil {
		return err
	}
	if strings.HasSuffix(tcc.dataInput, ".npy") && tcc.labelsInput == "" {
		return fmt.Errorf("required labels flag was not set for a .npy input")
	}
	return nil
}

func (tcc *testCmdConfig) testingDataset(t *tree.Tree) (dataset.Dataset, func() error, error) {
	if strings.HasSuffix(tcc.dataInput, ".npy") {
		ds, err := npyDataset(tcc.rootCmdConfig, tcc.dataInput, tcc.labelsInput, tcc.classes)
		if err != nil {
			return nil, nil, err
		}
		return ds, noClose, nil
	}
	features := make([]feature.Feature, 0, len(t.Features)+1)
	features = append(features, t.Features...)
	features = append(features, t.Target)
	return openDataset(tcc.Context(), tcc.rootCmdConfig, tcc.dataInput, features)
}
