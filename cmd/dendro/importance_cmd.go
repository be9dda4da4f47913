package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

type importanceCmdConfig struct {
	*rootCmdConfig
	treeInput string
	storeURL  string
	modelName string
}

func importanceCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &importanceCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "importance",
		Short: "Print the feature importances of a tree",
		Long:  `Print the normalized importance of every predictor feature of a tree, most important first`,
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
			type featureImportance struct {
				name       string
				importance float64
			}
			importances := t.FeatureImportances()
			rows := make([]featureImportance, 0, len(importances))
			for i, imp := range importances {
				rows = append(rows, featureImportance{t.Features[i].Name(), imp})
			}
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].importance > rows[j].importance
			})
			for _, row := range rows {
				fmt.Printf("%s\t%.4f\n", row.name, row.importance)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.storeURL), "store", "", "redis:// URL of a model store to load the tree from instead of a file")
	cmd.PersistentFlags().StringVar(&(config.modelName), "name", "", "name of the tree to load from the model store (required with the store flag)")
	return cmd
}

func (icc *importanceCmdConfig) Validate() error {
	return validateTreeSource(icc.treeInput, icc.storeURL, icc.modelName)
}
