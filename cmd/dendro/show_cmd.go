package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type showCmdConfig struct {
	*rootCmdConfig
	treeInput string
	storeURL  string
	modelName string
}

func showCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a tree",
		Long:  `Print the size of a tree along with an ASCII rendering of its branches and leaves`,
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
			fmt.Printf("%s tree predicting %s: depth %d, %d leaves, %d nodes\n", t.Task, t.Target.Name(), t.Depth(), t.Leaves(), t.Nodes())
			fmt.Println(t)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.storeURL), "store", "", "redis:// URL of a model store to load the tree from instead of a file")
	cmd.PersistentFlags().StringVar(&(config.modelName), "name", "", "name of the tree to load from the model store (required with the store flag)")
	return cmd
}

func (scc *showCmdConfig) Validate() error {
	return validateTreeSource(scc.treeInput, scc.storeURL, scc.modelName)
}
