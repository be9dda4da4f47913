package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type modelsCmdConfig struct {
	*rootCmdConfig
	storeURL  string
	modelName string
}

func modelsCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &modelsCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the trees saved in a model store",
		Long:  `List the names of the trees saved in a model store`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			store, err := openStore(config.storeURL)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			defer store.Close(config.Context())
			names, err := store.List(config.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.storeURL), "store", "s", "", "redis:// URL of the model store (required)")
	cmd.AddCommand(modelsDeleteCmd(config))
	return cmd
}

func modelsDeleteCmd(config *modelsCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a tree from a model store",
		Long:  `Remove the tree saved under a name in a model store`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if config.modelName == "" {
				fmt.Fprintln(os.Stderr, "required name flag was not set")
				os.Exit(1)
			}
			store, err := openStore(config.storeURL)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			defer store.Close(config.Context())
			config.Logf("Deleting tree %q from store at %s...", config.modelName, config.storeURL)
			err = store.Delete(config.Context(), config.modelName)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Done")
		},
	}
	cmd.Flags().StringVarP(&(config.modelName), "name", "n", "", "name of the tree to delete (required)")
	return cmd
}

func (mcc *modelsCmdConfig) Validate() error {
	if mcc.storeURL == "" {
		return fmt.Errorf("required store flag was not set")
	}
	return nil
}
