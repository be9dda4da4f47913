package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexwalshml/dendro/tree/dot"
	"github.com/spf13/cobra"
)

type renderCmdConfig struct {
	*rootCmdConfig
	treeInput string
	storeURL  string
	modelName string
	output    string
	format    string
}

func renderCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &renderCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a tree as an image",
		Long:  `Draw the branches and leaves of a tree into a png, svg or jpg image through graphviz`,
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
			format := config.format
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(config.output), ".")
			}
			config.Logf("Rendering tree to %s as %s...", config.output, format)
			err = dot.RenderFile(t, format, config.output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to render will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.storeURL), "store", "", "redis:// URL of a model store to load the tree from instead of a file")
	cmd.PersistentFlags().StringVar(&(config.modelName), "name", "", "name of the tree to load from the model store (required with the store flag)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to the image file to render the tree into (required)")
	cmd.PersistentFlags().StringVarP(&(config.format), "format", "f", "", "image format to render: png, svg or jpg (defaults to the output file extension)")
	return cmd
}

func (rcc *renderCmdConfig) Validate() error {
	if err := validateTreeSource(rcc.treeInput, rcc.storeURL, rcc.modelName); err != nil {
		return err
	}
	if rcc.output == "" {
		return fmt.Errorf("required output flag was not set")
	}
	return nil
}
