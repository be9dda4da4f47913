package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/alexwalshml/dendro/dataset/csv"
	"github.com/alexwalshml/dendro/feature/yaml"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*rootCmdConfig
	dataInput        string
	metadataInput    string
	dataOutput       string
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into two datasets",
		Long:  `Split a CSV dataset into an output dataset and a split dataset, assigning every sample to one of them at random. Use it to carve a test dataset out of your training data.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Features from metadata read")

			var outputFile *os.File
			if config.dataOutput != "" {
				config.Logf("Creating %s to dump output dataset...", config.dataOutput)
				outputFile, err = os.Create(config.dataOutput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				defer outputFile.Close()
			} else {
				config.Logf("Using STDOUT to dump output dataset...")
				outputFile = os.Stdout
			}
			config.Logf("Preparing to write output dataset...")
			output, err := csv.NewWriter(outputFile, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			config.Logf("Creating %s to dump split dataset...", config.splitOutput)
			splitOutputFile, err := os.Create(config.splitOutput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer splitOutputFile.Close()
			config.Logf("Preparing to write split output dataset...")
			splitOutput, err := csv.NewWriter(splitOutputFile, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}

			seed := config.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			randomizer := rand.New(rand.NewSource(seed))
			splitter := func(i int, s dataset.Sample) (bool, error) {
				var err error
				if (100 * randomizer.Float32()) > float32(config.splitProbability) {
					_, err = output.Write(config.Context(), []dataset.Sample{s})
				} else {
					_, err = splitOutput.Write(config.Context(), []dataset.Sample{s})
				}
				if err != nil {
					return false, err
				}
				return true, nil
			}

			if config.dataInput == "" {
				config.Logf("Reading input dataset from STDIN and splitting it into output and split output datasets...")
			} else {
				config.Logf("Opening %s to split it into output and split output datasets...", config.dataInput)
			}
			_, err = csv.ReadBySampleFile(config.dataInput, features, splitter)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Flushing output dataset...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			config.Logf("Flushing split dataset...")
			err = splitOutput.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			config.Logf("Done")
			config.Logf("Input dataset with %d samples was split into datasets with %d and %d samples", output.Count()+splitOutput.Count(), output.Count(), splitOutput.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV file with the dataset to split (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input dataset (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a file to dump the output dataset (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the split dataset (required)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the dataset will be assigned to the split dataset")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random assignment of samples, for reproducible splits (defaults to 0: seed off the clock)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}
