package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pbanos/arbor/dataset/inputsample"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type predictCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	treeSourceConfig
	legacy bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict [VALUE...]",
		Short: "Predict the label of a sample",
		Long: `Use the loaded tree to predict the label of a sample whose feature values are given as arguments in the order of the tree's features.
If no values are given, they are requested one at a time on STDIN.`,
		Run: func(cmd *cobra.Command, args []string) {
			v, err := config.settings(cmd)
			if err != nil {
				fail(cmd, 1, err)
			}
			config.load(v)
			err = config.Validate()
			if err != nil {
				fail(cmd, 1, err)
			}
			ctx := context.Background()
			features, _, err := config.features(config.logger)
			if err != nil {
				fail(cmd, 2, err)
			}
			t, label, err := config.loadTree(ctx, config.logger, features, classifyOptions(config.legacy)...)
			if err != nil {
				fail(cmd, 3, err)
			}
			sample, err := config.sample(cmd, t, args)
			if err != nil {
				fail(cmd, 4, err)
			}
			prediction, err := t.Predict(sample)
			if errors.Is(err, tree.ErrNoMatchingBranch) {
				fail(cmd, 5, fmt.Errorf("cannot classify the sample: %w", err))
			}
			if err != nil {
				fail(cmd, 6, err)
			}
			if label == "" {
				label = "label"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted %s is %v\n", label, prediction)
		},
	}
	config.metadataConfig.addFlags(cmd)
	config.treeSourceConfig.addFlags(cmd)
	cmd.Flags().BoolVar(&(config.legacy), "legacy", false, "take the first leaf found among the children of a node regardless of its value")
	return cmd
}

func (pcc *predictCmdConfig) load(v *viper.Viper) {
	pcc.metadataConfig.load(v)
	pcc.treeSourceConfig.load(v)
	pcc.legacy = v.GetBool("legacy")
}

func (pcc *predictCmdConfig) Validate() error {
	return pcc.treeSourceConfig.Validate()
}

// classifyOptions returns the tree options matching the legacy flag.
func classifyOptions(legacy bool) []tree.Option {
	if legacy {
		return []tree.Option{tree.LeafShortCircuit()}
	}
	return nil
}

func (pcc *predictCmdConfig) sample(cmd *cobra.Command, t *tree.Tree, args []string) ([]feature.Value, error) {
	features := t.Features()
	if len(args) == 0 {
		return inputsample.Read(os.Stdin, features, inputsample.Prompter{W: cmd.OutOrStdout()})
	}
	if len(args) != len(features) {
		return nil, fmt.Errorf("got %d values for the %d features %v", len(args), len(features), feature.Names(features))
	}
	values := make([]feature.Value, len(args))
	for i, arg := range args {
		values[i] = feature.Parse(arg)
		if ok, err := features[i].Valid(values[i]); !ok {
			return nil, err
		}
	}
	return values, nil
}
