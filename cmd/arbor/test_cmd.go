package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type testCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	dataConfig
	treeSourceConfig
	legacy bool
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
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
			features, label, err := config.features(config.logger)
			if err != nil {
				fail(cmd, 2, err)
			}
			t, treeLabel, err := config.loadTree(ctx, config.logger, features, classifyOptions(config.legacy)...)
			if err != nil {
				fail(cmd, 3, err)
			}
			if label == "" {
				label = treeLabel
			}
			testingSet, err := config.readTable(ctx, config.logger, t.Features(), label)
			if err != nil {
				fail(cmd, 4, fmt.Errorf("reading testing set: %w", err))
			}
			config.logger.Info().Int("samples", testingSet.Len()).Msg("testing tree")
			successRate, errorCount, err := t.Test(testingSet)
			if err != nil {
				fail(cmd, 5, fmt.Errorf("testing tree: %w", err))
			}
			config.logger.Info().Msg("done")
			fmt.Fprintf(cmd.OutOrStdout(), "%f success rate, failed to make a prediction for %d samples\n", successRate, errorCount)
		},
	}
	config.metadataConfig.addFlags(cmd)
	config.dataConfig.addFlags(cmd)
	config.treeSourceConfig.addFlags(cmd)
	cmd.Flags().BoolVar(&(config.legacy), "legacy", false, "take the first leaf found among the children of a node regardless of its value")
	return cmd
}

func (tcc *testCmdConfig) load(v *viper.Viper) {
	tcc.metadataConfig.load(v)
	tcc.dataConfig.load(v)
	tcc.treeSourceConfig.load(v)
	tcc.legacy = v.GetBool("legacy")
}

func (tcc *testCmdConfig) Validate() error {
	return tcc.treeSourceConfig.Validate()
}
