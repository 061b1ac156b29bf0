package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/arbor/tree"
	"github.com/pbanos/arbor/tree/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type growCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	dataConfig
	redisConfig
	output      string
	discardData bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow an ID3 classification tree from a set of discretized data to predict its label`,
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
			trainingSet, err := config.readTable(ctx, config.logger, features, label)
			if err != nil {
				fail(cmd, 3, fmt.Errorf("reading training set: %w", err))
			}
			config.logger.Info().
				Int("samples", trainingSet.Len()).
				Int("features", trainingSet.Arity()).
				Msg("growing tree")
			t := tree.New(config.treeOptions()...)
			_, err = t.Build(trainingSet)
			if err != nil {
				fail(cmd, 4, fmt.Errorf("growing the tree: %w", err))
			}
			config.logger.Info().Int("nodes", len(t.Nodes())).Msg("done")
			config.logger.Debug().Msgf("grown tree:\n%v", t)
			err = config.outputTree(ctx, cmd, t, label)
			if err != nil {
				fail(cmd, 5, err)
			}
		},
	}
	config.metadataConfig.addFlags(cmd)
	config.dataConfig.addFlags(cmd)
	config.redisConfig.addFlags(cmd)
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT unless the tree is stored on redis)")
	cmd.Flags().BoolVar(&(config.discardData), "discard-data", false, "do not keep the training samples on the nodes of the tree while growing it")
	return cmd
}

func (gcc *growCmdConfig) load(v *viper.Viper) {
	gcc.metadataConfig.load(v)
	gcc.dataConfig.load(v)
	gcc.redisConfig.load(v)
	gcc.output = v.GetString("output")
	gcc.discardData = v.GetBool("discard-data")
}

func (gcc *growCmdConfig) Validate() error {
	return gcc.redisConfig.Validate()
}

func (gcc *growCmdConfig) treeOptions() []tree.Option {
	options := []tree.Option{tree.WithLogger(gcc.logger)}
	if gcc.discardData {
		options = append(options, tree.DiscardData())
	}
	return options
}

func (gcc *growCmdConfig) outputTree(ctx context.Context, cmd *cobra.Command, t *tree.Tree, label string) error {
	if gcc.enabled() {
		store, err := gcc.store()
		if err != nil {
			return err
		}
		defer store.Close()
		err = store.Save(ctx, gcc.redisKey, t, label)
		if err != nil {
			return err
		}
		gcc.logger.Info().Str("key", gcc.redisKey).Msg("tree stored on redis")
		if gcc.output == "" {
			return nil
		}
	}
	if gcc.output == "" {
		return json.WriteJSONTree(t, label, json.NewNodeEncodeDecoder(), cmd.OutOrStdout())
	}
	f, err := os.Create(gcc.output)
	if err != nil {
		return err
	}
	return writeAndClose(f, func(w io.Writer) error {
		return json.WriteJSONTree(t, label, json.NewNodeEncodeDecoder(), w)
	})
}

/*
writeAndClose calls write on wc and closes it, returning the error of the
write or, if there was none, the one of the close.
*/
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	cerr := wc.Close()
	if err != nil {
		return err
	}
	return cerr
}
