package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/arbor/tree"
	"github.com/pbanos/arbor/tree/dot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type showCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	treeSourceConfig
	format string
	output string
}

func showCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a tree",
		Long:  `Show the nodes of a tree as a breadth-first listing (text), an ASCII drawing (ascii) or a Graphviz rendering (dot, svg, png, jpg)`,
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
			features, _, err := config.features(config.logger)
			if err != nil {
				fail(cmd, 2, err)
			}
			t, _, err := config.loadTree(context.Background(), config.logger, features)
			if err != nil {
				fail(cmd, 3, err)
			}
			if config.output == "" {
				err = config.show(t, cmd.OutOrStdout())
			} else {
				var f *os.File
				f, err = os.Create(config.output)
				if err == nil {
					err = writeAndClose(f, func(w io.Writer) error { return config.show(t, w) })
				}
			}
			if err != nil {
				fail(cmd, 4, err)
			}
		},
	}
	config.metadataConfig.addFlags(cmd)
	config.treeSourceConfig.addFlags(cmd)
	cmd.Flags().StringVarP(&(config.format), "format", "f", "text", fmt.Sprintf("output format, one of text, ascii, %s", strings.Join(dot.Formats(), ", ")))
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the tree will be written (defaults to STDOUT)")
	return cmd
}

func (scc *showCmdConfig) load(v *viper.Viper) {
	scc.metadataConfig.load(v)
	scc.treeSourceConfig.load(v)
	scc.format = v.GetString("format")
	scc.output = v.GetString("output")
}

func (scc *showCmdConfig) Validate() error {
	if err := scc.treeSourceConfig.Validate(); err != nil {
		return err
	}
	switch scc.format {
	case "text", "ascii":
		return nil
	}
	_, err := dot.Format(scc.format)
	return err
}

func (scc *showCmdConfig) show(t *tree.Tree, w io.Writer) error {
	switch scc.format {
	case "text":
		return t.Show(w)
	case "ascii":
		_, err := io.WriteString(w, t.String())
		return err
	}
	format, err := dot.Format(scc.format)
	if err != nil {
		return err
	}
	return dot.Render(t, format, w)
}
