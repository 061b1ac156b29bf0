package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	logger     zerolog.Logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{logger: zerolog.Nop()}
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "arbor is a tool to grow ID3 classification trees",
		Long:  `A tool to grow classification trees from discretized data, test them, show them and use them to classify samples`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.settings(cmd)
			if err != nil {
				return err
			}
			config.verbose = v.GetBool("verbose")
			config.logger = newLogger(cmd.ErrOrStderr(), config.verbose)
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress and split decisions on STDERR")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YAML, JSON or TOML file with default values for flags")
	rootCmd.AddCommand(versionCmd(), growCmd(config), predictCmd(config), showCmd(config), testCmd(config))
	return rootCmd
}

/*
settings returns a viper instance from which the flags of the given command
can be read. Values set on the command line take precedence over ARBOR_*
environment variables (ARBOR_REDIS_KEY for --redis-key), which take
precedence over values on the config file, if any.
*/
func (rcc *rootCmdConfig) settings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("arbor")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if rcc.configFile != "" {
		v.SetConfigFile(rcc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %v", rcc.configFile, err)
		}
	}
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func fail(cmd *cobra.Command, code int, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	os.Exit(code)
}
