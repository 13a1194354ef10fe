package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"telugu-tokenizer/pkg/config"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "telugutok",
		Short: "Telugu corpus collection and tokenizer training",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Flags:      cmd.Flags(),
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.Log.Level)
			return nil
		},
		// Running without a subcommand performs the full
		// collection-then-training run.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), fullRun)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newCollectCmd())
	cmd.AddCommand(newTrainCmd())
	cmd.AddCommand(newPublishCmd())

	return cmd
}
