package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long:  "Prints defaults merged with config.yaml, .env and TAILER_* environment variables. The output is a valid config.yaml.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("config"); err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "config: marshal yaml")
		}
		_, err = cmd.OutOrStdout().Write(out)
		return eris.Wrap(err, "config: write yaml")
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
