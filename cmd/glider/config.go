package main

import (
	"encoding/json"
	"fmt"

	"github.com/samuelfneumann/glider/config"
	"github.com/samuelfneumann/glider/environment/thermal"
	"github.com/spf13/cobra"
)

var saveConfig string

// loadConfig loads the config selected by the persistent flags
func loadConfig() (config.Config, error) {
	defaults, err := config.Default(thermal.Mode(mode))
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(configFile, defaults)
}

// ConfigCommand prints the resolved config, or saves it to a file
func ConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or save the resolved experiment config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}

			if saveConfig != "" {
				return config.Save(c, saveConfig)
			}

			data, err := json.MarshalIndent(c, "", "\t")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&saveConfig, "save", "o", "",
		"save the config to this file instead of printing it")
	return cmd
}
