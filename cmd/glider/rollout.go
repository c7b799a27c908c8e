package main

import (
	"github.com/samuelfneumann/glider/experiment"
	"github.com/spf13/cobra"
)

var checkpoint string

// RolloutCommand flies a policy restored from a checkpoint
func RolloutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Roll out the greedy policy of a checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			c.Experiment.Chart = ""
			c.Experiment.CheckpointEvery = 0

			run, err := experiment.NewRun(c, cmd.OutOrStdout(), !noColor)
			if err != nil {
				return err
			}
			defer run.Close()

			if err := run.Restore(checkpoint); err != nil {
				return err
			}
			return rollout(cmd, run)
		},
	}
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "",
		"checkpoint file written by train")
	cmd.MarkFlagRequired("checkpoint")
	return cmd
}
