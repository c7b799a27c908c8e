package main

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/glider/experiment"
	"github.com/spf13/cobra"
)

var skipRollout bool

// TrainCommand plans a policy and then flies it
func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run policy iteration, then roll out the greedy policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}

			run, err := experiment.NewRun(c, cmd.OutOrStdout(), !noColor)
			if err != nil {
				return err
			}
			defer run.Close()

			if err := run.Plan(cmd.Context()); err != nil {
				return err
			}
			if skipRollout {
				return nil
			}
			return rollout(cmd, run)
		},
	}
	cmd.Flags().BoolVar(&skipRollout, "no-rollout", false,
		"only plan, do not fly the planned policy")
	return cmd
}

// rollout flies the policy of run and prints a summary of the episodes
func rollout(cmd *cobra.Command, run *experiment.Run) error {
	s, err := run.Rollout(cmd.Context())
	if err != nil {
		return err
	}
	log.Printf("rollout: run %v finished", run.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Episodes: %d | return %.3f ± %.3f | "+
		"length %.1f | landed %d\n", s.Episodes, s.MeanReturn, s.StdReturn,
		s.MeanLength, s.TerminalEpisodes)
	return nil
}
