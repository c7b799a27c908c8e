// Command glider plans a thermal-seeking policy for a glider with
// model-based policy iteration and flies the planned policy.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	configFile string
	mode       string
	noColor    bool
)

func main() {
	log.SetPrefix("[glider] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCommand().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

// RootCommand returns the glider command with all subcommands added
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "glider",
		Short:         "Thermal-seeking glider with model-based policy iteration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"JSON config file overriding the defaults")
	cmd.PersistentFlags().StringVarP(&mode, "mode", "m", "2d",
		"glider mode selecting the defaults (1d or 2d)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"print tables without colours")

	cmd.AddCommand(TrainCommand())
	cmd.AddCommand(RolloutCommand())
	cmd.AddCommand(ConfigCommand())
	return cmd
}
