package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardstack/internal/util"
)

var Version = "dev"

func main() {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           "cardstack",
		Short:         "Cardstack - one task at a time from a personal deck",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", util.EnvOrDefault("CARDSTACK_CONFIG", ""), "Path to cardstack.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to sqlite database file (overrides config)")

	rootCmd.AddCommand(serveCmd(&opts))
	rootCmd.AddCommand(addCmd(&opts))
	rootCmd.AddCommand(listCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
