package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/config"
)

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the match configuration",
	Long: `Inspect and manage the match configuration file.

Config search order:
  1. --config flag
  2. ~/.netpong/configs/match.yaml
  3. ./configs/match.yaml
  4. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file for customization",
	Long: `Write the built-in default match settings to
~/.netpong/configs/match.yaml so they can be edited.

Both peers of a duel must play with identical values, so share the edited
file with your opponent.

Examples:
  netpong config init
  netpong config init --force   # Overwrite an existing file`,
	Run: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) {
	path := config.UserMatchConfigPath()
	if err := config.InitUserConfig(path, flagConfigForce); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default match config to %s\n", path)
	fmt.Println("Edit it, then make sure your opponent plays with identical values.")
}
