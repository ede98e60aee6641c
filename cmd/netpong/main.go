// netpong is a two-player network Pong played in the terminal.
//
// Usage:
//
//	netpong host              - Host a duel and wait for an opponent
//	netpong join <address>    - Join a hosted duel
//	netpong serve             - Start an SSH server that pairs players by code
//	netpong history           - Show past matches and win/loss stats
//	netpong config init       - Write the default config file for editing
//
// Global flags:
//
//	--config <path>  - Custom match config YAML
//	--seed <value>   - Simulation seed; both peers must use the same value
//	--db <path>      - Match history database (default: ~/.netpong/matches.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// defaultSeed is the simulation seed when none is given. Both peers of a
// direct duel must run with the same seed; the default makes that automatic.
const defaultSeed uint64 = 1

var (
	// Global flags
	flagConfig string
	flagSeed   uint64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netpong",
	Short: "Netpong - Lockstep network Pong in your terminal",
	Long: `Netpong is a terminal Pong where two peers run the same deterministic
simulation in lockstep: a tick advances only once both players' inputs
for it are known, so the match can never silently diverge.

Available commands:
  host     - Host a duel on a TCP port and wait for an opponent
  join     - Join a duel by the host's address
  serve    - Start an SSH server that pairs players via join codes
  history  - View past matches and stats
  config   - Manage the match configuration

Examples:
  netpong host --addr :7777
  netpong join 192.168.1.10:7777
  netpong serve --ssh :23234
  netpong history --limit 20`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", defaultSeed, "Simulation seed (must match on both peers)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.netpong/matches.db", "Path to match history database")

	// Add subcommands
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
