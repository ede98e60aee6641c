package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/game"
	"github.com/vovakirdan/netpong/internal/transport"
)

var joinCmd = &cobra.Command{
	Use:   "join <address>",
	Short: "Join a hosted duel",
	Long: `Connect to a peer that is hosting a duel and play as the right paddle.

The address is whatever the host is listening on, e.g. 192.168.1.10:7777.
A full ws:// URL is also accepted.

Both sides must run with the same config and seed, otherwise their
simulations would disagree from the first serve.

Examples:
  netpong join 192.168.1.10:7777
  netpong join localhost:9000 --seed 42`,
	Args: cobra.ExactArgs(1),
	Run:  runJoin,
}

func runJoin(_ *cobra.Command, args []string) {
	logger := duelLogger()

	link, err := transport.Join(context.Background(), args[0], logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runDuel("join", game.SideRight, link, logger)
}
