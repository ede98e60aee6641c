package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/game"
	"github.com/vovakirdan/netpong/internal/lockstep"
	"github.com/vovakirdan/netpong/internal/platform/tui"
	"github.com/vovakirdan/netpong/internal/storage"
	"github.com/vovakirdan/netpong/internal/transport"
)

var flagHostAddr string

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host a duel and wait for an opponent",
	Long: `Listen on a TCP port and wait for one opponent to join, then play.

The host plays the left paddle. The opponent connects with:
  netpong join <your-address>

Both sides must run with the same config and seed, otherwise their
simulations would disagree from the first serve.

Examples:
  netpong host                     # Listen on :7777
  netpong host --addr :9000        # Listen on port 9000
  netpong host --seed 42           # Opponent must also pass --seed 42`,
	Run: runHost,
}

func init() {
	hostCmd.Flags().StringVar(&flagHostAddr, "addr", ":7777", "Address to listen on (host:port)")
}

func runHost(_ *cobra.Command, _ []string) {
	logger := duelLogger()

	fmt.Printf("Waiting for an opponent on %s ...\n", flagHostAddr)
	fmt.Println("They connect with: netpong join <your-address>")

	link, err := transport.Host(context.Background(), flagHostAddr, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runDuel("host", game.SideLeft, link, logger)
}

// runDuel is the shared tail of host and join: load config, open history,
// run the match UI over the established link.
func runDuel(mode string, side game.Side, link lockstep.Transport, logger *log.Logger) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		link.Close()
		fmt.Fprintln(os.Stderr, "Error: netpong needs an interactive terminal")
		os.Exit(1)
	}

	matchCfg, err := config.Load(flagConfig)
	if err != nil {
		link.Close()
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	gameCfg, err := matchCfg.ToGame(flagSeed)
	if err != nil {
		link.Close()
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		// Continue without history - the duel still works
		store = nil
	}

	model, err := tui.NewMatchModel(tui.MatchParams{
		GameCfg: gameCfg,
		Net:     matchCfg.Net,
		Mode:    mode,
		Side:    side,
		Store:   store,
		Logger:  logger,
	}, link)
	if err != nil {
		link.Close()
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
}

// duelLogger writes to ~/.netpong/netpong.log so log lines do not tear the
// alt-screen UI. Falls back to a silent logger.
func duelLogger() *log.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard)
	}
	dir := filepath.Join(home, ".netpong")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(filepath.Join(dir, "netpong.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}
	return log.NewWithOptions(f, log.Options{ReportTimestamp: true})
}
