package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past matches and stats",
	Long: `Display recent matches and the overall win/loss record.

Examples:
  netpong history
  netpong history --limit 20
  netpong history --clear     # Delete all recorded matches`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded matches")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Match history cleared.")
		return
	}

	matches, err := store.RecentMatches(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Match History")
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'netpong host' or 'netpong join <address>' to record your first duel!")
		return
	}

	fmt.Printf("  %-5s  %-6s  %-7s  %-8s  %-6s  %s\n", "Mode", "Side", "Score", "Result", "Time", "Date")
	fmt.Printf("  %-5s  %-6s  %-7s  %-8s  %-6s  %s\n", "----", "----", "-----", "------", "----", "----")

	for _, m := range matches {
		var result string
		switch {
		case m.Winner == "":
			result = "-"
		case m.Won():
			result = "won"
		default:
			result = "lost"
		}
		fmt.Printf("  %-5s  %-6s  %2d - %-2d  %-8s  %4ds  %s\n",
			m.Mode, m.LocalSide, m.ScoreLeft, m.ScoreRight, result,
			m.DurationSecs, m.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.LocalStats()
	if err == nil && stats.Played > 0 {
		fmt.Println()
		fmt.Printf("Played: %d   Won: %d   Lost: %d\n", stats.Played, stats.Won, stats.Played-stats.Won)
	}
}
