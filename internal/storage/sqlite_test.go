package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	matches := []MatchRecord{
		{Mode: "host", LocalSide: "left", Opponent: "192.0.2.1:5123", ScoreLeft: 11, ScoreRight: 7, Winner: "left", Ticks: 18000, DurationSecs: 300},
		{Mode: "join", LocalSide: "right", Opponent: "pong.example:7777", ScoreLeft: 11, ScoreRight: 4, Winner: "left", Ticks: 12000, DurationSecs: 200},
		{Mode: "serve", LocalSide: "left", ScoreLeft: 3, ScoreRight: 11, Winner: "right", Ticks: 9000, DurationSecs: 150},
	}
	for _, m := range matches {
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(recent))
	}

	// Newest first
	if recent[0].Mode != "serve" {
		t.Errorf("Expected newest match first, got mode %q", recent[0].Mode)
	}
	if recent[0].ScoreLeft != 3 || recent[0].ScoreRight != 11 {
		t.Errorf("Score not round-tripped: %d-%d", recent[0].ScoreLeft, recent[0].ScoreRight)
	}
	if recent[0].Ticks != 9000 {
		t.Errorf("Ticks not round-tripped: %d", recent[0].Ticks)
	}
	if recent[2].Opponent != "192.0.2.1:5123" {
		t.Errorf("Opponent not round-tripped: %q", recent[2].Opponent)
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestStoreRecentMatchesLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.SaveMatch(MatchRecord{
			Mode: "host", LocalSide: "left", ScoreLeft: 11, ScoreRight: i, Winner: "left",
		}); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches(3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("Expected 3 matches with limit, got %d", len(recent))
	}
	if recent[0].ScoreRight != 4 {
		t.Errorf("Newest match should come first, got opponent score %d", recent[0].ScoreRight)
	}
}

func TestStoreLocalStats(t *testing.T) {
	store := openTestStore(t)

	// No matches yet
	stats, err := store.LocalStats()
	if err != nil {
		t.Fatalf("LocalStats() failed: %v", err)
	}
	if stats.Played != 0 || stats.Won != 0 {
		t.Errorf("Empty store stats = %+v", stats)
	}

	saves := []MatchRecord{
		{Mode: "host", LocalSide: "left", Winner: "left"},   // win
		{Mode: "host", LocalSide: "left", Winner: "right"},  // loss
		{Mode: "join", LocalSide: "right", Winner: "right"}, // win
		{Mode: "join", LocalSide: "right", Winner: ""},      // abandoned
	}
	for _, m := range saves {
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err = store.LocalStats()
	if err != nil {
		t.Fatalf("LocalStats() failed: %v", err)
	}
	if stats.Played != 4 {
		t.Errorf("Played = %d, want 4", stats.Played)
	}
	if stats.Won != 2 {
		t.Errorf("Won = %d, want 2", stats.Won)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not populated")
	}
}

func TestMatchRecordWon(t *testing.T) {
	cases := []struct {
		rec  MatchRecord
		want bool
	}{
		{MatchRecord{LocalSide: "left", Winner: "left"}, true},
		{MatchRecord{LocalSide: "left", Winner: "right"}, false},
		{MatchRecord{LocalSide: "right", Winner: ""}, false},
	}
	for _, tc := range cases {
		if got := tc.rec.Won(); got != tc.want {
			t.Errorf("Won() for %+v = %v, want %v", tc.rec, got, tc.want)
		}
	}
}

func TestStoreClearHistory(t *testing.T) {
	store := openTestStore(t)

	store.SaveMatch(MatchRecord{Mode: "host", LocalSide: "left", Winner: "left"})
	store.SaveMatch(MatchRecord{Mode: "join", LocalSide: "right", Winner: "left"})

	if err := store.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory() failed: %v", err)
	}

	recent, _ := store.RecentMatches(10)
	if len(recent) != 0 {
		t.Errorf("Expected 0 matches after clear, got %d", len(recent))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
