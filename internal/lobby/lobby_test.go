package lobby

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/game"
)

func newCoordinator() *Coordinator {
	return NewCoordinator(DefaultConfig(), log.New(io.Discard))
}

func waitEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case evt := <-s.Events():
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event arrived")
		return nil
	}
}

func TestCreateAndJoinPairsBothSessions(t *testing.T) {
	c := newCoordinator()
	host := NewSession("alice")
	joiner := NewSession("bob")

	code, err := c.Create(host)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code %q, want 6 characters", code)
	}
	if c.Count() != 1 {
		t.Errorf("lobby count = %d, want 1", c.Count())
	}

	if err := c.Join(joiner, code); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if c.Count() != 0 {
		t.Errorf("lobby survived the pairing: count = %d", c.Count())
	}

	hostEvt, ok := waitEvent(t, host).(MatchReadyEvent)
	if !ok {
		t.Fatal("host did not receive MatchReadyEvent")
	}
	joinEvt, ok := waitEvent(t, joiner).(MatchReadyEvent)
	if !ok {
		t.Fatal("joiner did not receive MatchReadyEvent")
	}

	if hostEvt.Side != game.SideLeft || joinEvt.Side != game.SideRight {
		t.Errorf("sides = %v/%v, want left/right", hostEvt.Side, joinEvt.Side)
	}
	if hostEvt.Seed != joinEvt.Seed {
		t.Error("seeds differ between the paired sessions")
	}
	if hostEvt.Opponent != "bob" || joinEvt.Opponent != "alice" {
		t.Errorf("opponents = %q/%q", hostEvt.Opponent, joinEvt.Opponent)
	}

	// The two halves are actually connected.
	got := make(chan []byte, 1)
	joinEvt.Link.SetOnMessage(func(b []byte) { got <- b })
	if err := hostEvt.Link.Send([]byte{42}); err != nil {
		t.Fatalf("Send over paired link: %v", err)
	}
	select {
	case b := <-got:
		if len(b) != 1 || b[0] != 42 {
			t.Errorf("frame = %v", b)
		}
	case <-time.After(time.Second):
		t.Fatal("frame never crossed the paired link")
	}
	hostEvt.Link.Close()
}

func TestJoinUnknownCode(t *testing.T) {
	c := newCoordinator()
	if err := c.Join(NewSession("bob"), "NOPE99"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestJoinOwnLobby(t *testing.T) {
	c := newCoordinator()
	host := NewSession("alice")
	code, err := c.Create(host)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Join(host, code); !errors.Is(err, ErrOwnCode) {
		t.Errorf("error = %v, want ErrOwnCode", err)
	}
}

func TestCodeIsCaseAndSpaceInsensitive(t *testing.T) {
	c := newCoordinator()
	host := NewSession("alice")
	code, err := c.Create(host)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Join(NewSession("bob"), "  "+lowered(code)+" "); err != nil {
		t.Errorf("Join with sloppy code failed: %v", err)
	}
}

func lowered(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + 'a' - 'A'
		}
	}
	return string(b)
}

func TestSecondLobbyWhileHostingRejected(t *testing.T) {
	c := newCoordinator()
	host := NewSession("alice")
	if _, err := c.Create(host); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(host); !errors.Is(err, ErrBusy) {
		t.Errorf("error = %v, want ErrBusy", err)
	}
}

func TestLeaveClosesLobby(t *testing.T) {
	c := newCoordinator()
	host := NewSession("alice")
	code, err := c.Create(host)
	if err != nil {
		t.Fatal(err)
	}

	c.Leave(host.ID())
	if c.Count() != 0 {
		t.Errorf("lobby count = %d after Leave", c.Count())
	}

	evt, ok := waitEvent(t, host).(LobbyClosedEvent)
	if !ok {
		t.Fatal("host did not receive LobbyClosedEvent")
	}
	if evt.Code != code || evt.Reason != "cancelled" {
		t.Errorf("event = %+v", evt)
	}

	// The code is dead after closing.
	if err := c.Join(NewSession("bob"), code); !errors.Is(err, ErrNotFound) {
		t.Errorf("join after close = %v, want ErrNotFound", err)
	}

	// Host can open a fresh lobby now.
	if _, err := c.Create(host); err != nil {
		t.Errorf("Create after Leave failed: %v", err)
	}
}

func TestStaleLobbiesExpire(t *testing.T) {
	c := newCoordinator()
	host := NewSession("alice")
	if _, err := c.Create(host); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time {
		return time.Now().Add(c.config.LobbyTimeout + time.Minute)
	}
	c.expireStale()

	if c.Count() != 0 {
		t.Errorf("stale lobby survived: count = %d", c.Count())
	}
	if evt, ok := waitEvent(t, host).(LobbyClosedEvent); !ok || evt.Reason != "expired" {
		t.Errorf("event = %+v, want expiry notice", evt)
	}
}

func TestSessionSendNeverBlocks(t *testing.T) {
	s := NewSession("alice")

	// Flood well past the buffer; must not block or panic.
	for i := 0; i < sessionEventBuffer*3; i++ {
		s.send(LobbyClosedEvent{Reason: "flood"})
	}

	// A closed session swallows sends.
	s.Close()
	s.send(LobbyClosedEvent{Reason: "after close"})

	select {
	case <-s.Done():
	default:
		t.Error("Done channel not closed")
	}
}
