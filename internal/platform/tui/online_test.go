package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/lobby"
)

func newTestOnlineModel(t *testing.T) OnlineModel {
	t.Helper()
	logger := log.New(io.Discard)
	coord := lobby.NewCoordinator(lobby.DefaultConfig(), logger)
	sess := lobby.NewSession("tester")
	return NewOnlineModel(coord, sess, config.DefaultMatchConfig(), nil, logger, 80, 24)
}

type noopMsg struct{}

func TestFinishedMatchReturnsToLobby(t *testing.T) {
	m := newTestOnlineModel(t)
	m.state = OnlineStateInMatch
	m.match = &MatchModel{quitting: true, finished: true}

	next, _ := m.Update(noopMsg{})
	om := next.(OnlineModel)

	if om.State() != OnlineStateChooseMode {
		t.Errorf("state = %v after a finished match, want choose mode", om.State())
	}
	if om.IsQuitting() {
		t.Error("session ended after a finished match instead of returning to the lobby")
	}
}

func TestAbandonedMatchEndsSession(t *testing.T) {
	m := newTestOnlineModel(t)
	m.state = OnlineStateInMatch
	m.match = &MatchModel{quitting: true}

	next, _ := m.Update(noopMsg{})
	if !next.(OnlineModel).IsQuitting() {
		t.Error("session kept running after the player abandoned the match")
	}
}
