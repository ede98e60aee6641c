package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/game"
	"github.com/vovakirdan/netpong/internal/lockstep"
	"github.com/vovakirdan/netpong/internal/storage"
)

// MatchParams bundles everything a duel needs beyond its transport.
type MatchParams struct {
	GameCfg  game.Config
	Net      config.NetConfig
	Mode     string // "host", "join", or "serve"
	Side     game.Side
	Opponent string
	Store    *storage.Store // may be nil; history is then not recorded
	Logger   *log.Logger
}

// MatchModel runs one duel: it samples keys into a per-tick input, feeds
// the lockstep engine on every tick, and projects the engine's view onto
// the terminal.
type MatchModel struct {
	params MatchParams
	engine *lockstep.Engine

	width  int
	height int

	keyMapper *KeyMapper
	pending   game.Input // input assembled from key presses since the last tick

	sincePing     int
	sinceSnapshot int

	startedAt  time.Time
	matchSaved bool
	quitting   bool
	finished   bool
}

// NewMatchModel builds the model and starts its engine on the given link.
func NewMatchModel(params MatchParams, link lockstep.Transport) (MatchModel, error) {
	if params.Logger == nil {
		params.Logger = log.Default()
	}

	engine := lockstep.New(game.New(params.GameCfg), params.Side, link, params.Logger)
	if err := engine.Start(); err != nil {
		return MatchModel{}, fmt.Errorf("tui: cannot start match: %w", err)
	}

	return MatchModel{
		params:    params,
		engine:    engine,
		width:     80,
		height:    24,
		keyMapper: NewKeyMapper(),
		startedAt: time.Now(),
	}, nil
}

// Init starts the local frame loop.
func (m MatchModel) Init() tea.Cmd {
	return tickCmd(int(m.params.GameCfg.TickHz))
}

// Update handles messages.
func (m MatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.keyMapper.MapKey(msg, &m.pending) {
			m.saveMatch()
			m.engine.Stop()
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleTick runs one local frame. Input is cleared whether or not the
// engine accepted it; a full runahead window means the peer is stalled and
// stale presses should not pile up against them.
func (m MatchModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	m.engine.SubmitLocalInput(m.pending)
	m.pending = game.Input{}

	for _, ev := range m.engine.Drive() {
		m.params.Logger.Info("point scored",
			"scorer", ev.Scorer.String(),
			"score", fmt.Sprintf("%d-%d", ev.Score[0], ev.Score[1]),
		)
	}

	m.housekeeping()

	v := m.engine.View()
	if v.Status.Kind == game.StatusGameOver && !m.matchSaved {
		m.saveMatch()
		m.finished = true
	}

	return m, tickCmd(int(m.params.GameCfg.TickHz))
}

// housekeeping drives the periodic ping and, on the left side, the
// periodic snapshot push. One designated sender is enough: snapshots only
// matter to a peer that has fallen behind.
func (m *MatchModel) housekeeping() {
	tickHz := int(m.params.GameCfg.TickHz)

	if m.params.Net.PingIntervalMS > 0 {
		pingTicks := m.params.Net.PingIntervalMS * tickHz / 1000
		if pingTicks < 1 {
			pingTicks = 1
		}
		m.sincePing++
		if m.sincePing >= pingTicks {
			m.sincePing = 0
			m.engine.Ping()
		}
	}

	if m.params.Side == game.SideLeft && m.params.Net.SnapshotIntervalTicks > 0 {
		m.sinceSnapshot++
		if m.sinceSnapshot >= m.params.Net.SnapshotIntervalTicks {
			m.sinceSnapshot = 0
			m.engine.PushSnapshot()
		}
	}
}

// saveMatch records the duel outcome once. Best effort; a missing store or
// a failed insert never interrupts play.
func (m *MatchModel) saveMatch() {
	if m.matchSaved || m.params.Store == nil {
		return
	}
	m.matchSaved = true

	v := m.engine.View()
	winner := ""
	if w, over := m.engine.Winner(); over {
		winner = w.String()
	}

	_, err := m.params.Store.SaveMatch(storage.MatchRecord{
		Mode:         m.params.Mode,
		LocalSide:    m.params.Side.String(),
		Opponent:     m.params.Opponent,
		ScoreLeft:    int(v.Score[0]),
		ScoreRight:   int(v.Score[1]),
		Winner:       winner,
		Ticks:        v.Tick,
		DurationSecs: int(time.Since(m.startedAt).Seconds()),
	})
	if err != nil {
		m.params.Logger.Warn("could not record match", "error", err)
	}
}

// View renders the playfield.
func (m MatchModel) View() string {
	if m.quitting {
		return ""
	}
	v := m.engine.View()
	return RenderMatch(v, m.width, m.height, m.footer(v))
}

// footer builds the status line under the field.
func (m MatchModel) footer(v game.View) string {
	tickHz := int(m.params.GameCfg.TickHz)

	switch v.Status.Kind {
	case game.StatusLobby:
		if m.engine.WaitingForRemote() {
			return "waiting for opponent..."
		}
		return "press R when ready"
	case game.StatusCountdown:
		secs := (int(v.Status.TicksLeft) + tickHz - 1) / tickHz
		return fmt.Sprintf("starting in %d...", secs)
	case game.StatusPlaying:
		base := fmt.Sprintf("you are %s", m.params.Side.String())
		if rtt := m.engine.RTT(); rtt > 0 {
			base += fmt.Sprintf("  |  rtt %dms", rtt.Milliseconds())
		}
		if m.engine.WaitingForRemote() {
			base += "  |  waiting for remote..."
		}
		return base
	case game.StatusScored:
		return fmt.Sprintf("point to %s", v.Status.Side.String())
	case game.StatusGameOver:
		return fmt.Sprintf("%s wins!  press Q to leave", v.Status.Side.String())
	default:
		return ""
	}
}

// Finished reports whether the match reached game over.
func (m MatchModel) Finished() bool {
	return m.finished
}

// IsQuitting reports whether the user asked to leave.
func (m MatchModel) IsQuitting() bool {
	return m.quitting
}
