package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/lobby"
	"github.com/vovakirdan/netpong/internal/storage"
)

// OnlineState tracks where a hosted session is in the matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // choose host or join
	OnlineStateHostWaiting                      // hosting, waiting for a joiner
	OnlineStateJoinEnterCode                    // entering a join code
	OnlineStateInMatch                          // paired, the duel is running
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	codeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// OnlineModel is the full hosted-session flow: pick host or join, pair
// through the coordinator, then hand off to a MatchModel over the pipe the
// pairing produced.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	coordinator *lobby.Coordinator
	session     *lobby.Session
	matchCfg    config.MatchConfig
	store       *storage.Store
	logger      *log.Logger

	spin      spinner.Model
	codeInput textinput.Model

	lobbyCode string
	joinError string

	match    *MatchModel
	quitting bool
}

// NewOnlineModel creates the flow for one hosted session.
func NewOnlineModel(
	coordinator *lobby.Coordinator,
	session *lobby.Session,
	matchCfg config.MatchConfig,
	store *storage.Store,
	logger *log.Logger,
	width, height int,
) OnlineModel {
	if logger == nil {
		logger = log.Default()
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	codeInput := textinput.New()
	codeInput.Placeholder = "ABC123"
	codeInput.CharLimit = 6
	codeInput.Width = 10

	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		coordinator: coordinator,
		session:     session,
		matchCfg:    matchCfg,
		store:       store,
		logger:      logger,
		spin:        spin,
		codeInput:   codeInput,
	}
}

// Init starts listening for coordinator events.
func (m OnlineModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent bridges the coordinator's event channel into Bubble Tea.
func (m OnlineModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-m.session.Events():
			return evt
		case <-m.session.Done():
			return nil
		}
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.state == OnlineStateInMatch && m.match != nil {
		return m.updateMatch(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case lobby.MatchReadyEvent:
		return m.startMatch(msg)
	case lobby.LobbyClosedEvent:
		m.lobbyCode = ""
		m.joinError = msg.Reason
		m.state = OnlineStateChooseMode
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m OnlineModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.match.Update(msg)
	if match, ok := newModel.(MatchModel); ok {
		m.match = &match
	}
	if m.match.IsQuitting() {
		if m.match.Finished() {
			// The duel ran to game over; back to the lobby for a rematch
			// instead of dropping the whole SSH session.
			m.match = nil
			m.state = OnlineStateChooseMode
			m.joinError = ""
			return m, m.waitForEvent()
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.leave()
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		switch key {
		case "h", "1":
			code, err := m.coordinator.Create(m.session)
			if err != nil {
				m.joinError = err.Error()
				return m, nil
			}
			m.lobbyCode = code
			m.joinError = ""
			m.state = OnlineStateHostWaiting
			return m, m.spin.Tick
		case "j", "2":
			m.state = OnlineStateJoinEnterCode
			m.joinError = ""
			m.codeInput.SetValue("")
			return m, m.codeInput.Focus()
		case "q", "esc":
			m.leave()
			return m, tea.Quit
		}
	case OnlineStateHostWaiting:
		switch key {
		case "esc", "b", "q":
			m.coordinator.Leave(m.session.ID())
			m.lobbyCode = ""
			m.state = OnlineStateChooseMode
			return m, nil
		}
	case OnlineStateJoinEnterCode:
		switch key {
		case "esc":
			m.state = OnlineStateChooseMode
			return m, nil
		case "enter":
			code := m.codeInput.Value()
			if code == "" {
				return m, nil
			}
			if err := m.coordinator.Join(m.session, code); err != nil {
				m.joinError = err.Error()
				return m, nil
			}
			// Pairing succeeded; the MatchReadyEvent is on its way.
			return m, nil
		default:
			var cmd tea.Cmd
			m.codeInput, cmd = m.codeInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// startMatch turns a pairing into a running duel over the pipe half the
// coordinator handed us.
func (m OnlineModel) startMatch(evt lobby.MatchReadyEvent) (tea.Model, tea.Cmd) {
	gameCfg, err := m.matchCfg.ToGame(evt.Seed)
	if err != nil {
		m.joinError = err.Error()
		m.state = OnlineStateChooseMode
		return m, m.waitForEvent()
	}

	match, err := NewMatchModel(MatchParams{
		GameCfg:  gameCfg,
		Net:      m.matchCfg.Net,
		Mode:     "serve",
		Side:     evt.Side,
		Opponent: string(evt.Opponent),
		Store:    m.store,
		Logger:   m.logger,
	}, evt.Link)
	if err != nil {
		m.logger.Error("cannot start hosted match", "error", err)
		m.joinError = "match failed to start"
		m.state = OnlineStateChooseMode
		return m, m.waitForEvent()
	}

	m.match = &match
	m.state = OnlineStateInMatch
	m.logger.Info("hosted duel started",
		"code", evt.Code, "side", evt.Side.String(), "opponent", evt.Opponent)
	return m, m.match.Init()
}

// leave tears down whatever the session holds before quitting.
func (m *OnlineModel) leave() {
	m.coordinator.Leave(m.session.ID())
	m.session.Close()
	m.quitting = true
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	if m.state == OnlineStateInMatch && m.match != nil {
		return m.match.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("NETPONG"), m.width))
	b.WriteString("\n\n")

	switch m.state {
	case OnlineStateChooseMode:
		b.WriteString(centerText("[H] Host a duel", m.width))
		b.WriteString("\n")
		b.WriteString(centerText("[J] Join with a code", m.width))
		b.WriteString("\n\n")
		if m.joinError != "" {
			b.WriteString(centerText(errStyle.Render(m.joinError), m.width))
			b.WriteString("\n\n")
		}
		b.WriteString(centerText(hintStyle.Render("Q: quit"), m.width))
	case OnlineStateHostWaiting:
		b.WriteString(centerText("Share this code with your opponent:", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(codeStyle.Render(fmt.Sprintf("[ %s ]", m.lobbyCode)), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.spin.View()+" waiting for a challenger...", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(hintStyle.Render("Esc: cancel"), m.width))
	case OnlineStateJoinEnterCode:
		b.WriteString(centerText("Enter the duel code:", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.codeInput.View(), m.width))
		b.WriteString("\n")
		if m.joinError != "" {
			b.WriteString("\n")
			b.WriteString(centerText(errStyle.Render(m.joinError), m.width))
		}
		b.WriteString("\n\n")
		b.WriteString(centerText(hintStyle.Render("Enter: connect  |  Esc: back"), m.width))
	}

	return b.String()
}

// State returns the current flow state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// IsQuitting reports whether the session is done.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}
