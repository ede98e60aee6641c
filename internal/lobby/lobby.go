// Package lobby pairs two hosted sessions into a duel. A host session
// creates a lobby and receives a short join code; when another session
// presents that code, both ends get the two halves of an in-process
// transport, their assigned sides, and a shared RNG seed, and the lobby is
// gone. Everything after the handshake runs over the transport; the
// coordinator never sees a game frame.
package lobby

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/game"
	"github.com/vovakirdan/netpong/internal/lockstep"
)

// SessionID uniquely identifies a player's connection.
type SessionID string

var (
	ErrNotFound = errors.New("lobby: no such code")
	ErrOwnCode  = errors.New("lobby: cannot join your own lobby")
	ErrBusy     = errors.New("lobby: session already in a lobby")
)

// MatchReadyEvent is delivered to both sessions when a pairing completes.
// Each side receives its own transport half; Seed is identical on both so
// the simulations agree from tick zero.
type MatchReadyEvent struct {
	Code     string
	Side     game.Side
	Seed     uint64
	Link     lockstep.Transport
	Opponent SessionID
}

func (MatchReadyEvent) lobbyEvent() {}

// LobbyClosedEvent is delivered when a lobby dissolves without a match.
type LobbyClosedEvent struct {
	Code   string
	Reason string
}

func (LobbyClosedEvent) lobbyEvent() {}

type pendingLobby struct {
	code      string
	host      *Session
	createdAt time.Time
}

// Config holds coordinator tunables.
type Config struct {
	LobbyTimeout  time.Duration // how long an unjoined lobby survives
	CleanupPeriod time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// Coordinator tracks open lobbies and performs pairings. Thread-safe.
type Coordinator struct {
	config Config
	logger *log.Logger

	mu           sync.Mutex
	lobbies      map[string]*pendingLobby
	sessionLobby map[SessionID]string

	done     chan struct{}
	stopOnce sync.Once

	// now is swapped out in expiry tests.
	now func() time.Time
}

// NewCoordinator creates a coordinator. The logger may be nil.
func NewCoordinator(cfg Config, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		config:       cfg,
		logger:       logger,
		lobbies:      make(map[string]*pendingLobby),
		sessionLobby: make(map[SessionID]string),
		done:         make(chan struct{}),
		now:          time.Now,
	}
}

// Start begins expiring stale lobbies in the background.
func (c *Coordinator) Start() {
	go c.cleanupLoop()
}

// Stop shuts the coordinator down. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// Create opens a lobby hosted by the given session and returns its join
// code. The host will play the left side.
func (c *Coordinator) Create(host *Session) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.sessionLobby[host.ID()]; busy {
		return "", ErrBusy
	}

	code := c.uniqueCode()
	c.lobbies[code] = &pendingLobby{
		code:      code,
		host:      host,
		createdAt: c.now(),
	}
	c.sessionLobby[host.ID()] = code

	c.logger.Info("lobby opened", "code", code, "host", host.ID())
	return code, nil
}

// Join pairs the session with the lobby behind the code. On success both
// sessions receive a MatchReadyEvent and the lobby is removed.
func (c *Coordinator) Join(joiner *Session, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.sessionLobby[joiner.ID()]; busy {
		return ErrBusy
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	lob, ok := c.lobbies[code]
	if !ok {
		return ErrNotFound
	}
	if lob.host.ID() == joiner.ID() {
		return ErrOwnCode
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, lob.host.ID())

	seed := randomSeed()
	hostLink, joinLink := lockstep.NewPipe()

	lob.host.send(MatchReadyEvent{
		Code:     code,
		Side:     game.SideLeft,
		Seed:     seed,
		Link:     hostLink,
		Opponent: joiner.ID(),
	})
	joiner.send(MatchReadyEvent{
		Code:     code,
		Side:     game.SideRight,
		Seed:     seed,
		Link:     joinLink,
		Opponent: lob.host.ID(),
	})

	c.logger.Info("lobby paired", "code", code, "host", lob.host.ID(), "joiner", joiner.ID())
	return nil
}

// Leave removes the session's open lobby, if any. Called when a host backs
// out or its connection drops before anyone joins.
func (c *Coordinator) Leave(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, ok := c.sessionLobby[id]
	if !ok {
		return
	}
	lob, ok := c.lobbies[code]
	delete(c.sessionLobby, id)
	if !ok {
		return
	}
	delete(c.lobbies, code)
	lob.host.send(LobbyClosedEvent{Code: code, Reason: "cancelled"})
	c.logger.Info("lobby closed", "code", code, "reason", "cancelled")
}

// Count returns the number of open lobbies.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lobbies)
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.expireStale()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) expireStale() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for code, lob := range c.lobbies {
		if now.Sub(lob.createdAt) > c.config.LobbyTimeout {
			delete(c.lobbies, code)
			delete(c.sessionLobby, lob.host.ID())
			lob.host.send(LobbyClosedEvent{Code: code, Reason: "expired"})
			c.logger.Info("lobby closed", "code", code, "reason", "expired")
		}
	}
}

// uniqueCode must be called with the lock held.
func (c *Coordinator) uniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase base32 code.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// randomSeed draws the shared serve RNG seed for a pairing.
func randomSeed() uint64 {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b)
}
