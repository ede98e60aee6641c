// Package lockstep keeps two simulations in perfect agreement by advancing
// each tick only once both sides' inputs for that tick are known. Neither
// peer ever predicts or rolls back; when inputs are late the simulation
// simply waits.
package lockstep

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/game"
	"github.com/vovakirdan/netpong/internal/wire"
)

// maxRunahead bounds how many ticks of local input may be buffered beyond
// the last simulated tick. Without a bound a fast local loop would queue
// unlimited input against a stalled peer.
const maxRunahead = 8

// Engine drives one peer's half of a lockstep match. All methods are safe
// for concurrent use; incoming frames arrive on the transport's goroutine
// while the local frame loop calls SubmitLocalInput and Drive.
type Engine struct {
	mu        sync.Mutex
	g         *game.Game
	side      game.Side
	transport Transport
	logger    *log.Logger

	// Per-side input buffers keyed by tick. Entries below the simulation
	// cursor are consumed or pruned; the cursor always equals g.Tick().
	localBuf  map[game.Tick]game.Input
	remoteBuf map[game.Tick]game.Input

	// localNext is the next tick the local player has not yet provided
	// input for. It runs ahead of the cursor by at most maxRunahead.
	localNext game.Tick

	// Ping state: only the reply to our own outstanding ping counts as a
	// pong; anything else is the peer measuring us and gets echoed back.
	pingPending    bool
	lastPingMillis uint32
	rtt            time.Duration

	started  bool
	stopOnce sync.Once

	// clockMillis stamps outgoing pings; swapped out in tests.
	clockMillis func() uint32
}

// New creates an engine for one side of a match. The logger may be nil, in
// which case protocol-level problems are logged to the default logger.
func New(g *game.Game, side game.Side, t Transport, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		g:         g,
		side:      side,
		transport: t,
		logger:    logger.With("side", side.String()),
		localBuf:  make(map[game.Tick]game.Input),
		remoteBuf: make(map[game.Tick]game.Input),
		localNext: g.Tick(),
		clockMillis: func() uint32 {
			return uint32(time.Now().UnixMilli())
		},
	}
}

// Start hooks the engine to its transport. It fails if the transport is
// already closed; frames arriving before Start are dropped by the transport.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return errors.New("lockstep: engine already started")
	}
	if !e.transport.IsOpen() {
		return ErrClosed
	}
	e.transport.SetOnMessage(e.onFrame)
	e.started = true
	return nil
}

// Stop closes the transport and releases the input buffers. Safe to call
// more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		if err := e.transport.Close(); err != nil {
			e.logger.Warn("transport close", "error", err)
		}
		e.mu.Lock()
		clear(e.localBuf)
		clear(e.remoteBuf)
		e.mu.Unlock()
	})
}

// SubmitLocalInput records the local player's input for the next unclaimed
// tick and ships it to the peer. It reports false when the runahead window
// is full, meaning the peer has fallen behind and this frame's input must
// be retried later.
//
// The frame for the current cursor tick is retransmitted on every call,
// whether or not the window had room: losing the one frame that carries the
// tick both sides are waiting on would otherwise stall the match forever.
func (e *Engine) SubmitLocalInput(in game.Input) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cursor := e.g.Tick()
	accepted := false
	if e.localNext < cursor+maxRunahead {
		claimed := e.localNext
		e.localBuf[claimed] = in
		e.localNext++
		accepted = true
		if claimed != cursor {
			e.sendInput(claimed, in)
		}
	}

	if local, ok := e.localBuf[cursor]; ok {
		e.sendInput(cursor, local)
	}
	return accepted
}

// sendInput ships one tick's local input. The frame carries both slots but
// only ours is truthful; the peer reads only our side.
func (e *Engine) sendInput(tick game.Tick, in game.Input) {
	pair := game.InputPair{Tick: tick}
	*pair.Slot(e.side) = in
	e.send(wire.InputPairMsg{Pair: pair})
}

// Drive advances the simulation through every tick whose inputs are
// complete on both sides, returning any score events produced. A tick with
// a missing input, local or remote, stops the advance; Drive never waits.
func (e *Engine) Drive() []game.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var events []game.Event
	for {
		tick := e.g.Tick()
		local, haveLocal := e.localBuf[tick]
		remote, haveRemote := e.remoteBuf[tick]
		if !haveLocal || !haveRemote {
			return events
		}

		pair := game.InputPair{Tick: tick}
		*pair.Slot(e.side) = local
		*pair.Slot(e.side.Opposite()) = remote
		if ev, ok := e.g.Step(pair); ok {
			events = append(events, ev)
		}

		delete(e.localBuf, tick)
		delete(e.remoteBuf, tick)
	}
}

// onFrame handles one frame off the transport. Malformed frames are logged
// and dropped; a hostile or broken peer must never crash the loop.
func (e *Engine) onFrame(frame []byte) {
	msg, err := wire.Decode(frame)
	if err != nil {
		e.logger.Warn("dropping malformed frame", "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch m := msg.(type) {
	case wire.InputPairMsg:
		e.handleRemoteInput(m.Pair)
	case wire.SnapshotMsg:
		e.handleSnapshot(m.Snap)
	case wire.PingMsg:
		e.handlePing(m.Timestamp)
	}
}

func (e *Engine) handleRemoteInput(pair game.InputPair) {
	if pair.Tick < e.g.Tick() {
		// Stale: already simulated past it, or superseded by a snapshot.
		return
	}
	e.remoteBuf[pair.Tick] = pair.Input(e.side.Opposite())
}

// handleSnapshot adopts the peer's pushed state unconditionally. The push is
// the one corrective mechanism for diverged peers, and divergence is just as
// real at an equal or earlier tick as at a later one, so there is no guard:
// whatever the peer pushes wins.
func (e *Engine) handleSnapshot(snap game.Snapshot) {
	cur := e.g.Tick()
	if snap.Tick != cur {
		e.logger.Info("resyncing from snapshot", "from", cur, "to", snap.Tick)
	}
	e.g.Restore(snap)

	if snap.Tick < cur {
		// Rewound: inputs for the replayed span were already consumed, so
		// claiming starts over from the restored cursor.
		clear(e.localBuf)
		clear(e.remoteBuf)
		e.localNext = snap.Tick
		return
	}

	// Everything below the new cursor is history.
	for t := range e.localBuf {
		if t < snap.Tick {
			delete(e.localBuf, t)
		}
	}
	for t := range e.remoteBuf {
		if t < snap.Tick {
			delete(e.remoteBuf, t)
		}
	}
	if e.localNext < snap.Tick {
		e.localNext = snap.Tick
	}
}

func (e *Engine) handlePing(ts uint32) {
	if e.pingPending && ts == e.lastPingMillis {
		// Our own ping came back.
		e.pingPending = false
		e.rtt = time.Duration(e.clockMillis()-ts) * time.Millisecond
		return
	}
	// The peer is measuring us; echo the stamp back unchanged.
	e.send(wire.PingMsg{Timestamp: ts})
}

// Ping sends a round-trip probe. The next echo of this exact timestamp is
// treated as the reply; earlier outstanding probes are forgotten.
func (e *Engine) Ping() {
	e.mu.Lock()
	defer e.mu.Unlock()

	ts := e.clockMillis()
	e.lastPingMillis = ts
	e.pingPending = true
	e.send(wire.PingMsg{Timestamp: ts})
}

// RTT returns the most recently measured round-trip time, zero before the
// first reply.
func (e *Engine) RTT() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rtt
}

// PushSnapshot sends the full current simulation state to the peer, who
// adopts it if behind.
func (e *Engine) PushSnapshot() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.send(wire.SnapshotMsg{Snap: e.g.Snapshot()})
}

// WaitingForRemote reports whether the simulation is stalled purely on the
// peer: our input for the current tick is buffered, theirs is not.
func (e *Engine) WaitingForRemote() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	tick := e.g.Tick()
	_, haveLocal := e.localBuf[tick]
	_, haveRemote := e.remoteBuf[tick]
	return haveLocal && !haveRemote
}

// CurrentTick returns the next tick to be simulated.
func (e *Engine) CurrentTick() game.Tick {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.Tick()
}

// View returns the render projection of the simulation.
func (e *Engine) View() game.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.View()
}

// Winner returns the winning side once the match is over.
func (e *Engine) Winner() (game.Side, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.Winner()
}

// BufferSizes returns the number of buffered local and remote inputs,
// exposed for diagnostics overlays.
func (e *Engine) BufferSizes() (local, remote int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.localBuf), len(e.remoteBuf)
}

// send must be called with the lock held.
func (e *Engine) send(m wire.Msg) {
	if err := e.transport.Send(wire.Encode(m)); err != nil {
		e.logger.Warn("send failed", "error", err)
	}
}
