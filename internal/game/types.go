// Package game implements the deterministic Pong simulation shared by both
// peers of a duel. All gameplay quantities are Q16.16 fixed-point and every
// state transition is a pure function of (state, input pair), so two instances
// fed the same inputs stay bit-for-bit identical on any platform.
package game

import "github.com/vovakirdan/netpong/internal/fixed"

// Tick is the discrete unit of simulated time.
type Tick = uint32

// Side identifies one of the two players.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// String returns a human-readable name for the side.
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// StatusKind discriminates the match phase.
type StatusKind uint8

const (
	StatusLobby StatusKind = iota
	StatusCountdown
	StatusPlaying
	StatusScored
	StatusGameOver
)

// Status is the full match phase: the kind plus the payload that some phases
// carry. Side is the scorer for StatusScored and the winner for StatusGameOver;
// TicksLeft is the remaining countdown or scored-pause duration. Unused fields
// are zero, which keeps Status comparable with ==.
type Status struct {
	Kind      StatusKind
	Side      Side
	TicksLeft uint16
}

// Text returns a short presentation string for the phase.
func (st Status) Text() string {
	switch st.Kind {
	case StatusLobby:
		return "Waiting for players"
	case StatusCountdown:
		return "Get ready..."
	case StatusPlaying:
		return "Playing"
	case StatusScored:
		return "Point!"
	case StatusGameOver:
		return "Game over"
	default:
		return "Unknown"
	}
}

// Vec2 is a 2D fixed-point vector.
type Vec2 struct {
	X, Y fixed.Fx
}

// Paddle is one side's paddle: vertical center position and velocity.
type Paddle struct {
	Y  fixed.Fx
	VY fixed.Fx
}

// Ball is the ball's position and velocity.
type Ball struct {
	Pos Vec2
	Vel Vec2
}

// Input button bits.
const (
	ButtonReady uint8 = 1 << 0
	ButtonPause uint8 = 1 << 1
)

// Input is one side's sampled control for one tick.
type Input struct {
	AxisY   int8  // [-127, 127]; positive moves the paddle up
	Buttons uint8 // bit 0 ready, bit 1 pause, rest reserved
}

// Ready reports whether the ready button is held.
func (in Input) Ready() bool {
	return in.Buttons&ButtonReady != 0
}

// InputPair is the tick number plus both sides' inputs. It is the unit
// exchanged on the wire and the unit Step consumes; Step is never invoked
// with a partial pair.
type InputPair struct {
	Tick Tick
	A    Input // left
	B    Input // right
}

// Input returns the given side's half of the pair.
func (p InputPair) Input(s Side) Input {
	if s == SideLeft {
		return p.A
	}
	return p.B
}

// Slot returns a pointer to the given side's half of the pair, for callers
// assembling a pair one side at a time.
func (p *InputPair) Slot(s Side) *Input {
	if s == SideLeft {
		return &p.A
	}
	return &p.B
}

// Event is a domain event emitted by Step. Scoring is the only kind the
// simulation produces.
type Event struct {
	Scorer Side
	Score  [2]uint8 // score after the point, [left, right]
}

// Snapshot is a complete copy of simulation state. Restoring it and stepping
// produces the identical trajectory to a game that was never snapshotted,
// which is why it carries the PRNG state and the full status timers.
type Snapshot struct {
	Tick    Tick
	Status  Status
	Paddles [2]Paddle
	Ball    Ball
	Score   [2]uint8
	Rng     uint64
}

// View is the read-only projection handed to renderers. Nothing a consumer
// does with it can feed back into the simulation.
type View struct {
	Tick        Tick
	Status      Status
	LeftY       fixed.Fx
	RightY      fixed.Fx
	PaddleHalfH fixed.Fx
	PaddleX     fixed.Fx // paddle distance from its edge
	PaddleW     fixed.Fx
	BallPos     Vec2
	BallRadius  fixed.Fx
	Score       [2]uint8
}
