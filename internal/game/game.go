package game

import (
	"fmt"

	"github.com/vovakirdan/netpong/internal/fixed"
)

// Game is the authoritative, mutable simulation aggregate. One instance per
// peer per match; it is never shared across goroutines — the lockstep engine
// is its sole caller.
type Game struct {
	cfg     Config
	tick    Tick
	status  Status
	paddles [2]Paddle
	ball    Ball
	score   [2]uint8
	rng     uint64
}

// New creates a game in the Lobby phase with paddles centered and the ball
// parked at midfield. The PRNG starts at Config.Seed and is advanced only
// inside Step.
func New(cfg Config) *Game {
	return &Game{
		cfg:    cfg,
		status: Status{Kind: StatusLobby},
		paddles: [2]Paddle{
			{Y: fixed.One / 2},
			{Y: fixed.One / 2},
		},
		ball: Ball{Pos: Vec2{X: fixed.One / 2, Y: fixed.One / 2}},
		rng:  cfg.Seed,
	}
}

// Tick returns the current tick counter.
func (g *Game) Tick() Tick {
	return g.tick
}

// Config returns the match parameters.
func (g *Game) Config() Config {
	return g.cfg
}

// Step advances the simulation by exactly one tick. The input pair's tick
// must equal the game's current tick; a mismatch is a caller bug (the
// lockstep engine guarantees alignment by construction) and panics rather
// than silently desyncing. The returned event is valid only when ok is true.
func (g *Game) Step(in InputPair) (ev Event, ok bool) {
	if in.Tick != g.tick {
		panic(fmt.Sprintf("game: input tick %d does not match simulation tick %d", in.Tick, g.tick))
	}

	switch g.status.Kind {
	case StatusLobby:
		if in.A.Ready() && in.B.Ready() {
			g.beginCountdown(SideLeft)
		}

	case StatusCountdown:
		if g.status.TicksLeft <= 1 {
			g.status = Status{Kind: StatusPlaying}
		} else {
			g.status.TicksLeft--
		}

	case StatusPlaying:
		updatePaddle(&g.paddles[SideLeft], in.A, &g.cfg)
		updatePaddle(&g.paddles[SideRight], in.B, &g.cfg)
		updateBall(&g.ball, &g.cfg)
		checkPaddleCollision(&g.ball, &g.paddles[SideLeft], SideLeft, &g.cfg)
		checkPaddleCollision(&g.ball, &g.paddles[SideRight], SideRight, &g.cfg)
		capBallSpeed(&g.ball, &g.cfg)

		if scorer, scored := checkScoring(&g.ball); scored {
			g.score[scorer]++
			g.status = Status{Kind: StatusScored, Side: scorer, TicksLeft: ScoredPauseTicks}
			ev = Event{Scorer: scorer, Score: g.score}
			ok = true
		}

	case StatusScored:
		if g.status.TicksLeft <= 1 {
			if winner, over := g.matchWinner(); over {
				g.status = Status{Kind: StatusGameOver, Side: winner}
			} else {
				// The side that was scored on serves next.
				g.beginCountdown(g.status.Side.Opposite())
			}
		} else {
			g.status.TicksLeft--
		}

	case StatusGameOver:
		// Terminal: callers may keep stepping while the UI settles, but no
		// physics runs. Only Restore or a fresh Game leaves this state.
	}

	g.tick++
	return ev, ok
}

// beginCountdown serves the ball for the given side and starts the pre-serve
// countdown. The serve happens here, not at Countdown→Playing, so the ball's
// velocity is already part of any snapshot taken during the countdown.
func (g *Game) beginCountdown(server Side) {
	serveBall(&g.ball, server, &g.cfg, &g.rng)
	g.status = Status{Kind: StatusCountdown, TicksLeft: CountdownTicks}
}

// matchWinner reports the winning side once either score reaches MaxScore.
func (g *Game) matchWinner() (Side, bool) {
	if g.score[SideLeft] >= g.cfg.MaxScore {
		return SideLeft, true
	}
	if g.score[SideRight] >= g.cfg.MaxScore {
		return SideRight, true
	}
	return 0, false
}

// Winner returns the winning side if the match is over.
func (g *Game) Winner() (Side, bool) {
	if g.status.Kind == StatusGameOver {
		return g.status.Side, true
	}
	return 0, false
}

// View returns the read-only projection for presentation. Pure; no side
// effects.
func (g *Game) View() View {
	return View{
		Tick:        g.tick,
		Status:      g.status,
		LeftY:       g.paddles[SideLeft].Y,
		RightY:      g.paddles[SideRight].Y,
		PaddleHalfH: g.cfg.PaddleHalfH,
		PaddleX:     g.cfg.PaddleX,
		PaddleW:     g.cfg.PaddleWidth,
		BallPos:     g.ball.Pos,
		BallRadius:  g.cfg.BallRadius,
		Score:       g.score,
	}
}

// Snapshot returns a complete copy of the simulation state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:    g.tick,
		Status:  g.status,
		Paddles: g.paddles,
		Ball:    g.ball,
		Score:   g.score,
		Rng:     g.rng,
	}
}

// Restore overwrites the simulation state from a snapshot. Restoring and
// then stepping yields the identical trajectory to a game that was never
// snapshotted.
func (g *Game) Restore(s Snapshot) {
	g.tick = s.Tick
	g.status = s.Status
	g.paddles = s.Paddles
	g.ball = s.Ball
	g.score = s.Score
	g.rng = s.Rng
}

// ResetMatch rewinds everything for a rematch: tick zero, Lobby phase, clean
// scores, reseeded PRNG.
func (g *Game) ResetMatch() {
	g.tick = 0
	g.status = Status{Kind: StatusLobby}
	g.score = [2]uint8{}
	g.paddles = [2]Paddle{
		{Y: fixed.One / 2},
		{Y: fixed.One / 2},
	}
	g.ball = Ball{Pos: Vec2{X: fixed.One / 2, Y: fixed.One / 2}}
	g.rng = g.cfg.Seed
}
