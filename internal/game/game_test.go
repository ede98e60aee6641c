package game

import (
	"testing"

	"github.com/vovakirdan/netpong/internal/fixed"
)

func pairAt(tick Tick, a, b Input) InputPair {
	return InputPair{Tick: tick, A: a, B: b}
}

func bothReady(tick Tick) InputPair {
	return pairAt(tick, Input{Buttons: ButtonReady}, Input{Buttons: ButtonReady})
}

// advanceTo steps the game with neutral inputs until the status kind matches,
// bailing out after a generous tick budget.
func advanceTo(t *testing.T, g *Game, kind StatusKind) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if g.View().Status.Kind == kind {
			return
		}
		g.Step(pairAt(g.Tick(), Input{}, Input{}))
	}
	t.Fatalf("never reached status kind %d, stuck at %d", kind, g.View().Status.Kind)
}

func TestNewGameStartsInLobby(t *testing.T) {
	g := New(DefaultConfig())

	if g.Tick() != 0 {
		t.Errorf("new game tick = %d, want 0", g.Tick())
	}
	v := g.View()
	if v.Status.Kind != StatusLobby {
		t.Errorf("new game status = %v, want Lobby", v.Status.Kind)
	}
	if v.Score != [2]uint8{0, 0} {
		t.Errorf("new game score = %v, want [0 0]", v.Score)
	}
	if v.BallPos.X != fixed.One/2 || v.BallPos.Y != fixed.One/2 {
		t.Errorf("ball not centered: %+v", v.BallPos)
	}
}

func TestLobbyToCountdownNeedsBothReady(t *testing.T) {
	g := New(DefaultConfig())

	// Only left ready: stays in lobby.
	g.Step(pairAt(0, Input{Buttons: ButtonReady}, Input{}))
	if g.View().Status.Kind != StatusLobby {
		t.Fatal("advanced out of lobby with one ready bit")
	}

	g.Step(bothReady(1))
	st := g.View().Status
	if st.Kind != StatusCountdown {
		t.Fatalf("status = %v, want Countdown", st.Kind)
	}
	if st.TicksLeft != CountdownTicks {
		t.Errorf("countdown = %d ticks, want %d", st.TicksLeft, CountdownTicks)
	}
}

func TestCountdownToPlaying(t *testing.T) {
	g := New(DefaultConfig())
	g.Step(bothReady(0))

	advanceTo(t, g, StatusPlaying)

	// The ball was served when the countdown began.
	snap := g.Snapshot()
	if snap.Ball.Vel.X == 0 {
		t.Error("ball has no horizontal velocity after serve")
	}
}

func TestStepPanicsOnTickMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Step with mismatched tick did not panic")
		}
	}()
	g := New(DefaultConfig())
	g.Step(pairAt(7, Input{}, Input{}))
}

func TestServeDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 0xC0FFEE

	serve := func() Vec2 {
		g := New(cfg)
		g.Step(bothReady(0))
		advanceTo(t, g, StatusPlaying)
		return g.Snapshot().Ball.Vel
	}

	v1 := serve()
	v2 := serve()
	if v1 != v2 {
		t.Errorf("serve velocity differs between identical games: %+v vs %+v", v1, v2)
	}
	if v1.X == 0 {
		t.Error("serve has zero horizontal velocity")
	}
}

func TestDeterministicReplay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 12345

	// Scripted inputs: ready up, then a few hundred ticks of paddle wiggling.
	script := make([]InputPair, 600)
	for i := range script {
		tick := Tick(i)
		switch {
		case i == 0:
			script[i] = bothReady(tick)
		case i%7 < 3:
			script[i] = pairAt(tick, Input{AxisY: 90}, Input{AxisY: -45})
		case i%7 < 5:
			script[i] = pairAt(tick, Input{AxisY: -127}, Input{AxisY: 127})
		default:
			script[i] = pairAt(tick, Input{}, Input{})
		}
	}

	g1 := New(cfg)
	g2 := New(cfg)
	for _, in := range script {
		g1.Step(in)
		g2.Step(in)
		if g1.View() != g2.View() {
			t.Fatalf("views diverged at tick %d", in.Tick)
		}
	}
	if g1.Snapshot() != g2.Snapshot() {
		t.Error("final snapshots differ after identical input sequences")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	g := New(cfg)
	g.Step(bothReady(0))
	advanceTo(t, g, StatusPlaying)

	// Play a while, snapshot mid-rally.
	for i := 0; i < 50; i++ {
		g.Step(pairAt(g.Tick(), Input{AxisY: 60}, Input{AxisY: -60}))
	}
	snap := g.Snapshot()

	restored := New(cfg)
	restored.Restore(snap)

	// Both must now follow the identical trajectory.
	for i := 0; i < 300; i++ {
		in := pairAt(g.Tick(), Input{AxisY: int8(i % 100)}, Input{AxisY: int8(-(i % 80))})
		g.Step(in)
		restored.Step(in)
		if g.Snapshot() != restored.Snapshot() {
			t.Fatalf("restored game diverged %d ticks after restore", i)
		}
	}
}

func TestScoringEmitsEventOnCrossingTick(t *testing.T) {
	g := New(DefaultConfig())

	// Drop straight into a rally with the ball about to cross the right
	// goal line, clear of the right paddle's reach.
	g.Restore(Snapshot{
		Tick:   100,
		Status: Status{Kind: StatusPlaying},
		Paddles: [2]Paddle{
			{Y: fixed.One / 2},
			{Y: fixed.One / 2},
		},
		Ball: Ball{
			Pos: Vec2{X: fixed.One - 100, Y: fixed.One / 4},
			Vel: Vec2{X: fixed.One / 2, Y: 0},
		},
		Rng: 1,
	})

	ev, ok := g.Step(pairAt(100, Input{}, Input{}))
	if !ok {
		t.Fatal("no event on the goal-crossing tick")
	}
	if ev.Scorer != SideLeft {
		t.Errorf("scorer = %v, want left", ev.Scorer)
	}
	if ev.Score != [2]uint8{1, 0} {
		t.Errorf("score = %v, want [1 0]", ev.Score)
	}

	st := g.View().Status
	if st.Kind != StatusScored || st.Side != SideLeft {
		t.Errorf("status = %+v, want Scored by left", st)
	}
	if st.TicksLeft != ScoredPauseTicks {
		t.Errorf("scored pause = %d, want %d", st.TicksLeft, ScoredPauseTicks)
	}
}

func TestScoredPauseLeadsToCountdownServeByConceded(t *testing.T) {
	g := New(DefaultConfig())
	g.Restore(Snapshot{
		Tick:   500,
		Status: Status{Kind: StatusScored, Side: SideLeft, TicksLeft: 1},
		Score:  [2]uint8{1, 0},
		Rng:    42,
	})

	g.Step(pairAt(500, Input{}, Input{}))

	st := g.View().Status
	if st.Kind != StatusCountdown {
		t.Fatalf("status = %v, want Countdown", st.Kind)
	}
	// Left scored, so right serves: the ball heads left.
	if vel := g.Snapshot().Ball.Vel; vel.X >= 0 {
		t.Errorf("ball velocity X = %d, want negative (right serves)", vel.X)
	}
}

func TestGameOverAtMaxScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxScore = 11
	g := New(cfg)
	g.Restore(Snapshot{
		Tick:   900,
		Status: Status{Kind: StatusScored, Side: SideLeft, TicksLeft: 1},
		Score:  [2]uint8{11, 3},
		Rng:    7,
	})

	g.Step(pairAt(900, Input{}, Input{}))

	st := g.View().Status
	if st.Kind != StatusGameOver || st.Side != SideLeft {
		t.Fatalf("status = %+v, want GameOver won by left", st)
	}
	if w, over := g.Winner(); !over || w != SideLeft {
		t.Errorf("Winner() = %v, %v; want left, true", w, over)
	}

	// Further steps are inert: no paddle movement.
	before := g.View()
	for i := 0; i < 10; i++ {
		g.Step(pairAt(g.Tick(), Input{AxisY: 127}, Input{AxisY: -127}))
	}
	after := g.View()
	if after.LeftY != before.LeftY || after.RightY != before.RightY {
		t.Error("paddles moved after game over")
	}
	if after.Status != before.Status {
		t.Error("status changed after game over")
	}
}

func TestResetMatch(t *testing.T) {
	g := New(DefaultConfig())
	g.Restore(Snapshot{
		Tick:   1234,
		Status: Status{Kind: StatusGameOver, Side: SideRight},
		Score:  [2]uint8{5, 11},
		Rng:    999,
	})

	g.ResetMatch()

	if g.Tick() != 0 {
		t.Errorf("tick after reset = %d, want 0", g.Tick())
	}
	v := g.View()
	if v.Status.Kind != StatusLobby {
		t.Errorf("status after reset = %v, want Lobby", v.Status.Kind)
	}
	if v.Score != [2]uint8{0, 0} {
		t.Errorf("score after reset = %v, want [0 0]", v.Score)
	}
	if v.LeftY != fixed.One/2 || v.RightY != fixed.One/2 {
		t.Error("paddles not recentered after reset")
	}
}

func TestViewIsPureProjection(t *testing.T) {
	g := New(DefaultConfig())
	g.Step(bothReady(0))

	before := g.Snapshot()
	_ = g.View()
	_ = g.View()
	if g.Snapshot() != before {
		t.Error("View() mutated simulation state")
	}
}

func TestSideOpposite(t *testing.T) {
	if SideLeft.Opposite() != SideRight || SideRight.Opposite() != SideLeft {
		t.Error("Opposite() is wrong")
	}
}
