package game

import "github.com/vovakirdan/netpong/internal/fixed"

// Config holds the immutable per-match parameters. Both peers must construct
// their Game from an identical Config (including Seed) or the simulations
// diverge from the first serve.
type Config struct {
	PaddleHalfH   fixed.Fx // half-height of each paddle
	PaddleSpeed   fixed.Fx // units per second at full axis deflection
	BallSpeed     fixed.Fx // serve speed, units per second
	BallSpeedUp   fixed.Fx // multiplier applied to ball velocity per paddle hit
	WallThickness fixed.Fx
	PaddleX       fixed.Fx // paddle distance from its edge
	PaddleWidth   fixed.Fx
	BallRadius    fixed.Fx
	MaxScore      uint8
	Seed          uint64
	TickHz        uint16
}

// Countdown and scored-pause durations in ticks (3 seconds at 60 Hz).
const (
	CountdownTicks   uint16 = 180
	ScoredPauseTicks uint16 = 180
)

// speedCapFactor bounds ball velocity growth from repeated speed-up hits.
// Each velocity component is clamped to speedCapFactor * BallSpeed every
// Playing tick. A component-wise clamp needs no square root, so it cannot
// pick up platform-dependent rounding.
const speedCapFactor = 4

// DefaultConfig returns the standard match parameters.
func DefaultConfig() Config {
	return Config{
		PaddleHalfH:   fixed.One / 8,
		PaddleSpeed:   fixed.One * 3,
		BallSpeed:     fixed.One / 2,
		BallSpeedUp:   fixed.One + fixed.One/20, // +5% per hit
		WallThickness: 0,
		PaddleX:       fixed.FromFloat(0.05),
		PaddleWidth:   fixed.FromFloat(0.025),
		BallRadius:    fixed.FromFloat(1.0 / 32.0),
		MaxScore:      11,
		Seed:          0xC0FFEE,
		TickHz:        60,
	}
}
