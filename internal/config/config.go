// Package config provides YAML-based match configuration loading. Values
// are plain floats in normalized field units; conversion to the fixed-point
// domain happens exactly once, when a loaded config is turned into
// simulation parameters. Both peers must load identical values or their
// simulations diverge, which is why the derived seed and tick rate travel
// on the command line rather than in per-machine files.
package config

import (
	"fmt"

	"github.com/vovakirdan/netpong/internal/fixed"
	"github.com/vovakirdan/netpong/internal/game"
)

// MatchConfig contains all tunables for a duel.
type MatchConfig struct {
	Physics  PhysicsConfig  `yaml:"physics"`
	Paddles  PaddleConfig   `yaml:"paddles"`
	Gameplay GameplayConfig `yaml:"gameplay"`
	Net      NetConfig      `yaml:"net"`
}

// PhysicsConfig defines ball and movement parameters, in field units where
// the playfield spans 0..1 on both axes.
type PhysicsConfig struct {
	BallSpeed     float64 `yaml:"ball_speed"`      // field units per second
	BallSpeedUp   float64 `yaml:"ball_speed_up"`   // multiplier per paddle hit
	BallRadius    float64 `yaml:"ball_radius"`
	PaddleSpeed   float64 `yaml:"paddle_speed"`    // field units per second at full deflection
	WallThickness float64 `yaml:"wall_thickness"`
}

// PaddleConfig defines paddle geometry.
type PaddleConfig struct {
	HalfHeight float64 `yaml:"half_height"`
	Offset     float64 `yaml:"offset"` // distance of the paddle line from the goal line
	Width      float64 `yaml:"width"`
}

// GameplayConfig defines match rules.
type GameplayConfig struct {
	MaxScore int `yaml:"max_score"`
	TickHz   int `yaml:"tick_hz"`
}

// NetConfig defines network housekeeping cadence. These do not influence
// the simulation and may differ between peers.
type NetConfig struct {
	PingIntervalMS        int `yaml:"ping_interval_ms"`
	SnapshotIntervalTicks int `yaml:"snapshot_interval_ticks"`
}

// Validate checks ranges before any value crosses into the fixed-point
// domain, where a bad magnitude would surface as an overflow panic instead
// of a readable message.
func (c MatchConfig) Validate() error {
	if c.Physics.BallSpeed <= 0 || c.Physics.BallSpeed > 8 {
		return fmt.Errorf("config: ball_speed %v out of range (0, 8]", c.Physics.BallSpeed)
	}
	if c.Physics.BallSpeedUp < 1 || c.Physics.BallSpeedUp > 2 {
		return fmt.Errorf("config: ball_speed_up %v out of range [1, 2]", c.Physics.BallSpeedUp)
	}
	if c.Physics.PaddleSpeed <= 0 || c.Physics.PaddleSpeed > 16 {
		return fmt.Errorf("config: paddle_speed %v out of range (0, 16]", c.Physics.PaddleSpeed)
	}
	if c.Physics.BallRadius < 0 || c.Physics.BallRadius > 0.25 {
		return fmt.Errorf("config: ball_radius %v out of range [0, 0.25]", c.Physics.BallRadius)
	}
	if c.Physics.WallThickness < 0 || c.Physics.WallThickness > 0.25 {
		return fmt.Errorf("config: wall_thickness %v out of range [0, 0.25]", c.Physics.WallThickness)
	}
	if c.Paddles.HalfHeight <= 0 || c.Paddles.HalfHeight > 0.5 {
		return fmt.Errorf("config: paddle half_height %v out of range (0, 0.5]", c.Paddles.HalfHeight)
	}
	if c.Paddles.Offset < 0 || c.Paddles.Offset > 0.5 {
		return fmt.Errorf("config: paddle offset %v out of range [0, 0.5]", c.Paddles.Offset)
	}
	if c.Paddles.Width < 0 || c.Paddles.Width > 0.25 {
		return fmt.Errorf("config: paddle width %v out of range [0, 0.25]", c.Paddles.Width)
	}
	if c.Gameplay.MaxScore < 1 || c.Gameplay.MaxScore > 255 {
		return fmt.Errorf("config: max_score %d out of range [1, 255]", c.Gameplay.MaxScore)
	}
	if c.Gameplay.TickHz < 1 || c.Gameplay.TickHz > 1000 {
		return fmt.Errorf("config: tick_hz %d out of range [1, 1000]", c.Gameplay.TickHz)
	}
	return nil
}

// ToGame converts the loaded values into simulation parameters. This is the
// one place floats become fixed-point; everything downstream is exact.
func (c MatchConfig) ToGame(seed uint64) (game.Config, error) {
	if err := c.Validate(); err != nil {
		return game.Config{}, err
	}
	return game.Config{
		PaddleHalfH:   fixed.FromFloat(c.Paddles.HalfHeight),
		PaddleSpeed:   fixed.FromFloat(c.Physics.PaddleSpeed),
		BallSpeed:     fixed.FromFloat(c.Physics.BallSpeed),
		BallSpeedUp:   fixed.FromFloat(c.Physics.BallSpeedUp),
		WallThickness: fixed.FromFloat(c.Physics.WallThickness),
		PaddleX:       fixed.FromFloat(c.Paddles.Offset),
		PaddleWidth:   fixed.FromFloat(c.Paddles.Width),
		BallRadius:    fixed.FromFloat(c.Physics.BallRadius),
		MaxScore:      uint8(c.Gameplay.MaxScore),
		Seed:          seed,
		TickHz:        uint16(c.Gameplay.TickHz),
	}, nil
}
