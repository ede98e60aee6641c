package config

import (
	_ "embed"
)

//go:embed defaults/match.yaml
var defaultMatchYAML []byte

// DefaultMatchConfig returns the default duel configuration. It mirrors the
// embedded defaults/match.yaml and serves as the last-resort fallback.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Physics: PhysicsConfig{
			BallSpeed:     0.5,
			BallSpeedUp:   1.05,
			BallRadius:    0.03125,
			PaddleSpeed:   3.0,
			WallThickness: 0.0,
		},
		Paddles: PaddleConfig{
			HalfHeight: 0.125,
			Offset:     0.05,
			Width:      0.025,
		},
		Gameplay: GameplayConfig{
			MaxScore: 11,
			TickHz:   60,
		},
		Net: NetConfig{
			PingIntervalMS:        1000,
			SnapshotIntervalTicks: 300,
		},
	}
}

// DefaultYAML returns the embedded default configuration, for `netpong
// config init` style tooling that writes a starter file.
func DefaultYAML() []byte {
	return defaultMatchYAML
}
