package game

import "github.com/vovakirdan/netpong/internal/fixed"

// The playfield is the unit square [0, One] in both axes. All boundary tests
// are closed intervals: touching counts as a collision, so both peers resolve
// grazing contacts the same way.

// updatePaddle applies one tick of paddle movement for the given input.
func updatePaddle(p *Paddle, in Input, cfg *Config) {
	if in.AxisY == 0 {
		p.VY = 0
	} else {
		// Map [-127, 127] onto [-1.0, 1.0], then scale by paddle speed.
		normalized := fixed.Fx(int32(in.AxisY) * fixed.One / 127)
		p.VY = fixed.Mul(normalized, cfg.PaddleSpeed)
	}

	p.Y += fixed.Div(p.VY, int32(cfg.TickHz)*fixed.One)

	minY := cfg.PaddleHalfH + cfg.WallThickness
	maxY := fixed.One - cfg.PaddleHalfH - cfg.WallThickness
	p.Y = fixed.Clamp(p.Y, minY, maxY)
	if p.Y <= minY || p.Y >= maxY {
		p.VY = 0
	}
}

// updateBall advances the ball by one tick and reflects it off the
// horizontal walls.
func updateBall(b *Ball, cfg *Config) {
	b.Pos.X += fixed.Div(b.Vel.X, int32(cfg.TickHz)*fixed.One)
	b.Pos.Y += fixed.Div(b.Vel.Y, int32(cfg.TickHz)*fixed.One)

	bottom := cfg.WallThickness
	top := fixed.One - cfg.WallThickness
	if b.Pos.Y <= bottom {
		b.Pos.Y = bottom
		b.Vel.Y = -b.Vel.Y
	} else if b.Pos.Y >= top {
		b.Pos.Y = top
		b.Vel.Y = -b.Vel.Y
	}
}

// checkPaddleCollision reflects the ball off the given paddle when it is
// within the paddle's half-height band and horizontal reach, and only while
// moving toward that paddle. On reflection the X velocity is negated, the
// paddle's vertical velocity bleeds into the ball at one quarter strength,
// and both components are multiplied by the speed-up factor. Reports whether
// a hit occurred.
func checkPaddleCollision(b *Ball, p *Paddle, side Side, cfg *Config) bool {
	paddleX := cfg.PaddleX
	if side == SideRight {
		paddleX = fixed.One - cfg.PaddleX
	}

	reach := cfg.BallRadius + cfg.PaddleWidth/2
	if b.Pos.X < paddleX-reach || b.Pos.X > paddleX+reach {
		return false
	}
	band := cfg.PaddleHalfH + cfg.BallRadius
	if b.Pos.Y < p.Y-band || b.Pos.Y > p.Y+band {
		return false
	}

	switch side {
	case SideLeft:
		if b.Vel.X >= 0 {
			return false
		}
		b.Pos.X = paddleX + reach
	case SideRight:
		if b.Vel.X <= 0 {
			return false
		}
		b.Pos.X = paddleX - reach
	}

	b.Vel.X = -b.Vel.X
	b.Vel.Y += fixed.Div(p.VY, 4*fixed.One)
	b.Vel.X = fixed.Mul(b.Vel.X, cfg.BallSpeedUp)
	b.Vel.Y = fixed.Mul(b.Vel.Y, cfg.BallSpeedUp)
	return true
}

// capBallSpeed clamps each velocity component to the deterministic maximum.
func capBallSpeed(b *Ball, cfg *Config) {
	maxSpeed := cfg.BallSpeed * speedCapFactor
	b.Vel.X = fixed.Clamp(b.Vel.X, -maxSpeed, maxSpeed)
	b.Vel.Y = fixed.Clamp(b.Vel.Y, -maxSpeed, maxSpeed)
}

// checkScoring reports which side scored, if the ball has crossed a goal
// line. Touching the line exactly counts as in play.
func checkScoring(b *Ball) (Side, bool) {
	if b.Pos.X < 0 {
		return SideRight, true
	}
	if b.Pos.X > fixed.One {
		return SideLeft, true
	}
	return 0, false
}

// serveBall centers the ball and gives it a serve velocity toward the side
// opposite the server. The vertical component comes from the match PRNG
// (a linear congruential generator), so it is identical on both peers as
// long as their RNG states agree.
func serveBall(b *Ball, server Side, cfg *Config, rng *uint64) {
	b.Pos = Vec2{X: fixed.One / 2, Y: fixed.One / 2}

	*rng = *rng*1103515245 + 12345
	angle := int32(*rng >> 16)

	// Roughly -30 to +30 degrees of vertical deflection.
	vy := angle%(fixed.One/2) - fixed.One/4

	vx := cfg.BallSpeed
	if server == SideRight {
		vx = -cfg.BallSpeed
	}
	b.Vel = Vec2{X: vx, Y: vy}
}
