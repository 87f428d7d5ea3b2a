package sim

import (
	"math"

	"netcode/internal/mathutil"
)

// Player is one occupant of a World (spec.md §3). ID is nonzero and
// unique within a World; Color is packed AABBGGRR.
type Player struct {
	ID            uint8
	Color         uint32
	X, Y, Z       float64
	Yaw, Pitch    float64
	LastCommandID uint32
}

// Apply integrates one Command into the player's kinematic state,
// following spec.md §4.1 step by step (mirrors the original's
// player::run_command in original_source/player.hpp). moveSpeed is in
// meters/second, turnSpeed in radians/second.
func (p *Player) Apply(cmd Command, moveSpeed, turnSpeed float64) {
	// 1. Record progress.
	p.LastCommandID = cmd.ID

	// 2. Mouse-look.
	p.Yaw += float64(cmd.YawDelta)
	p.Pitch += float64(cmd.PitchDelta)

	// 3. Integration step sizes for this command's duration.
	d := float64(cmd.DurationMS) * moveSpeed / 1000
	dTheta := float64(cmd.DurationMS) * turnSpeed / 1000

	// 4. Turning.
	if cmd.Buttons.Has(TurnLeft) {
		p.Yaw += dTheta
	}
	if cmd.Buttons.Has(TurnRight) {
		p.Yaw -= dTheta
	}

	// 5. Short-circuit: turning only, nothing else to move.
	if cmd.Buttons == (TurnLeft | TurnRight) {
		p.normalizeAngles()
		return
	}

	// 6. Forward/strafe axes derived from yaw.
	fx, fz := math.Cos(p.Yaw), -math.Sin(p.Yaw)
	sx, sz := math.Cos(p.Yaw-math.Pi/2), -math.Sin(p.Yaw-math.Pi/2)

	// 7. Translation.
	if cmd.Buttons.Has(Forward) {
		p.X += d * fx
		p.Z += d * fz
	}
	if cmd.Buttons.Has(Backward) {
		p.X -= d * fx
		p.Z -= d * fz
	}
	if cmd.Buttons.Has(StrafeRight) {
		p.X += d * sx
		p.Z += d * sz
	}
	if cmd.Buttons.Has(StrafeLeft) {
		p.X -= d * sx
		p.Z -= d * sz
	}
	if cmd.Buttons.Has(MoveUp) {
		p.Y += d
	}
	if cmd.Buttons.Has(MoveDown) {
		p.Y -= d
	}

	// 8. Keep angles bounded.
	p.normalizeAngles()
}

func (p *Player) normalizeAngles() {
	p.Yaw = mathutil.NormalizeAngle(p.Yaw)
	p.Pitch = mathutil.NormalizeAngle(p.Pitch)
}

// Position returns the player's location as a mathutil.Vector3, for
// interpolation math.
func (p *Player) Position() mathutil.Vector3 {
	return mathutil.Vector3{X: p.X, Y: p.Y, Z: p.Z}
}
