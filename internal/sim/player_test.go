package sim

import (
	"math"
	"testing"
)

const (
	testMoveSpeed = 2.0
	testTurnSpeed = 3.0
)

func TestPlayerApplyForward(t *testing.T) {
	p := Player{ID: 1}
	cmd := Command{ID: 1, Buttons: Forward, DurationMS: 20}

	p.Apply(cmd, testMoveSpeed, testTurnSpeed)

	// yaw=0 so forward axis is +x; d = 20*2/1000 = 0.04m
	want := 0.04
	if math.Abs(p.X-want) > 1e-9 {
		t.Errorf("X = %v, want %v", p.X, want)
	}
	if math.Abs(p.Z) > 1e-9 {
		t.Errorf("Z = %v, want 0", p.Z)
	}
	if p.LastCommandID != 1 {
		t.Errorf("LastCommandID = %d, want 1", p.LastCommandID)
	}
}

func TestPlayerApplyTwoForwardCommandsMatchE2EScenario(t *testing.T) {
	// spec.md §8 scenario 2: two commands of duration 20ms FORWARD each,
	// back to back, should advance ~0.08m along +x.
	p := Player{ID: 1}
	p.Apply(Command{ID: 1, Buttons: Forward, DurationMS: 20}, testMoveSpeed, testTurnSpeed)
	p.Apply(Command{ID: 2, Buttons: Forward, DurationMS: 20}, testMoveSpeed, testTurnSpeed)

	if math.Abs(p.X-0.08) > 1e-9 {
		t.Errorf("X after two commands = %v, want ~0.08", p.X)
	}
	if p.LastCommandID != 2 {
		t.Errorf("LastCommandID = %d, want 2", p.LastCommandID)
	}
}

func TestPlayerApplyTurnOnlyShortCircuits(t *testing.T) {
	p := Player{ID: 1, X: 1, Y: 2, Z: 3}
	cmd := Command{ID: 1, Buttons: TurnLeft | TurnRight, DurationMS: 1000}

	p.Apply(cmd, testMoveSpeed, testTurnSpeed)

	if p.X != 1 || p.Y != 2 || p.Z != 3 {
		t.Errorf("position changed on turn-only short-circuit: %+v", p)
	}
}

func TestPlayerApplyKeepsAnglesBounded(t *testing.T) {
	p := Player{ID: 1}
	cmd := Command{ID: 1, Buttons: TurnLeft, DurationMS: 60000}

	for i := 0; i < 50; i++ {
		p.Apply(cmd, testMoveSpeed, testTurnSpeed)
	}

	if p.Yaw >= 2*math.Pi || p.Yaw <= -2*math.Pi {
		t.Errorf("Yaw = %v, out of (-2π, 2π)", p.Yaw)
	}
	if p.Pitch >= 2*math.Pi || p.Pitch <= -2*math.Pi {
		t.Errorf("Pitch = %v, out of (-2π, 2π)", p.Pitch)
	}
}

func TestPlayerApplyIsDeterministic(t *testing.T) {
	cmd := Command{ID: 7, Buttons: Forward | StrafeRight, YawDelta: 0.1, PitchDelta: -0.05, DurationMS: 33}

	a := Player{ID: 1, X: 1, Y: 2, Z: 3, Yaw: 0.4, Pitch: 0.1}
	b := a

	a.Apply(cmd, testMoveSpeed, testTurnSpeed)
	b.Apply(cmd, testMoveSpeed, testTurnSpeed)

	if a != b {
		t.Errorf("Apply not deterministic: %+v vs %+v", a, b)
	}
}

func TestPlayerApplyMoveUpDown(t *testing.T) {
	p := Player{ID: 1}
	p.Apply(Command{ID: 1, Buttons: MoveUp, DurationMS: 500}, testMoveSpeed, testTurnSpeed)
	if math.Abs(p.Y-1.0) > 1e-9 {
		t.Errorf("Y after MoveUp = %v, want 1.0", p.Y)
	}

	p.Apply(Command{ID: 2, Buttons: MoveDown, DurationMS: 500}, testMoveSpeed, testTurnSpeed)
	if math.Abs(p.Y) > 1e-9 {
		t.Errorf("Y after MoveDown = %v, want 0", p.Y)
	}
}
