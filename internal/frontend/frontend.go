// Package frontend defines the pluggable input/presentation boundary
// (spec.md §4.1 "Frontend"). The client core depends only on these two
// interfaces; original_source/ui.hpp's SDL-backed ui class is one
// possible implementation, not the only one.
package frontend

import "netcode/internal/sim"

// InputSource polls local input once per client frame.
type InputSource interface {
	// PollEvents drains the platform event queue. Called once per
	// frame before any of the query methods below are consulted.
	PollEvents()

	// QuitRequested reports whether the user asked to close the
	// program (window close, Quit button).
	QuitRequested() bool

	// ButtonReleasedEdge reports whether b transitioned from pressed to
	// released since the last PollEvents call — used for the one-shot
	// debug/predict toggles (spec.md §4.1, F1/F2 in the original).
	ButtonReleasedEdge(b sim.Buttons) bool

	// PressedButtons returns the movement/turn buttons currently held.
	PressedButtons() sim.Buttons

	// MouseDelta returns the accumulated yaw/pitch mouse movement since
	// the last PollEvents call.
	MouseDelta() (yaw, pitch float32)
}

// Presenter renders a world to the local display.
type Presenter interface {
	// Clear begins a new frame.
	Clear()

	// DrawWorld renders w. localPlayerID identifies the camera owner;
	// raw indicates this is the unsmoothed, authoritative snapshot
	// (debug overlay) rather than the predicted/interpolated world.
	DrawWorld(w *sim.World, localPlayerID uint8, raw bool)

	// Present flips the frame to the screen.
	Present()
}
