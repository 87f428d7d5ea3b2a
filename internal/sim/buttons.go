package sim

// Buttons is the disjoint-bit input mask a Command carries (spec.md §3).
type Buttons uint32

const (
	MoveUp Buttons = 1 << iota
	MoveDown
	Forward
	Backward
	TurnLeft
	TurnRight
	StrafeLeft
	StrafeRight
	Quit
	ToggleDebug
	TogglePredict
)

// Has reports whether b has every bit of mask set.
func (b Buttons) Has(mask Buttons) bool {
	return b&mask == mask
}
