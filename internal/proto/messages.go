package proto

import "netcode/internal/sim"

// Player is the wire form of sim.Player (class tag 1, embedded only —
// it never travels as a top-level dispatch target, only inside World).
type Player struct {
	ID            uint8   `json:"id"`
	Color         uint32  `json:"color"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Z             float64 `json:"z"`
	Yaw           float64 `json:"yaw"`
	Pitch         float64 `json:"pitch"`
	LastCommandID uint32  `json:"last_command_id"`
}

// FromPlayer converts a simulation player to its wire form.
func FromPlayer(p sim.Player) Player {
	return Player{
		ID:            p.ID,
		Color:         p.Color,
		X:             p.X,
		Y:             p.Y,
		Z:             p.Z,
		Yaw:           p.Yaw,
		Pitch:         p.Pitch,
		LastCommandID: p.LastCommandID,
	}
}

// ToPlayer converts back to the simulation type.
func (p Player) ToPlayer() sim.Player {
	return sim.Player{
		ID:            p.ID,
		Color:         p.Color,
		X:             p.X,
		Y:             p.Y,
		Z:             p.Z,
		Yaw:           p.Yaw,
		Pitch:         p.Pitch,
		LastCommandID: p.LastCommandID,
	}
}

// World is the wire form of sim.World (class tag 2, embedded only).
type World struct {
	Players []Player `json:"players"`
}

// FromWorld snapshots every player currently in w.
func FromWorld(w *sim.World) World {
	players := w.Players()
	wp := make([]Player, len(players))
	for i, p := range players {
		wp[i] = FromPlayer(p)
	}
	return World{Players: wp}
}

// ToWorld reconstructs a sim.World from the wire form, using the given
// kinematics/extent constants (the wire form carries no config — both
// endpoints already agree on it, per spec.md §6).
func (w World) ToWorld(extentW, extentH, moveSpeed, turnSpeed float64, maxPlayers int) *sim.World {
	out := sim.New(extentW, extentH, moveSpeed, turnSpeed, maxPlayers)
	for _, p := range w.Players {
		out.Insert(p.ToPlayer())
	}
	return out
}

// JoinRequest is C→S, class tag 4.
type JoinRequest struct {
	Color uint32 `json:"color"`
}

// ServerAccept is S→C, class tag 5.
type ServerAccept struct {
	PlayerID uint8 `json:"player_id"`
}

// ServerDeny is S→C, class tag 6.
type ServerDeny struct {
	Reason string `json:"reason"`
}

// Command is C→S, class tag 7; mirrors sim.Command.
type Command struct {
	ID         uint32  `json:"id"`
	Buttons    uint32  `json:"buttons"`
	YawDelta   float32 `json:"yaw_delta"`
	PitchDelta float32 `json:"pitch_delta"`
	DurationMS uint16  `json:"duration_ms"`
}

// FromCommand converts a simulation command to its wire form.
func FromCommand(c sim.Command) Command {
	return Command{
		ID:         c.ID,
		Buttons:    uint32(c.Buttons),
		YawDelta:   c.YawDelta,
		PitchDelta: c.PitchDelta,
		DurationMS: c.DurationMS,
	}
}

// ToCommand converts back to the simulation type.
func (c Command) ToCommand() sim.Command {
	return sim.Command{
		ID:         c.ID,
		Buttons:    sim.Buttons(c.Buttons),
		YawDelta:   c.YawDelta,
		PitchDelta: c.PitchDelta,
		DurationMS: c.DurationMS,
	}
}

// WorldSnapshot is S→C, class tag 10. ClientTimeMS is stamped locally
// on receipt and is never put on the wire (spec.md §4.2 table).
type WorldSnapshot struct {
	World        World  `json:"world"`
	ServerTimeMS uint64 `json:"server_time_ms"`
}

// Chat is the supplemental chat message (SPEC_FULL.md §9.4), class tag
// 20, both directions.
type Chat struct {
	From uint8  `json:"from"`
	Text string `json:"text"`
}

// MaxChatBytes is the longest Chat Text, in bytes, accepted before the
// message is treated as a protocol error and dropped (SPEC_FULL.md §9.4).
const MaxChatBytes = 256
