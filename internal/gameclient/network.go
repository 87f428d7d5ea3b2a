package gameclient

import (
	"math/rand"

	"netcode/internal/logging"
	"netcode/internal/proto"
)

// readLoop owns the socket's receive side and is the only goroutine
// besides Run's frame loop — the world, snapshot buffer and command log
// it touches are guarded by c.mu, and the player id, game clock and
// toggle flags are atomics, matching the original's two-thread split.
func (c *Client) readLoop() {
	for {
		frame, err := proto.ReadFrame(c.conn)
		if err != nil {
			select {
			case <-c.exit:
			default:
				logging.Debug("connection closed", map[string]any{"error": err.Error()})
			}
			c.Stop()
			return
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame proto.Frame) {
	switch frame.ClassID {
	case proto.ClassWorldSnapshot:
		var wire proto.WorldSnapshot
		if err := proto.Decode(frame, &wire); err != nil {
			return
		}
		c.processWorldUpdate(wire)

	case proto.ClassServerAccept:
		var wire proto.ServerAccept
		if err := proto.Decode(frame, &wire); err != nil {
			return
		}
		c.playerID.Store(uint32(wire.PlayerID))
		logging.Info("joined game", map[string]any{"player_id": wire.PlayerID})

	case proto.ClassServerDeny:
		var wire proto.ServerDeny
		if err := proto.Decode(frame, &wire); err != nil {
			return
		}
		logging.Info("join rejected", map[string]any{"reason": wire.Reason})
		c.Stop()

	case proto.ClassChat:
		var wire proto.Chat
		if err := proto.Decode(frame, &wire); err == nil {
			logging.Info("chat", map[string]any{"from": wire.From, "text": wire.Text})
		}
	}
}

// processWorldUpdate folds a received snapshot into the snapshot
// buffer, replaces the authoritative world copy, then — when
// prediction is enabled — reconciles: drops every logged command the
// server has already applied and replays what's left on top of the
// fresh world (original_source/client.hpp's process_world_update).
func (c *Client) processWorldUpdate(wire proto.WorldSnapshot) {
	clientTimeMS := c.gameTimeMS.Load()
	world := wire.World.ToWorld(c.cfg.WorldW, c.cfg.WorldH, c.cfg.MoveSpeed, c.cfg.TurnSpeed, c.cfg.MaxPlayers)

	c.mu.Lock()
	if len(c.snapshots) == 0 || c.snapshots[len(c.snapshots)-1].ClientTimeMS != clientTimeMS {
		c.snapshots = append(c.snapshots, snapshot{World: world, ClientTimeMS: clientTimeMS})
	} else {
		c.snapshots[len(c.snapshots)-1] = snapshot{World: world, ClientTimeMS: clientTimeMS}
	}
	c.snapshots = pruneSnapshots(c.snapshots, c.interpolationTimePoint())
	c.world = world.Clone()
	c.mu.Unlock()

	if !c.predict.Load() || !c.gameReady() {
		return
	}

	pid := c.PlayerID()
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.world.Player(pid)
	if !ok {
		return
	}

	remaining := c.commandLog[:0:0]
	for _, cmd := range c.commandLog {
		if cmd.ID > p.LastCommandID {
			remaining = append(remaining, cmd)
		}
	}
	c.commandLog = remaining

	for _, cmd := range c.commandLog {
		c.world.Apply(cmd, pid)
	}
}

// generateColor mirrors misc::generate_color_AABBGGRR: a random packed
// color for the local player's join request.
func generateColor() uint32 {
	return rand.Uint32() | 0xFF000000
}
