// Package gameclient is the client core (spec.md §4.1, "Client"):
// connects to a server, predicts local movement, reconciles against
// authoritative snapshots, and interpolates remote players.
//
// original_source/client.hpp runs two threads — an asio io_service
// thread handling the socket, and a main loop doing input/prediction/
// render — synchronized by two separate mutexes (world_mutex_ and
// commands_mutex_, always taken together). This port keeps the same
// two-goroutine shape (a read loop plus Run's frame loop) but merges
// the two mutexes into one, since they were never taken independently
// in the original anyway (spec.md §5, concurrency).
package gameclient

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"netcode/internal/config"
	"netcode/internal/frontend"
	"netcode/internal/logging"
	"netcode/internal/mathutil"
	"netcode/internal/proto"
	"netcode/internal/sim"
)

// snapshot is one received WorldSnapshot, stamped with the client's
// local clock at the moment it arrived (spec.md §4.2: ClientTimeMS is
// never on the wire).
type snapshot struct {
	World        *sim.World
	ClientTimeMS uint64
}

// Client is the netcode client core.
type Client struct {
	cfg       config.Config
	input     frontend.InputSource
	presenter frontend.Presenter

	conn net.Conn

	mu         sync.Mutex
	world      *sim.World
	snapshots  []snapshot
	commandLog []sim.Command

	playerID   atomic.Uint32 // 0 until joined
	gameTimeMS atomic.Uint64
	predict    atomic.Bool
	debug      atomic.Bool

	exit chan struct{}
	once sync.Once
}

// New creates a client core around the given frontend. Call Connect,
// then Run.
func New(cfg config.Config, input frontend.InputSource, presenter frontend.Presenter) *Client {
	c := &Client{
		cfg:       cfg,
		input:     input,
		presenter: presenter,
		world:     sim.New(cfg.WorldW, cfg.WorldH, cfg.MoveSpeed, cfg.TurnSpeed, cfg.MaxPlayers),
		exit:      make(chan struct{}),
	}
	c.predict.Store(true)
	return c
}

// Connect dials the server and sends the initial join request.
func (c *Client) Connect(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	c.conn = conn
	logging.Info("connected to server", map[string]any{"addr": addr})

	req := proto.JoinRequest{Color: generateColor()}
	if err := proto.WriteMessage(c.conn, proto.ClassJoinRequest, req); err != nil {
		conn.Close()
		return fmt.Errorf("send join request: %w", err)
	}
	logging.Info("join request sent", nil)

	go c.readLoop()
	return nil
}

// SetPredictAndInterpolate sets the initial prediction/interpolation
// state (spec.md's F2 toggle also flips this at runtime).
func (c *Client) SetPredictAndInterpolate(on bool) {
	c.predict.Store(on)
}

// SetDebug sets the initial debug-overlay state (spec.md's F1 toggle
// also flips this at runtime).
func (c *Client) SetDebug(on bool) {
	c.debug.Store(on)
}

// Stop closes the connection and unblocks Run.
func (c *Client) Stop() {
	c.once.Do(func() {
		close(c.exit)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// PlayerID returns the locally-assigned player id, 0 before the server
// has accepted the join request.
func (c *Client) PlayerID() uint8 {
	return uint8(c.playerID.Load())
}

// gameReady mirrors the original's game_ready(): the join must have
// been accepted AND the local player must actually appear in a
// received snapshot (the two can race: accept arrives before the next
// tick's snapshot).
func (c *Client) gameReady() bool {
	pid := c.PlayerID()
	if pid == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snapshots) == 0 {
		return false
	}
	_, ok := c.snapshots[0].World.Player(pid)
	return ok
}

// WaitUntilReady blocks until the join handshake completes or ctx is
// done.
func (c *Client) WaitUntilReady(ctx context.Context) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.gameReady() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.exit:
			return fmt.Errorf("client stopped before join completed")
		case <-ticker.C:
		}
	}
}

// Run drives the frame loop (spec.md §4.1's main_loop) until Stop is
// called, the frontend requests quit, or a network error occurs. It
// blocks.
func (c *Client) Run() {
	var commandID uint32 = 1
	var frameTimeMS uint64

	for {
		select {
		case <-c.exit:
			return
		default:
		}

		start := time.Now()

		c.input.PollEvents()
		if c.input.QuitRequested() {
			c.Stop()
			return
		}

		if c.input.ButtonReleasedEdge(sim.ToggleDebug) {
			c.debug.Store(!c.debug.Load())
			logging.Info("debug toggled", map[string]any{"on": c.debug.Load()})
		}
		if c.input.ButtonReleasedEdge(sim.TogglePredict) {
			c.predict.Store(!c.predict.Load())
			logging.Info("predict and interpolate toggled", map[string]any{"on": c.predict.Load()})
		}

		buttons := c.input.PressedButtons()
		yawDelta, pitchDelta := c.input.MouseDelta()

		if buttons.Has(sim.Quit) {
			c.Stop()
			return
		}

		cmd := sim.Command{
			ID:         commandID,
			Buttons:    buttons,
			YawDelta:   yawDelta,
			PitchDelta: pitchDelta,
			DurationMS: uint16(frameTimeMS),
		}
		commandID++

		c.stepCommand(cmd)
		c.renderFrame()

		stop := time.Now()
		frameTimeMS = uint64(c.cfg.FrameSleepMS) + uint64(stop.Sub(start).Milliseconds())
		c.gameTimeMS.Add(frameTimeMS)

		time.Sleep(time.Duration(c.cfg.FrameSleepMS) * time.Millisecond)
	}
}

func (c *Client) stepCommand(cmd sim.Command) {
	hasInput := cmd.Buttons != 0 || cmd.YawDelta != 0 || cmd.PitchDelta != 0
	if !hasInput {
		return
	}

	c.mu.Lock()
	if c.predict.Load() {
		c.commandLog = append(c.commandLog, cmd)
		c.world.Apply(cmd, c.PlayerID())
	}
	c.mu.Unlock()

	if err := proto.WriteMessage(c.conn, proto.ClassCommand, proto.FromCommand(cmd)); err != nil {
		logging.Debug("send command failed", map[string]any{"error": err.Error()})
	}
}

func (c *Client) renderFrame() {
	if c.predict.Load() {
		c.interpolateRemotePlayers()
	}

	c.presenter.Clear()

	c.mu.Lock()
	smoothed := c.world
	var raw *sim.World
	if c.debug.Load() && len(c.snapshots) > 0 {
		raw = c.snapshots[len(c.snapshots)-1].World
	}
	c.mu.Unlock()

	c.presenter.DrawWorld(smoothed, c.PlayerID(), false)
	if raw != nil {
		c.presenter.DrawWorld(raw, c.PlayerID(), true)
	}
	c.presenter.Present()
}

// interpolationTimePoint is the render timestamp spec.md §4.1 defines
// as game_time - INTERP_MS, clamped to zero.
func (c *Client) interpolationTimePoint() uint64 {
	now := c.gameTimeMS.Load()
	interp := uint64(c.cfg.InterpMS)
	if now <= interp {
		return 0
	}
	return now - interp
}

func (c *Client) interpolateRemotePlayers() {
	renderTime := c.interpolationTimePoint()
	localID := c.PlayerID()

	c.mu.Lock()
	defer c.mu.Unlock()

	from, to, ok := adjacentSnapshots(c.snapshots, renderTime)
	if !ok {
		return
	}

	fraction := mathutil.LerpFraction(float64(from.ClientTimeMS), float64(to.ClientTimeMS), float64(renderTime))

	for _, pFrom := range from.World.Players() {
		if pFrom.ID == localID {
			continue
		}
		pTo, ok := to.World.Player(pFrom.ID)
		if !ok {
			continue
		}
		real, ok := c.world.Player(pFrom.ID)
		if !ok {
			continue
		}

		pos := pFrom.Position().Lerp(pTo.Position(), fraction)
		real.X, real.Y, real.Z = pos.X, pos.Y, pos.Z
		real.Yaw = pFrom.Yaw + (pTo.Yaw-pFrom.Yaw)*fraction
		c.world.Insert(real)
	}
}

// adjacentSnapshots finds the snapshot pair bracketing renderTime: the
// latest one at or before it ("from") and the earliest one after it
// ("to"), mirroring get_snapshots_adjacent_to_time_point.
func adjacentSnapshots(snaps []snapshot, renderTime uint64) (from, to snapshot, ok bool) {
	haveFrom := false
	for _, s := range snaps {
		if s.ClientTimeMS > renderTime {
			to = s
			return from, to, haveFrom
		}
		from = s
		haveFrom = true
	}
	return from, to, false
}

// pruneSnapshots drops every snapshot strictly older than the newest
// one still at or before renderTime — that newest one is the "floor"
// interpolation needs as its lower anchor, so everything before it is
// unreachable from here on (SPEC_FULL.md §10.3: a forward scan in
// place of the original's backward-iterator erase loop).
func pruneSnapshots(snaps []snapshot, renderTime uint64) []snapshot {
	keepFrom := 0
	for i, s := range snaps {
		if s.ClientTimeMS <= renderTime {
			keepFrom = i
		} else {
			break
		}
	}
	return append([]snapshot(nil), snaps[keepFrom:]...)
}
