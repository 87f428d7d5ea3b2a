// Package gameserver is the authoritative server core (spec.md §4.1,
// "Server"). It accepts TCP connections, applies inbound commands to a
// single World, and broadcasts a snapshot every tick.
//
// The original server (original_source/server.hpp) runs everything —
// accept, per-connection reads, and the tick timer — on one
// boost::asio io_service thread, so the world is touched from a single
// logical place without any lock. The idiomatic Go rendering keeps
// that single-writer property but swaps asio's callback chain for a
// loop goroutine fed by channels: accept and per-connection reads run
// concurrently, but every one of them only ever sends an event to the
// loop, which is the sole owner of the world and the connection list.
package gameserver

import (
	"fmt"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"netcode/internal/config"
	"netcode/internal/logging"
	"netcode/internal/metrics"
	"netcode/internal/proto"
	"netcode/internal/sim"
)

// ValidateCommand optionally vets an inbound command before it is
// applied. A nil hook (the default) accepts everything, matching the
// original's "// TODO: validate command" placeholder.
type ValidateCommand func(cmd sim.Command, playerID uint8) bool

// Server is the authoritative netcode server core.
type Server struct {
	cfg      config.Config
	validate ValidateCommand
	metrics  *metrics.Collectors
	registry *prometheus.Registry

	ln net.Listener

	newConn   chan *Connection
	inbound   chan inboundMsg
	dropped   chan *Connection
	stop      chan struct{}
	stopped   chan struct{}
}

type inboundMsg struct {
	conn  *Connection
	frame proto.Frame
}

// New creates a server with the given configuration. Call Serve to run
// it.
func New(cfg config.Config) *Server {
	m, reg := metrics.NewCollectors()
	return &Server{
		cfg:      cfg,
		metrics:  m,
		registry: reg,
		newConn:  make(chan *Connection),
		inbound:  make(chan inboundMsg, 64),
		dropped:  make(chan *Connection),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// SetValidateCommand installs a command validation hook.
func (s *Server) SetValidateCommand(v ValidateCommand) {
	s.validate = v
}

// Metrics returns the server's Prometheus registry, for wiring into
// metrics.Serve.
func (s *Server) Metrics() *prometheus.Registry {
	return s.registry
}

// Serve listens on addr and runs until Stop is called or the listener
// fails. It blocks.
func (s *Server) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ln)
}

// ServeListener runs the server on an already-open listener (the test
// suite uses this to bind an ephemeral port and learn its address
// before Serve would otherwise report it). It blocks.
func (s *Server) ServeListener(ln net.Listener) error {
	s.ln = ln
	go s.acceptLoop()
	s.runLoop()
	return nil
}

// Stop closes the listener and all connections and waits for the run
// loop to exit.
func (s *Server) Stop() {
	close(s.stop)
	if s.ln != nil {
		s.ln.Close()
	}
	<-s.stopped
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.stop:
				return
			default:
				logging.Debug("accept failed", map[string]any{"error": err.Error()})
				return
			}
		}

		conn := newConnection(c)
		logging.Info("new client connected", map[string]any{"remote": conn.RemoteAddr()})

		select {
		case s.newConn <- conn:
		case <-s.stop:
			c.Close()
			return
		}
		go s.readLoop(conn)
	}
}

func (s *Server) readLoop(conn *Connection) {
	for {
		frame, err := proto.ReadFrame(conn.conn)
		if err != nil {
			select {
			case s.dropped <- conn:
			case <-s.stop:
			}
			return
		}
		select {
		case s.inbound <- inboundMsg{conn: conn, frame: frame}:
		case <-s.stop:
			return
		}
	}
}

// runLoop is the sole owner of world and connections: every mutation
// to either happens here, never from acceptLoop or readLoop directly.
func (s *Server) runLoop() {
	world := sim.New(s.cfg.WorldW, s.cfg.WorldH, s.cfg.MoveSpeed, s.cfg.TurnSpeed, s.cfg.MaxPlayers)
	connections := make([]*Connection, 0)
	var gameTimeMS uint64

	ticker := time.NewTicker(time.Duration(s.cfg.TickMS) * time.Millisecond)
	defer ticker.Stop()
	defer close(s.stopped)

	for {
		select {
		case <-s.stop:
			for _, c := range connections {
				c.Close()
			}
			return

		case conn := <-s.newConn:
			connections = append(connections, conn)

		case conn := <-s.dropped:
			connections = s.closeConnection(world, connections, conn)

		case msg := <-s.inbound:
			s.dispatch(world, connections, msg)

		case <-ticker.C:
			gameTimeMS += uint64(s.cfg.TickMS)
			s.metrics.TicksTotal.Inc()
			if len(connections) > 0 {
				s.broadcastSnapshot(world, connections, gameTimeMS)
			}
		}
	}
}

func (s *Server) dispatch(world *sim.World, connections []*Connection, msg inboundMsg) {
	switch msg.frame.ClassID {
	case proto.ClassJoinRequest:
		var wire proto.JoinRequest
		if err := proto.Decode(msg.frame, &wire); err != nil {
			s.metrics.ProtocolErrors.Inc()
			return
		}
		s.handleJoinRequest(world, msg.conn, wire)

	case proto.ClassCommand:
		var wire proto.Command
		if err := proto.Decode(msg.frame, &wire); err != nil {
			s.metrics.ProtocolErrors.Inc()
			return
		}
		cmd := wire.ToCommand()
		if s.validate != nil && !s.validate(cmd, msg.conn.PlayerID()) {
			return
		}
		world.Apply(cmd, msg.conn.PlayerID())

	case proto.ClassChat:
		var wire proto.Chat
		if err := proto.Decode(msg.frame, &wire); err != nil || len(wire.Text) > proto.MaxChatBytes {
			s.metrics.ProtocolErrors.Inc()
			return
		}
		wire.From = msg.conn.PlayerID()
		s.broadcastChat(connections, msg.conn, wire)

	default:
		s.metrics.ProtocolErrors.Inc()
	}
}

func (s *Server) handleJoinRequest(world *sim.World, conn *Connection, req proto.JoinRequest) {
	p, ok := world.AddPlayer(sim.Player{Color: req.Color})
	if !ok {
		deny := proto.ServerDeny{Reason: "player limit reached"}
		proto.WriteMessage(conn.conn, proto.ClassServerDeny, deny)
		logging.Info("player rejected", map[string]any{"reason": deny.Reason})
		return
	}

	conn.playerID = p.ID
	s.metrics.ConnectedPlayers.Set(float64(len(world.Players())))

	accept := proto.ServerAccept{PlayerID: p.ID}
	if err := proto.WriteMessage(conn.conn, proto.ClassServerAccept, accept); err != nil {
		logging.Error("write server accept", err, nil)
		return
	}
	logging.Info("player joined", map[string]any{"player_id": p.ID})
}

func (s *Server) closeConnection(world *sim.World, connections []*Connection, conn *Connection) []*Connection {
	out := make([]*Connection, 0, len(connections))
	for _, c := range connections {
		if c != conn {
			out = append(out, c)
		}
	}
	world.RemovePlayer(conn.playerID)
	conn.Close()
	s.metrics.ConnectedPlayers.Set(float64(len(world.Players())))
	logging.Info("client disconnected", map[string]any{"remote": conn.RemoteAddr()})
	return out
}

func (s *Server) broadcastSnapshot(world *sim.World, connections []*Connection, gameTimeMS uint64) {
	timer := prometheus.NewTimer(s.metrics.BroadcastSeconds)
	defer timer.ObserveDuration()

	snap := proto.WorldSnapshot{World: proto.FromWorld(world), ServerTimeMS: gameTimeMS}
	buf, err := proto.EncodeMessage(proto.ClassWorldSnapshot, snap)
	if err != nil {
		logging.Error("encode snapshot", err, nil)
		return
	}
	for _, c := range connections {
		if _, err := c.conn.Write(buf); err != nil {
			logging.Debug("write snapshot failed", map[string]any{"remote": c.RemoteAddr(), "error": err.Error()})
		}
	}
}

func (s *Server) broadcastChat(connections []*Connection, from *Connection, chat proto.Chat) {
	buf, err := proto.EncodeMessage(proto.ClassChat, chat)
	if err != nil {
		return
	}
	for _, c := range connections {
		if c == from {
			continue
		}
		c.conn.Write(buf)
	}
}
