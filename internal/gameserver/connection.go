package gameserver

import "net"

// Connection is a per-client socket plus its join state (spec.md §4.3).
// PlayerID is 0 until the client successfully joins ("Connecting"
// state); Command messages that arrive before joining are applied
// against player id 0, which World.Apply silently ignores.
type Connection struct {
	conn     net.Conn
	playerID uint8
}

func newConnection(c net.Conn) *Connection {
	return &Connection{conn: c}
}

// PlayerID returns the connection's current player id (0 if not yet
// joined).
func (c *Connection) PlayerID() uint8 {
	return c.playerID
}

// RemoteAddr returns the underlying socket's remote address string,
// for logging.
func (c *Connection) RemoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// Close closes the underlying socket. Safe to call more than once.
func (c *Connection) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
