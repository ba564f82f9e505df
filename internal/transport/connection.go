package transport

import (
	"net"
	"time"
)

// Connection wraps a net.Conn with deadline-scoped Read/Write.
type Connection struct {
	conn     net.Conn
	protocol Protocol
}

// NewConnection wraps an already-established net.Conn — used by the
// Connection Handler's tests, which build loopback TCP socket pairs
// directly rather than going through a Listener.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{conn: conn, protocol: ProtoTCP}
}

// ReadWithTimeout reads into buffer, applying a read deadline of timeout.
func (c *Connection) ReadWithTimeout(buffer []byte, timeout time.Duration) (int, error) {
	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
	}
	return c.conn.Read(buffer)
}

// Write writes data to the connection with no deadline — the write task
// blocks on the broker, not the socket.
func (c *Connection) Write(data []byte) (int, error) {
	return c.conn.Write(data)
}

// CancelPendingRead forces any in-flight Read to return immediately by
// setting an already-past read deadline. Used by the Connection Handler's
// cancellation path to unblock the read task promptly instead of waiting
// out the full socket timeout.
func (c *Connection) CancelPendingRead() {
	c.conn.SetReadDeadline(time.Now())
}

// Close closes the underlying socket.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote socket address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
