// Package transport provides the socket-level listener and connection
// types the Connection Handler and Server build on. TCP is the only
// transport the running server accepts; SCTP is kept as a future
// extension point rather than deleted outright.
package transport

import "net"

// SplitAddr splits a net.Addr's string form into host and port, the shape
// the Peer Registry and broker queue names key off.
func SplitAddr(addr net.Addr) (host, port string, err error) {
	return net.SplitHostPort(addr.String())
}

// Protocol identifies which socket transport a Listener or Connection uses.
type Protocol int

const (
	ProtoTCP Protocol = iota
	ProtoSCTP
)

// ParseProtocol maps a config transport string to a Protocol. Only "TCP"
// is accepted by the Server; ParseProtocol itself recognizes "SCTP" too so
// the transport layer and its tests can exercise the extension point
// independently of server-level policy.
func ParseProtocol(s string) (Protocol, bool) {
	switch s {
	case "TCP", "tcp":
		return ProtoTCP, true
	case "SCTP", "sctp":
		return ProtoSCTP, true
	default:
		return 0, false
	}
}
