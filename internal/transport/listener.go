package transport

import (
	"net"

	"github.com/ishidawataru/sctp"
)

// Listener manages incoming connections on the server side. It carries a
// Protocol so the same type can front either a TCP or an SCTP socket.
type Listener struct {
	net      net.Listener
	addr     string
	protocol Protocol
}

// Listen opens a listener on addr for the given protocol.
func Listen(addr string, protocol Protocol) (*Listener, error) {
	var ln net.Listener
	var err error

	switch protocol {
	case ProtoTCP:
		ln, err = net.Listen("tcp", addr)
	case ProtoSCTP:
		ln, err = sctp.ListenSCTP("sctp", &sctp.SCTPAddr{IPAddrs: []net.IPAddr{{IP: net.ParseIP(addr)}}})
	}
	if err != nil {
		return nil, err
	}

	return &Listener{net: ln, addr: addr, protocol: protocol}, nil
}

// Accept waits for and returns the next incoming connection.
func (l *Listener) Accept() (*Connection, error) {
	conn, err := l.net.Accept()
	if err != nil {
		return nil, err
	}
	return &Connection{conn: conn, protocol: l.protocol}, nil
}

// Close stops the listener from accepting further connections.
func (l *Listener) Close() error {
	return l.net.Close()
}

// Addr returns the address the listener is bound to.
func (l *Listener) Addr() net.Addr {
	return l.net.Addr()
}
