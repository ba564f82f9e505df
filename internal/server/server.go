// Package server runs the accept loop that turns a bound socket into a
// stream of served connections, and launches the registry's maintenance
// loop alongside it.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/hssdiameter/frontend/internal/connhandler"
	"github.com/hssdiameter/frontend/internal/registry"
	"github.com/hssdiameter/frontend/internal/transport"
)

// snapshotTTL is the fixed lifetime of the ActiveDiameterPeers broker key,
// independent of the configurable stale-peer prune threshold.
const snapshotTTL = 86400 * time.Second

// Server accepts connections on a bound socket and hands each one to a
// connhandler.Handler.
type Server struct {
	opts     options
	listener *transport.Listener
}

// New builds a Server from options. WithRegistry, WithBrokerFactory, and
// WithLogger must be supplied; New panics otherwise since a server with no
// registry or broker cannot do anything useful.
func New(opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		panic("server: WithRegistry is required")
	}
	if o.newBrokerConn == nil {
		panic("server: WithBrokerFactory is required")
	}
	if o.log == nil {
		panic("server: WithLogger is required")
	}
	return &Server{opts: o}
}

// Addr returns the configured bind address.
func (s *Server) Addr() string {
	return s.opts.bindAddr
}

// ListenAndServe binds the listener, starts registry maintenance, and
// accepts connections until ctx is cancelled or a fatal accept error
// occurs. It blocks until shutdown completes.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.opts.protocol != transport.ProtoTCP {
		return fmt.Errorf("server: only TCP is supported at runtime, got protocol %v", s.opts.protocol)
	}

	ln, err := transport.Listen(s.opts.bindAddr, s.opts.protocol)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.opts.bindAddr, err)
	}
	s.listener = ln
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	maintenanceClient := s.opts.newBrokerConn()
	defer maintenanceClient.Close()
	go registry.RunMaintenance(ctx, s.opts.registry, maintenanceClient, s.opts.activePeersTimeout, snapshotTTL, s.opts.log)

	handler := connhandler.New(connhandler.Config{
		SocketTimeout:          s.opts.socketTimeout,
		DiameterRequestTimeout: s.opts.diameterRequestTimeout,
	}, s.opts.registry, s.opts.classifier, s.opts.newBrokerConn, s.opts.counters, s.opts.log)

	s.logBanner()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("server: accept: %w", err)
		}
		go handler.Serve(ctx, conn)
	}
}

func (s *Server) logBanner() {
	s.opts.log.Infow("diameter hss front-end serving",
		"servingAddresses", s.opts.bindAddr,
		"protocol", "TCP",
		"socketTimeout", s.opts.socketTimeout,
		"diameterRequestTimeout", s.opts.diameterRequestTimeout,
		"activePeersTimeout", s.opts.activePeersTimeout,
		"startedAt", time.Now().Format(time.RFC3339),
	)
}
