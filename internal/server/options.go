package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/hssdiameter/frontend/internal/connhandler"
	"github.com/hssdiameter/frontend/internal/diam"
	"github.com/hssdiameter/frontend/internal/registry"
	"github.com/hssdiameter/frontend/internal/transport"
)

const (
	defaultBindAddr               = "0.0.0.0:3868"
	defaultSocketTimeout          = 300 * time.Second
	defaultDiameterRequestTimeout = 10 * time.Second
	defaultActivePeersTimeout     = 3600 * time.Second
)

// Option configures a Server. Mirrors the functional-options shape used
// for the reference corpus's own server construction.
type Option func(*options)

type options struct {
	bindAddr               string
	protocol               transport.Protocol
	socketTimeout          time.Duration
	diameterRequestTimeout time.Duration
	activePeersTimeout     time.Duration

	registry      *registry.Registry
	classifier    diam.PeerClassifier
	newBrokerConn connhandler.BrokerFactory
	counters      connhandler.Counters
	log           *zap.SugaredLogger
}

func defaultOptions() options {
	return options{
		bindAddr:               defaultBindAddr,
		protocol:               transport.ProtoTCP,
		socketTimeout:          defaultSocketTimeout,
		diameterRequestTimeout: defaultDiameterRequestTimeout,
		activePeersTimeout:     defaultActivePeersTimeout,
		classifier:             diam.HeuristicClassifier{},
	}
}

// WithBindAddr sets the listen address ("host:port").
func WithBindAddr(addr string) Option {
	return func(o *options) { o.bindAddr = addr }
}

// WithProtocol sets the transport protocol. Only transport.ProtoTCP is
// accepted by ListenAndServe; other values fail validation at startup.
func WithProtocol(p transport.Protocol) Option {
	return func(o *options) { o.protocol = p }
}

// WithSocketTimeout sets the per-read socket timeout handed to every
// connection handler.
func WithSocketTimeout(d time.Duration) Option {
	return func(o *options) { o.socketTimeout = d }
}

// WithDiameterRequestTimeout sets the TTL applied to inbound queue entries.
func WithDiameterRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.diameterRequestTimeout = d }
}

// WithActivePeersTimeout sets the stale-peer prune threshold: a disconnected
// peer is eligible for removal once it has been disconnected longer than
// this. The ActiveDiameterPeers broker snapshot TTL is fixed separately and
// does not scale with this value.
func WithActivePeersTimeout(d time.Duration) Option {
	return func(o *options) { o.activePeersTimeout = d }
}

// WithRegistry injects the peer registry. Required.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithClassifier overrides the default heuristic peer classifier.
func WithClassifier(c diam.PeerClassifier) Option {
	return func(o *options) { o.classifier = c }
}

// WithBrokerFactory injects the broker.Client constructor. Required.
func WithBrokerFactory(f connhandler.BrokerFactory) Option {
	return func(o *options) { o.newBrokerConn = f }
}

// WithCounters wires in a benchmarking counters sink (see
// internal/server's telemetry.Reporter). Optional; nil disables counting.
func WithCounters(c connhandler.Counters) Option {
	return func(o *options) { o.counters = c }
}

// WithLogger injects the structured logger. Required.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}
