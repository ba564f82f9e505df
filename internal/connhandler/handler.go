// Package connhandler serves one accepted socket with a pair of
// cooperating read/write goroutines that share a connection identity and
// are torn down together as soon as either one ends.
package connhandler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hssdiameter/frontend/internal/broker"
	"github.com/hssdiameter/frontend/internal/diam"
	"github.com/hssdiameter/frontend/internal/registry"
	"github.com/hssdiameter/frontend/internal/transport"
)

// readBufferSize is the per-read buffer size for socket reads.
const readBufferSize = 8192

// cancelGrace is the short window given to the losing task to unwind
// before the handler force-closes the socket.
const cancelGrace = 100 * time.Millisecond

// Counters is the subset of the Server's telemetry the handler reports
// inbound/outbound traffic to. Defined here (not imported from package
// server) to keep connhandler free of a dependency on its own caller.
type Counters interface {
	IncInbound()
	IncOutbound()
}

type noopCounters struct{}

func (noopCounters) IncInbound()  {}
func (noopCounters) IncOutbound() {}

// Config is the per-handler tunables sourced from config.HSS.
type Config struct {
	SocketTimeout          time.Duration
	DiameterRequestTimeout time.Duration
}

// BrokerFactory builds a new broker.Client, used so the handler can create
// independent reader and writer instances — a single client cannot serve
// a blocking pop and an unrelated push at the same time.
type BrokerFactory func() *broker.Client

// Handler serves accepted connections.
type Handler struct {
	cfg           Config
	registry      *registry.Registry
	classifier    diam.PeerClassifier
	newBrokerConn BrokerFactory
	counters      Counters
	log           *zap.SugaredLogger
}

// New builds a Handler. counters may be nil, in which case traffic counts
// are simply not recorded (benchmarking disabled).
func New(cfg Config, reg *registry.Registry, classifier diam.PeerClassifier, newBrokerConn BrokerFactory, counters Counters, log *zap.SugaredLogger) *Handler {
	if counters == nil {
		counters = noopCounters{}
	}
	return &Handler{
		cfg:           cfg,
		registry:      reg,
		classifier:    classifier,
		newBrokerConn: newBrokerConn,
		counters:      counters,
		log:           log,
	}
}

// Serve runs the full lifecycle of one accepted connection: registry
// upsert, spawn read/write tasks, wait for first completion, cancel and
// tear down the other, mark the registry entry disconnected. It blocks
// until the connection is fully closed.
func (h *Handler) Serve(ctx context.Context, conn *transport.Connection) {
	correlationID := uuid.New().String()

	clientAddress, clientPort, err := transport.SplitAddr(conn.RemoteAddr())
	if err != nil {
		h.log.Warnw("could not parse peer address, closing", "correlationId", correlationID, "error", err)
		conn.Close()
		return
	}

	log := h.log.With("correlationId", correlationID, "clientAddress", clientAddress, "clientPort", clientPort)

	h.registry.Connect(clientAddress, clientPort)
	h.registry.LogSummary(h.log)
	log.Infow("new connection")

	readerConn := h.newBrokerConn()
	writerConn := h.newBrokerConn()
	defer readerConn.Close()
	defer writerConn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	readDone := make(chan struct{})
	writeDone := make(chan struct{})

	go func() {
		defer close(readDone)
		h.readLoop(connCtx, conn, readerConn, clientAddress, clientPort, log)
	}()
	go func() {
		defer close(writeDone)
		h.writeLoop(connCtx, conn, writerConn, clientAddress, clientPort, log)
	}()

	var remaining <-chan struct{}
	select {
	case <-readDone:
		remaining = writeDone
	case <-writeDone:
		remaining = readDone
	}

	cancel()
	conn.CancelPendingRead()

	select {
	case <-remaining:
	case <-time.After(cancelGrace):
	}

	conn.Close()

	h.registry.Disconnect(clientAddress, clientPort)
	h.registry.LogSummary(h.log)
	log.Infow("connection closed")
}

// readLoop is the read task: read, validate on the first good frame,
// publish an InboundEnvelope once validated, yield.
func (h *Handler) readLoop(ctx context.Context, conn *transport.Connection, reader *broker.Client, clientAddress, clientPort string, log *zap.SugaredLogger) {
	validated := false
	buf := make([]byte, readBufferSize)

	for {
		if ctx.Err() != nil {
			return
		}

		n, err := conn.ReadWithTimeout(buf, h.cfg.SocketTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Infow("read task ending", "error", err)
			return
		}
		if n == 0 {
			continue
		}

		frame := append([]byte(nil), buf[:n]...)

		if !validated {
			originHost, err := diam.OriginHost(frame)
			if err != nil {
				log.Debugw("invalid diameter inbound, discarding", "error", err)
				runtimeGosched()
				continue
			}
			peerType := h.classifier.Classify(originHost)
			h.registry.MarkValidated(clientAddress, clientPort, originHost, peerType)
			log.Infow("validated peer", "diameterHostname", originHost, "peerType", peerType)
			validated = true
		}

		envelope := broker.InboundEnvelope{
			DiameterInbound:          hexEncode(frame),
			InboundReceivedTimestamp: nowNanos(),
			ClientAddress:            clientAddress,
			ClientPort:               clientPort,
		}
		payload, err := marshalEnvelope(envelope)
		if err != nil {
			log.Warnw("failed to marshal inbound envelope", "error", err)
			runtimeGosched()
			continue
		}

		if err := reader.SendMessage(ctx, broker.InboundQueue, payload, h.cfg.DiameterRequestTimeout); err != nil {
			log.Warnw("broker sendMessage failed, will retry next read", "error", err)
		} else {
			h.counters.IncInbound()
		}

		runtimeGosched()
	}
}

// writeLoop is the write task: block for an outbound envelope, hex-decode
// and write it to the socket, yield.
func (h *Handler) writeLoop(ctx context.Context, conn *transport.Connection, writer *broker.Client, clientAddress, clientPort string, log *zap.SugaredLogger) {
	queue := broker.OutboundQueue(clientAddress, clientPort)

	for {
		if ctx.Err() != nil {
			return
		}

		_, message, err := writer.AwaitMessage(ctx, queue)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnw("broker awaitMessage failed, will retry", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		envelope, err := unmarshalEnvelope(message)
		if err != nil {
			log.Warnw("failed to parse outbound envelope, dropping", "error", err)
			runtimeGosched()
			continue
		}

		raw, err := hexDecode(envelope.DiameterOutbound)
		if err != nil {
			log.Warnw("failed to hex-decode outbound envelope, dropping", "error", err)
			runtimeGosched()
			continue
		}

		if _, err := conn.Write(raw); err != nil {
			log.Infow("write task ending", "error", err)
			return
		}
		h.counters.IncOutbound()

		runtimeGosched()
	}
}
