package server

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hssdiameter/frontend/internal/connhandler"
)

// Reporter counts inbound and outbound Diameter traffic and periodically
// logs and resets the totals, implementing connhandler.Counters. It is the
// Go shape of a periodic request/response counter report: accumulate,
// log, zero, repeat.
type Reporter struct {
	inbound  atomic.Int64
	outbound atomic.Int64
}

// NewReporter returns a zeroed Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// IncInbound implements connhandler.Counters.
func (r *Reporter) IncInbound() {
	r.inbound.Add(1)
}

// IncOutbound implements connhandler.Counters.
func (r *Reporter) IncOutbound() {
	r.outbound.Add(1)
}

// Snapshot returns the current counts without resetting them.
func (r *Reporter) Snapshot() (inbound, outbound int64) {
	return r.inbound.Load(), r.outbound.Load()
}

// Run logs the accumulated counts every interval and resets them to zero,
// until ctx is cancelled.
func (r *Reporter) Run(ctx context.Context, interval time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			inbound := r.inbound.Swap(0)
			outbound := r.outbound.Swap(0)
			log.Infow("diameter traffic report", "diameterRequests", inbound, "diameterResponses", outbound, "intervalSeconds", interval.Seconds())
		}
	}
}

// multiCounters fans a single connhandler.Counters call out to several
// sinks, so the log-based Reporter and the Prometheus MetricsServer can
// both observe the same traffic without the handler knowing about either.
type multiCounters []connhandler.Counters

func (m multiCounters) IncInbound() {
	for _, c := range m {
		c.IncInbound()
	}
}

func (m multiCounters) IncOutbound() {
	for _, c := range m {
		c.IncOutbound()
	}
}

// CombineCounters returns a connhandler.Counters that fans out to every
// non-nil sink given.
func CombineCounters(sinks ...connhandler.Counters) connhandler.Counters {
	var combined multiCounters
	for _, s := range sinks {
		if s != nil {
			combined = append(combined, s)
		}
	}
	return combined
}
