package registry

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/hssdiameter/frontend/internal/broker"
)

// snapshotter is the subset of *broker.Client the maintenance loop needs;
// an interface so tests can fake it without dialing Redis.
type snapshotter interface {
	SetValue(ctx context.Context, key, value string, keyExpiry time.Duration) error
}

// RunMaintenance runs a one-second-tick prune-and-snapshot loop, using its
// own dedicated broker client. It runs until ctx is cancelled.
func RunMaintenance(ctx context.Context, r *Registry, peerClient snapshotter, pruneTimeout, snapshotTTL time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runMaintenanceTick(ctx, r, peerClient, pruneTimeout, snapshotTTL, log)
		}
	}
}

func runMaintenanceTick(ctx context.Context, r *Registry, peerClient snapshotter, pruneTimeout, snapshotTTL time.Duration, log *zap.SugaredLogger) {
	defer func() {
		// A maintenance-loop panic must not kill the process; log and let
		// the next tick resume.
		if rec := recover(); rec != nil {
			log.Errorw("registry maintenance tick panicked", "recover", rec)
		}
	}()

	if r.Len() == 0 {
		return
	}

	if pruned := r.PruneStale(pruneTimeout); len(pruned) > 0 {
		log.Debugw("pruning disconnected peers", "keys", pruned)
		r.LogSummary(log)
	}

	snapshot := r.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Warnw("failed to marshal registry snapshot", "error", err)
		return
	}

	if err := peerClient.SetValue(ctx, broker.ActivePeersKey, string(payload), snapshotTTL); err != nil {
		log.Warnw("failed to publish registry snapshot", "error", err)
	}
}

// LogSummary logs the current peer count and full peer table.
func (r *Registry) LogSummary(log *zap.SugaredLogger) {
	snapshot := r.Snapshot()
	log.Infow("active diameter peers", "count", len(snapshot), "peers", snapshot)
}
