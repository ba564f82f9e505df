package registry

import (
	"context"
	"testing"
	"time"
)

func TestConnectFreshEntry(t *testing.T) {
	r := New()

	entry := r.Connect("10.0.0.1", "51000")
	if entry.ReconnectionCount != 0 {
		t.Fatalf("ReconnectionCount = %d, want 0", entry.ReconnectionCount)
	}
	if entry.ConnectionStatus != statusConnected {
		t.Fatalf("ConnectionStatus = %q, want %q", entry.ConnectionStatus, statusConnected)
	}
	if entry.IPAddress != "10.0.0.1" || entry.Port != "51000" {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestReconnectIncrementsCount(t *testing.T) {
	r := New()
	r.Connect("10.0.0.1", "51000")
	r.Disconnect("10.0.0.1", "51000")
	entry := r.Connect("10.0.0.1", "51000")

	if entry.ReconnectionCount != 1 {
		t.Fatalf("ReconnectionCount = %d, want 1", entry.ReconnectionCount)
	}
	if entry.ConnectionStatus != statusConnected {
		t.Fatalf("ConnectionStatus = %q, want %q", entry.ConnectionStatus, statusConnected)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (same key updated in place)", r.Len())
	}
}

func TestDisconnectSetsTimestamp(t *testing.T) {
	r := New()
	r.Connect("10.0.0.1", "51000")
	r.Disconnect("10.0.0.1", "51000")

	snapshot := r.Snapshot()
	entry := snapshot["10.0.0.1-51000"]
	if entry.ConnectionStatus != statusDisconnected {
		t.Fatalf("ConnectionStatus = %q, want %q", entry.ConnectionStatus, statusDisconnected)
	}
	if entry.DisconnectTimestamp == "" {
		t.Fatal("DisconnectTimestamp is empty after Disconnect")
	}
}

func TestMarkValidated(t *testing.T) {
	r := New()
	r.Connect("10.0.0.1", "51000")
	r.MarkValidated("10.0.0.1", "51000", "mme01.epc.example", "MME")

	entry := r.Snapshot()["10.0.0.1-51000"]
	if entry.DiameterHostname != "mme01.epc.example" || entry.PeerType != "MME" {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestPruneStaleRemovesOldDisconnects(t *testing.T) {
	r := New()
	fakeNow := time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local)
	r.now = func() time.Time { return fakeNow }

	r.Connect("10.0.0.1", "51000")
	r.Disconnect("10.0.0.1", "51000")

	r.now = func() time.Time { return fakeNow.Add(2 * time.Hour) }
	removed := r.PruneStale(time.Hour)

	if len(removed) != 1 || removed[0] != "10.0.0.1-51000" {
		t.Fatalf("PruneStale() = %v", removed)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after pruning", r.Len())
	}
}

func TestPruneStaleKeepsConnectedPeers(t *testing.T) {
	r := New()
	r.Connect("10.0.0.1", "51000")

	if removed := r.PruneStale(0); len(removed) != 0 {
		t.Fatalf("PruneStale() removed a connected peer: %v", removed)
	}
}

type fakeSnapshotter struct {
	calls int
	last  string
}

func (f *fakeSnapshotter) SetValue(_ context.Context, _, value string, _ time.Duration) error {
	f.calls++
	f.last = value
	return nil
}

func TestMaintenanceTickSnapshotsAndPrunes(t *testing.T) {
	r := New()
	fakeNow := time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local)
	r.now = func() time.Time { return fakeNow }
	r.Connect("10.0.0.1", "51000")
	r.Disconnect("10.0.0.1", "51000")
	r.now = func() time.Time { return fakeNow.Add(2 * time.Hour) }

	fake := &fakeSnapshotter{}
	runMaintenanceTick(context.Background(), r, fake, time.Hour, 24*time.Hour, testLogger())

	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if fake.calls != 1 {
		t.Fatalf("SetValue called %d times, want 1", fake.calls)
	}
	if fake.last != "{}" {
		t.Fatalf("snapshot payload = %q, want {}", fake.last)
	}
}

func TestMaintenanceTickSkipsEmptyRegistry(t *testing.T) {
	r := New()
	fake := &fakeSnapshotter{}
	runMaintenanceTick(context.Background(), r, fake, time.Hour, 24*time.Hour, testLogger())

	if fake.calls != 0 {
		t.Fatalf("SetValue called %d times on an empty registry, want 0", fake.calls)
	}
}
