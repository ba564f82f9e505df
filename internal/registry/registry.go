// Package registry implements a process-wide, single-owner map from
// (address, port) to PeerEntry. All mutation goes through the methods
// below — no caller ever gets raw map access.
package registry

import (
	"fmt"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// PeerEntry is one record per observed (clientAddress, clientPort).
type PeerEntry struct {
	ConnectTimestamp    string `json:"connectTimestamp"`
	DisconnectTimestamp string `json:"disconnectTimestamp"`
	ReconnectionCount   int    `json:"reconnectionCount"`
	IPAddress           string `json:"ipAddress"`
	Port                string `json:"port"`
	ConnectionStatus    string `json:"connectionStatus"`
	DiameterHostname    string `json:"diameterHostname"`
	PeerType            string `json:"peerType"`
}

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
)

// Registry is the process-wide peer map. The zero value is not usable;
// construct with New.
type Registry struct {
	mu    sync.Mutex
	peers map[string]*PeerEntry
	now   func() time.Time // overridable for tests
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		peers: make(map[string]*PeerEntry),
		now:   time.Now,
	}
}

func key(address, port string) string {
	return fmt.Sprintf("%s-%s", address, port)
}

// Connect upserts the entry for (address, port): a fresh entry on first
// observation, or the existing entry with ReconnectionCount incremented on
// a repeat accept of the same key. It returns a copy of the entry as
// stamped.
func (r *Registry) Connect(address, port string) PeerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(address, port)
	entry, exists := r.peers[k]
	if !exists {
		entry = &PeerEntry{}
		r.peers[k] = entry
	} else {
		entry.ReconnectionCount++
	}

	entry.ConnectTimestamp = r.now().Format(timestampLayout)
	entry.IPAddress = address
	entry.Port = port
	entry.ConnectionStatus = statusConnected

	return *entry
}

// MarkValidated records the Origin-Host and peer-type classification
// discovered for (address, port) once the first valid frame arrives.
func (r *Registry) MarkValidated(address, port, diameterHostname, peerType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.peers[key(address, port)]; ok {
		entry.DiameterHostname = diameterHostname
		entry.PeerType = peerType
	}
}

// Disconnect marks (address, port) disconnected with the current
// timestamp. A disconnected entry always carries a non-empty
// disconnectTimestamp.
func (r *Registry) Disconnect(address, port string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.peers[key(address, port)]; ok {
		entry.ConnectionStatus = statusDisconnected
		entry.DisconnectTimestamp = r.now().Format(timestampLayout)
	}
}

// Len reports the number of tracked peers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

// Snapshot returns a value-copy of the full registry, safe to marshal or
// range over without holding the Registry's lock.
func (r *Registry) Snapshot() map[string]PeerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]PeerEntry, len(r.peers))
	for k, v := range r.peers {
		out[k] = *v
	}
	return out
}

// PruneStale removes every entry eligible for pruning — disconnected, and
// disconnected for longer than timeout — and returns the keys removed.
func (r *Registry) PruneStale(timeout time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	now := r.now()
	for k, entry := range r.peers {
		if entry.ConnectionStatus != statusDisconnected {
			continue
		}
		disconnectedAt, err := time.ParseInLocation(timestampLayout, entry.DisconnectTimestamp, time.Local)
		if err != nil {
			continue
		}
		if now.Sub(disconnectedAt) > timeout {
			removed = append(removed, k)
			delete(r.peers, k)
		}
	}
	return removed
}
