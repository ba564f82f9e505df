package broker

import "fmt"

// InboundQueue is the single shared queue every connection publishes
// framed inbound reads to.
const InboundQueue = "diameter-inbound"

// ActivePeersKey is the broker key the registry snapshotter writes to.
const ActivePeersKey = "ActiveDiameterPeers"

// OutboundQueue returns the per-connection response queue name a write
// task blocks on, keyed by the peer's ephemeral socket address.
func OutboundQueue(clientAddress, clientPort string) string {
	return fmt.Sprintf("diameter-outbound-%s-%s", clientAddress, clientPort)
}

// InboundEnvelope is the broker message published on InboundQueue for
// every socket read once the peer has been validated; reads before that
// are discarded, not published.
type InboundEnvelope struct {
	DiameterInbound          string `json:"diameter-inbound"`
	InboundReceivedTimestamp int64  `json:"inbound-received-timestamp"`
	ClientAddress            string `json:"clientAddress"`
	ClientPort               string `json:"clientPort"`
}

// OutboundEnvelope is the broker message a worker places on a
// per-connection outbound queue.
type OutboundEnvelope struct {
	DiameterOutbound         string `json:"diameter-outbound"`
	InboundReceivedTimestamp int64  `json:"inbound-received-timestamp"`
}
