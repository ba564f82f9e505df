package connhandler

import (
	"encoding/hex"
	"encoding/json"
	"runtime"
	"time"

	"github.com/hssdiameter/frontend/internal/broker"
)

func hexEncode(data []byte) string {
	return hex.EncodeToString(data)
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func marshalEnvelope(e broker.InboundEnvelope) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalEnvelope(s string) (broker.OutboundEnvelope, error) {
	var e broker.OutboundEnvelope
	err := json.Unmarshal([]byte(s), &e)
	return e, err
}

func nowNanos() int64 {
	return time.Now().UnixNano()
}

// runtimeGosched is a cooperative yield after every envelope handoff,
// giving the paired direction a chance to run under load. Go's scheduler
// preempts goroutines without it, but the explicit yield keeps the two
// tasks trading turns visible in the code.
func runtimeGosched() {
	runtime.Gosched()
}
