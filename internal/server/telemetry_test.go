package server

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestReporterRunResetsCounters(t *testing.T) {
	r := NewReporter()
	r.IncInbound()
	r.IncInbound()
	r.IncOutbound()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 20*time.Millisecond, zap.NewNop().Sugar())
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	inbound, outbound := r.Snapshot()
	if inbound != 0 || outbound != 0 {
		t.Fatalf("Snapshot() after ticks = (%d, %d), want (0, 0)", inbound, outbound)
	}
}

func TestCombineCountersFansOutToAllSinks(t *testing.T) {
	a := NewReporter()
	b := NewReporter()
	combined := CombineCounters(a, b, nil)

	combined.IncInbound()
	combined.IncOutbound()
	combined.IncOutbound()

	aIn, aOut := a.Snapshot()
	bIn, bOut := b.Snapshot()
	if aIn != 1 || aOut != 2 || bIn != 1 || bOut != 2 {
		t.Fatalf("got a=(%d,%d) b=(%d,%d), want both (1,2)", aIn, aOut, bIn, bOut)
	}
}
