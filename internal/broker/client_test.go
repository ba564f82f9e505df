package broker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zap.NewNop().Sugar()
	return newFromRedisClient(rdb, logger), mr
}

func TestSendMessageSetsQueueAndTTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if err := c.SendMessage(ctx, "diameter-inbound", `{"diameter-inbound":"deadbeef"}`, 10*time.Second); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	got, err := mr.Lpop("diameter-inbound")
	if err != nil {
		t.Fatalf("Lpop() error = %v", err)
	}
	if got != `{"diameter-inbound":"deadbeef"}` {
		t.Fatalf("queued message = %q", got)
	}

	ttl := mr.TTL("diameter-inbound")
	if ttl <= 0 || ttl > 10*time.Second {
		t.Fatalf("TTL = %v, want a positive duration <= 10s", ttl)
	}
}

func TestAwaitMessageBlocksUntilPush(t *testing.T) {
	c, mr := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	var gotQueue, gotMessage string
	var gotErr error
	go func() {
		gotQueue, gotMessage, gotErr = c.AwaitMessage(ctx, "diameter-outbound-10.0.0.1-51000")
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	mr.Lpush("diameter-outbound-10.0.0.1-51000", `{"diameter-outbound":"cafe"}`)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AwaitMessage() did not return after push")
	}

	if gotErr != nil {
		t.Fatalf("AwaitMessage() error = %v", gotErr)
	}
	if gotQueue != "diameter-outbound-10.0.0.1-51000" {
		t.Fatalf("queue = %q", gotQueue)
	}
	if gotMessage != `{"diameter-outbound":"cafe"}` {
		t.Fatalf("message = %q", gotMessage)
	}
}

func TestAwaitMessageRespectsCancellation(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := c.AwaitMessage(ctx, "diameter-outbound-never-used")
	if err == nil {
		t.Fatal("AwaitMessage() on an empty queue with a cancelled context: expected an error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("AwaitMessage() took %v to respect cancellation", elapsed)
	}
}

func TestSetValueWritesWithTTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if err := c.SetValue(ctx, ActivePeersKey, `{}`, 86400*time.Second); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	got, err := mr.Get(ActivePeersKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "{}" {
		t.Fatalf("value = %q", got)
	}
}

func TestOutboundQueueNaming(t *testing.T) {
	if got, want := OutboundQueue("10.0.0.1", "51000"), "diameter-outbound-10.0.0.1-51000"; got != want {
		t.Fatalf("OutboundQueue() = %q, want %q", got, want)
	}
}
