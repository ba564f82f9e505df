package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hssdiameter/frontend/internal/registry"
)

func TestMetricsServerExposesCounters(t *testing.T) {
	ms := NewMetricsServer("127.0.0.1:0")
	ms.IncInbound()
	ms.IncInbound()
	ms.IncOutbound()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.HandlerFor(ms.registry, promhttp.HandlerOpts{Registry: ms.registry}).ServeHTTP(recorder, req)

	body, err := io.ReadAll(recorder.Result().Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	out := string(body)
	if !strings.Contains(out, "diameter_inbound_messages_total 2") {
		t.Fatalf("metrics output missing inbound total: %s", out)
	}
	if !strings.Contains(out, "diameter_outbound_messages_total 1") {
		t.Fatalf("metrics output missing outbound total: %s", out)
	}
}

func TestMetricsServerWatchesRegistry(t *testing.T) {
	ms := NewMetricsServer("127.0.0.1:0")
	reg := registry.New()
	reg.Connect("10.0.0.1", "3868")
	reg.Connect("10.0.0.2", "3868")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ms.WatchRegistry(ctx, reg, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()
	<-done

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.HandlerFor(ms.registry, promhttp.HandlerOpts{Registry: ms.registry}).ServeHTTP(recorder, req)
	body, _ := io.ReadAll(recorder.Result().Body)
	if !strings.Contains(string(body), "diameter_active_peers 2") {
		t.Fatalf("metrics output missing active peers gauge: %s", string(body))
	}
}
