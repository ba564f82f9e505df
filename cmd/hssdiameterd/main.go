// Command hssdiameterd runs the Diameter HSS front-end: it accepts
// Diameter-framed TCP connections, validates each peer's Origin-Host,
// and hands every framed message off to a Redis-backed broker queue for a
// separate worker process to answer.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hssdiameter/frontend/internal/broker"
	"github.com/hssdiameter/frontend/internal/config"
	"github.com/hssdiameter/frontend/internal/connhandler"
	"github.com/hssdiameter/frontend/internal/logging"
	"github.com/hssdiameter/frontend/internal/registry"
	"github.com/hssdiameter/frontend/internal/server"
	"github.com/hssdiameter/frontend/internal/transport"
)

func main() {
	configPath := flag.String("config", "/etc/hss/config.yaml", "path to the process YAML configuration")
	development := flag.Bool("development", false, "enable human-readable debug logging")
	metricsAddr := flag.String("metrics-addr", "", "bind address for the Prometheus /metrics endpoint (empty disables it)")
	flag.Parse()

	log.SetFlags(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("hssdiameterd: loading config %s: %v", *configPath, err)
	}

	logger, err := logging.New(*development)
	if err != nil {
		log.Fatalf("hssdiameterd: building logger: %v", err)
	}
	defer logger.Sync()

	protocol, ok := transport.ParseProtocol(cfg.HSS.Transport)
	if !ok {
		logger.Fatalw("unrecognized transport in configuration", "transport", cfg.HSS.Transport)
	}

	brokerFactory := func() *broker.Client {
		return broker.New(broker.Config{
			Host:           cfg.Redis.Host,
			Port:           cfg.Redis.Port,
			UseUnixSocket:  cfg.Redis.UseUnixSocket,
			UnixSocketPath: cfg.Redis.UnixSocketPath,
		}, logger)
	}

	reg := registry.New()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var sinks []connhandler.Counters

	if cfg.Benchmarking.Enabled {
		reporter := server.NewReporter()
		go reporter.Run(ctx, time.Duration(cfg.Benchmarking.ReportingInterval)*time.Second, logger)
		sinks = append(sinks, reporter)
	}

	if *metricsAddr != "" {
		metrics := server.NewMetricsServer(*metricsAddr)
		go metrics.Serve(logger)
		go metrics.WatchRegistry(ctx, reg, 10*time.Second)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			metrics.Shutdown(shutdownCtx)
		}()
		sinks = append(sinks, metrics)
	}

	srv := server.New(
		server.WithBindAddr(cfg.HSS.BindAddr()),
		server.WithProtocol(protocol),
		server.WithSocketTimeout(time.Duration(cfg.HSS.ClientSocketTimeout)*time.Second),
		server.WithDiameterRequestTimeout(time.Duration(cfg.HSS.DiameterRequestTimeout)*time.Second),
		server.WithActivePeersTimeout(time.Duration(cfg.HSS.ActiveDiameterPeersTimeout)*time.Second),
		server.WithRegistry(reg),
		server.WithBrokerFactory(brokerFactory),
		server.WithCounters(server.CombineCounters(sinks...)),
		server.WithLogger(logger),
	)

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}
