// Package main is the entry point for the multichain arbitrage monitor.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/multichain-arb/business/arbitrage"
	arbDI "github.com/fd1az/multichain-arb/business/arbitrage/di"
	"github.com/fd1az/multichain-arb/business/chains"
	chainsDI "github.com/fd1az/multichain-arb/business/chains/di"
	"github.com/fd1az/multichain-arb/business/pricing"
	pricingDI "github.com/fd1az/multichain-arb/business/pricing/di"
	"github.com/fd1az/multichain-arb/internal/apm"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/health"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/metrics"
	"github.com/fd1az/multichain-arb/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run headless, printing cycles to stdout")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("multichain-arb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, !*cliMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Arbitrage.TUIMode = tuiMode

	logOut, closeLog, err := logOutput(cfg, tuiMode)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.New(logOut, parseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting multichain arbitrage monitor",
		"version", version,
		"environment", cfg.App.Environment,
		"tui", tuiMode)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	traceProvider, err := setupTelemetry(gctx, g, cfg, log)
	if err != nil {
		return err
	}
	defer traceProvider.Stop()

	mono := monolith.New(cfg, log)
	defer func() {
		if err := mono.Close(); err != nil {
			log.Error(context.Background(), "shutdown", "error", err)
		}
	}()

	modules := []monolith.Module{
		&chains.Module{},    // chain registry and RPC pool
		&pricing.Module{},   // price sources and aggregator
		&arbitrage.Module{}, // engine, poller and reporters
	}
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	healthServer := newHealthServer(cfg, mono, log)
	healthServer.Start(ctx)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		healthServer.Stop(shutdownCtx)
	}()

	var quit <-chan struct{}
	if tui := arbDI.GetTUIReporter(mono.Services()); tui != nil {
		quit = tui.Done()
	}

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down", "reason", context.Cause(ctx))
	case <-gctx.Done():
		log.Warn(context.Background(), "background server failed", "error", context.Cause(gctx))
	case <-quit:
		log.Info(context.Background(), "dashboard closed")
	}
	cancel()

	return g.Wait()
}

func setupTelemetry(ctx context.Context, g *errgroup.Group, cfg *config.Config, log logger.LoggerInterface) (apm.TraceProvider, error) {
	if !cfg.Telemetry.Enabled {
		return apm.NewTraceProvider(ctx, log)
	}

	reader := metrics.NewPrometheusConfig()
	if cfg.Telemetry.MetricsReader == string(metrics.OtelCollector) {
		reader = metrics.NewOtelCollectorConfig(cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.OTLPHeaders, metrics.InsecureOtel)
	}
	if _, err := metrics.NewMetricProvider(ctx,
		metrics.WithServiceName(cfg.Telemetry.ServiceName),
		metrics.WithProviderConfig(reader),
	); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	if reader.Provider == metrics.PrometheusProvider {
		g.Go(func() error {
			return metrics.ServePrometheusMetrics(ctx, cfg.Telemetry.PrometheusPort, log)
		})
	}

	tp, err := apm.NewTraceProvider(ctx, log,
		apm.WithProvider(apm.Provider(cfg.Telemetry.TraceExporter)),
		apm.WithServiceName(cfg.Telemetry.ServiceName),
		apm.WithEndpoint(cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.OTLPHeaders),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	return tp, nil
}

func newHealthServer(cfg *config.Config, mono monolith.Monolith, log logger.LoggerInterface) *health.Server {
	sr := mono.Services()
	poller := arbDI.GetPoller(sr)
	pipeline := arbDI.GetPipeline(sr)
	pool := chainsDI.GetRPCPool(sr)
	sources := len(pricingDI.GetAggregator(sr).Sources())
	maxAge := 3 * cfg.Poller.Interval

	s := health.NewServer(cfg.Health.Port, version, log)

	s.RegisterCheck("last_cycle", func(context.Context) (bool, string) {
		last := poller.LastCompleted()
		if last.IsZero() {
			return true, "waiting for the first cycle"
		}
		age := time.Since(last)
		return age <= maxAge, fmt.Sprintf("last cycle %s ago", age.Round(time.Second))
	})

	s.RegisterCheck("sources", func(context.Context) (bool, string) {
		last, ok := pipeline.Last()
		if !ok {
			return sources > 0, fmt.Sprintf("%d sources, no cycle yet", sources)
		}
		stats := last.Stats
		return stats.Succeeded > 0, fmt.Sprintf("%d/%d sources priced", stats.Succeeded, stats.Sources)
	})

	s.RegisterCheck("rpc_breakers", func(context.Context) (bool, string) {
		var open []string
		for chain, state := range pool.BreakerStates() {
			if state == "open" {
				open = append(open, chain)
			}
		}
		if len(open) == 0 {
			return true, ""
		}
		// Open breakers degrade single sources, never the service.
		return true, "open: " + strings.Join(open, ",")
	})

	return s
}

func logOutput(cfg *config.Config, tuiMode bool) (io.Writer, func(), error) {
	if !tuiMode {
		return os.Stderr, func() {}, nil
	}
	if cfg.App.LogFile == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func parseLevel(s string) logger.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
