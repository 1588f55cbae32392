// Package arbitrage implements opportunity detection over the per-cycle price table.
package arbitrage

import (
	"context"
	"os"

	"github.com/fd1az/multichain-arb/business/arbitrage/app"
	arbDI "github.com/fd1az/multichain-arb/business/arbitrage/di"
	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	"github.com/fd1az/multichain-arb/business/arbitrage/infra"
	pricingDI "github.com/fd1az/multichain-arb/business/pricing/di"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/di"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/monolith"
	"github.com/fd1az/multichain-arb/internal/wsconn"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers the engine, the cycle pipeline, the poller and the reporters.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.Settings, func(sr di.ServiceRegistry) *app.SettingsStore {
		cfg := sr.Get("config").(*config.Config)

		initial, err := domain.NewSettings(cfg.Arbitrage.TradeAmountDecimal(), cfg.Arbitrage.MinProfitDecimal())
		if err != nil {
			panic("invalid initial settings: " + err.Error())
		}
		store, err := app.NewSettingsStore(initial)
		if err != nil {
			panic("invalid initial settings: " + err.Error())
		}
		return store
	})

	di.RegisterToken(c, arbDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		cfg := sr.Get("config").(*config.Config)
		return app.NewEngine(domain.NewFeeModel(cfg.Arbitrage.ServiceFeeRate, cfg.Arbitrage.BotFee, cfg.Arbitrage.GasEstimate))
	})

	di.RegisterToken(c, arbDI.Tracker, func(sr di.ServiceRegistry) *app.ChangeTracker {
		cfg := sr.Get("config").(*config.Config)
		return app.NewChangeTracker(cfg.Arbitrage.Highlight)
	})

	di.RegisterToken(c, arbDI.Pipeline, func(sr di.ServiceRegistry) *app.Pipeline {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewPipeline(
			pricingDI.GetAggregator(sr),
			arbDI.GetEngine(sr),
			arbDI.GetTracker(sr),
			arbDI.GetSettings(sr),
			log,
		)
	})

	di.RegisterToken(c, arbDI.Poller, func(sr di.ServiceRegistry) *app.Poller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		poller, err := app.NewPoller(arbDI.GetPipeline(sr), cfg.Poller.Interval, log)
		if err != nil {
			panic("failed to create poller: " + err.Error())
		}
		return poller
	})

	di.RegisterToken(c, arbDI.Service, func(sr di.ServiceRegistry) *app.Service {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewService(arbDI.GetSettings(sr), arbDI.GetPipeline(sr), arbDI.GetPoller(sr), log)
	})

	// Nil in headless mode.
	di.RegisterToken(c, arbDI.TUIReporter, func(sr di.ServiceRegistry) *infra.TUIReporter {
		cfg := sr.Get("config").(*config.Config)
		if !cfg.Arbitrage.TUIMode {
			return nil
		}
		log := sr.Get("logger").(logger.LoggerInterface)
		return infra.NewTUIReporter(arbDI.GetService(sr), log)
	})

	di.RegisterToken(c, arbDI.Reporters, func(sr di.ServiceRegistry) []app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var reporters []app.Reporter
		if tui := arbDI.GetTUIReporter(sr); tui != nil {
			reporters = append(reporters, tui)
		} else {
			reporters = append(reporters, infra.NewConsoleReporter(os.Stdout))
		}

		if cfg.Stream.Enabled {
			hub := wsconn.NewHub(wsconn.Config{OriginPatterns: cfg.Stream.OriginPatterns}, log)
			reporters = append(reporters, infra.NewStreamReporter(cfg.Stream.Port, hub, log))
		}
		return reporters
	})

	return nil
}

// Startup starts the reporters, the fan-out and the poller. Close hooks stop
// them in reverse: poller first, then reporters.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	sr := mono.Services()
	reporters := arbDI.GetReporters(sr)
	pipeline := arbDI.GetPipeline(sr)
	poller := arbDI.GetPoller(sr)

	for _, r := range reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
		mono.OnClose(r.Stop)
	}

	fanoutCtx, stopFanout := context.WithCancel(ctx)
	go app.Fanout(fanoutCtx, pipeline.Results(), reporters...)
	mono.OnClose(func() error {
		stopFanout()
		return nil
	})

	poller.Start(ctx)
	mono.OnClose(func() error {
		poller.Stop()
		return nil
	})

	mono.Logger().Info(ctx, "arbitrage module started",
		"reporters", len(reporters),
		"settings_trade_amount", arbDI.GetSettings(sr).Get().TradeAmount.String())
	return nil
}
