// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/multichain-arb/business/arbitrage/app"
	"github.com/fd1az/multichain-arb/business/arbitrage/infra"
	"github.com/fd1az/multichain-arb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Service     = di.NewToken[*app.Service]("arbitrage.Service")
	Pipeline    = di.NewToken[*app.Pipeline]("arbitrage.Pipeline")
	Poller      = di.NewToken[*app.Poller]("arbitrage.Poller")
	TUIReporter = di.NewToken[*infra.TUIReporter]("arbitrage.TUIReporter")
)

// Private dependency tokens - internal to arbitrage module
var (
	Settings  = di.NewToken[*app.SettingsStore]("arbitrage:settings")
	Engine    = di.NewToken[*app.Engine]("arbitrage:engine")
	Tracker   = di.NewToken[*app.ChangeTracker]("arbitrage:tracker")
	Reporters = di.NewToken[[]app.Reporter]("arbitrage:reporters")
)

func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}

func GetPipeline(c di.ServiceRegistry) *app.Pipeline {
	return di.GetToken(c, Pipeline)
}

func GetPoller(c di.ServiceRegistry) *app.Poller {
	return di.GetToken(c, Poller)
}

func GetTUIReporter(c di.ServiceRegistry) *infra.TUIReporter {
	return di.GetToken(c, TUIReporter)
}

func GetSettings(c di.ServiceRegistry) *app.SettingsStore {
	return di.GetToken(c, Settings)
}

func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}

func GetTracker(c di.ServiceRegistry) *app.ChangeTracker {
	return di.GetToken(c, Tracker)
}

func GetReporters(c di.ServiceRegistry) []app.Reporter {
	return di.GetToken(c, Reporters)
}
