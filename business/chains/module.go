// Package chains implements the chain registry and RPC access shared by the price sources.
package chains

import (
	"context"

	"github.com/fd1az/multichain-arb/business/chains/app"
	chainsDI "github.com/fd1az/multichain-arb/business/chains/di"
	"github.com/fd1az/multichain-arb/business/chains/infra/rpc"
	"github.com/fd1az/multichain-arb/internal/asset"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/di"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/monolith"
)

// Module implements the chains bounded context.
type Module struct{}

// RegisterServices registers the registry and the RPC pool.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, chainsDI.Registry, func(sr di.ServiceRegistry) *app.Registry {
		cfg := sr.Get("config").(*config.Config)
		assets := sr.Get("assetRegistry").(*asset.Registry)

		registry, err := app.NewRegistry(cfg, assets)
		if err != nil {
			panic("failed to build chain registry: " + err.Error())
		}
		return registry
	})

	di.RegisterToken(c, chainsDI.RPCPool, func(sr di.ServiceRegistry) *rpc.Pool {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return rpc.NewPool(chainsDI.GetRegistry(sr), cfg.RPC, log)
	})

	return nil
}

// Startup resolves the registry so configuration errors surface before the first cycle.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	registry := chainsDI.GetRegistry(mono.Services())
	pool := chainsDI.GetRPCPool(mono.Services())
	mono.OnClose(pool.Close)

	mono.Logger().Info(ctx, "chains module started",
		"chains", len(registry.Chains()),
		"dex_chains", len(registry.DEXSets()),
		"tokens", mono.AssetRegistry().Count())
	return nil
}
