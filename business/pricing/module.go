// Package pricing implements the price sources and the per-cycle aggregator.
package pricing

import (
	"context"
	"time"

	chainsApp "github.com/fd1az/multichain-arb/business/chains/app"
	chainsDI "github.com/fd1az/multichain-arb/business/chains/di"
	"github.com/fd1az/multichain-arb/business/pricing/app"
	pricingDI "github.com/fd1az/multichain-arb/business/pricing/di"
	"github.com/fd1az/multichain-arb/business/pricing/infra/chainlink"
	"github.com/fd1az/multichain-arb/business/pricing/infra/coinbase"
	"github.com/fd1az/multichain-arb/business/pricing/infra/coingecko"
	"github.com/fd1az/multichain-arb/business/pricing/infra/v2router"
	"github.com/fd1az/multichain-arb/internal/cache"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/di"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/monolith"
)

const decimalsCleanup = time.Hour

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers the fetchers and the aggregator.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pricingDI.DecimalsCache, func(di.ServiceRegistry) *chainlink.DecimalsCache {
		return cache.New[string, uint8](decimalsCleanup)
	})

	di.RegisterToken(c, pricingDI.Fetchers, func(sr di.ServiceRegistry) []app.Fetcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		fetchers, err := BuildFetchers(cfg, chainsDI.GetRegistry(sr), chainsDI.GetRPCPool(sr), pricingDI.GetDecimalsCache(sr), log)
		if err != nil {
			panic("failed to build price fetchers: " + err.Error())
		}
		return fetchers
	})

	di.RegisterToken(c, pricingDI.Aggregator, func(sr di.ServiceRegistry) *app.Aggregator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		agg, err := app.NewAggregator(pricingDI.GetFetchers(sr), cfg.Pricing.FetchTimeout, log)
		if err != nil {
			panic("failed to create aggregator: " + err.Error())
		}
		return agg
	})

	return nil
}

// BuildFetchers creates the sources in enumeration order: REST APIs, then one
// feed per chain, then every router of every DEX chain.
func BuildFetchers(
	cfg *config.Config,
	registry *chainsApp.Registry,
	callers chainsApp.CallerProvider,
	decimals *chainlink.DecimalsCache,
	log logger.LoggerInterface,
) ([]app.Fetcher, error) {
	var fetchers []app.Fetcher

	if cfg.Pricing.CoinGecko.Enabled {
		f, err := coingecko.NewFetcher(cfg.Pricing.CoinGecko, log)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, f)
	}

	if cfg.Pricing.Coinbase.Enabled {
		f, err := coinbase.NewFetcher(cfg.Pricing.Coinbase, log)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, f)
	}

	if cfg.Pricing.FeedsEnabled {
		opts := chainlink.Options{
			DecimalsTTL: cfg.Pricing.DecimalsTTL,
			StaleAfter:  cfg.Pricing.StaleAfter,
		}
		for _, chain := range registry.Chains() {
			f, err := chainlink.NewFetcher(chain, callers, decimals, opts, log)
			if err != nil {
				return nil, err
			}
			fetchers = append(fetchers, f)
		}
	}

	if cfg.Pricing.DEXEnabled {
		for _, set := range registry.DEXSets() {
			for _, dex := range set.DEXes {
				f, err := v2router.NewFetcher(set, dex, callers, log)
				if err != nil {
					return nil, err
				}
				fetchers = append(fetchers, f)
			}
		}
	}

	return fetchers, nil
}

// Startup resolves the aggregator so wiring errors surface at boot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	agg := pricingDI.GetAggregator(mono.Services())

	decimals := pricingDI.GetDecimalsCache(mono.Services())
	mono.OnClose(func() error {
		decimals.Close()
		return nil
	})

	mono.Logger().Info(ctx, "pricing module started", "sources", len(agg.Sources()))
	return nil
}
