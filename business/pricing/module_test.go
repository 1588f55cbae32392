package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainsApp "github.com/fd1az/multichain-arb/business/chains/app"
	"github.com/fd1az/multichain-arb/business/chains/infra/rpc"
	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/asset"
	"github.com/fd1az/multichain-arb/internal/cache"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/logger"
)

func TestBuildFetchers_EnumerationOrder(t *testing.T) {
	cfg := &config.Config{
		Chains: config.DefaultChains(),
		DEXes:  config.DefaultDEXes(),
		Pricing: config.PricingConfig{
			CoinGecko:    config.RESTSourceConfig{Enabled: true, BaseURL: "http://localhost"},
			Coinbase:     config.RESTSourceConfig{Enabled: true, BaseURL: "http://localhost"},
			FeedsEnabled: true,
			DEXEnabled:   true,
		},
	}

	registry, err := chainsApp.NewRegistry(cfg, asset.NewRegistry())
	require.NoError(t, err)
	pool := rpc.NewPool(registry, cfg.RPC, logger.NewNop())
	decimals := cache.New[string, uint8](0)
	defer decimals.Close()

	fetchers, err := BuildFetchers(cfg, registry, pool, decimals, logger.NewNop())
	require.NoError(t, err)

	// 2 REST + 12 feeds + (2 + 3 + 3 + 2) routers.
	require.Len(t, fetchers, 24)
	assert.Equal(t, domain.SourceID("coingecko"), fetchers[0].Source().ID)
	assert.Equal(t, domain.SourceID("coinbase"), fetchers[1].Source().ID)
	assert.Equal(t, domain.FeedSourceID("arbitrum"), fetchers[2].Source().ID)
	assert.Equal(t, domain.FeedSourceID("scroll"), fetchers[13].Source().ID)
	assert.Equal(t, domain.DEXSourceID("arbitrum", "sushiswap"), fetchers[14].Source().ID)
	assert.Equal(t, domain.DEXSourceID("ethereum", "sushiswap"), fetchers[23].Source().ID)
	assert.Equal(t, "WETH/USD", fetchers[14].Source().Pair)
}

func TestBuildFetchers_Disabled(t *testing.T) {
	cfg := &config.Config{Chains: config.DefaultChains(), DEXes: config.DefaultDEXes()}
	registry, err := chainsApp.NewRegistry(cfg, asset.NewRegistry())
	require.NoError(t, err)

	fetchers, err := BuildFetchers(cfg, registry, rpc.NewPool(registry, cfg.RPC, logger.NewNop()), nil, logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, fetchers)
}
