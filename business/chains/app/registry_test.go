package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/asset"
	"github.com/fd1az/multichain-arb/internal/config"
)

func defaultConfig() *config.Config {
	return &config.Config{
		Chains: config.DefaultChains(),
		DEXes:  config.DefaultDEXes(),
	}
}

func TestNewRegistry_Defaults(t *testing.T) {
	assets := asset.NewRegistry()
	r, err := NewRegistry(defaultConfig(), assets)
	require.NoError(t, err)

	chains := r.Chains()
	require.Len(t, chains, 12)
	assert.Equal(t, "arbitrum", chains[0].ID)
	assert.Equal(t, "scroll", chains[11].ID)

	bnb, err := r.Chain("bnb")
	require.NoError(t, err)
	assert.Equal(t, uint64(56), bnb.EVMChainID)
	assert.Equal(t, "0x0567F2323251f0Aab15c8dFb1967E4e8A7D42aeE", bnb.FeedAddress.Hex())

	sets := r.DEXSets()
	require.Len(t, sets, 4)
	assert.Equal(t, []string{"usdt", "usdc", "busd"}, sets[2].StableSymbols())
	assert.Equal(t, uint8(18), sets[2].Stables[0].Decimals())
	assert.Equal(t, uint8(6), sets[3].Stables[0].Decimals(), "ethereum usdt")

	// Reference and stables of every DEX chain end up in the asset registry.
	assert.Equal(t, 15, assets.Count())
}

func TestNewRegistry_UnknownChain(t *testing.T) {
	r, err := NewRegistry(defaultConfig(), asset.NewRegistry())
	require.NoError(t, err)

	_, err = r.Chain("solana")
	assert.True(t, apperror.HasCode(err, apperror.CodeChainNotFound))
}

func TestNewRegistry_EnabledChainsFilter(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pricing.EnabledChains = []string{"bnb", "polygon"}

	r, err := NewRegistry(cfg, asset.NewRegistry())
	require.NoError(t, err)

	assert.Len(t, r.Chains(), 2)
	require.Len(t, r.DEXSets(), 1)
	assert.Equal(t, "bnb", r.DEXSets()[0].Chain.ID)
}

func TestNewRegistry_StablesFollowPriority(t *testing.T) {
	cfg := defaultConfig()
	bnb := &cfg.DEXes[2]
	bnb.Stables = []config.TokenConfig{bnb.Stables[2], bnb.Stables[1], bnb.Stables[0]}

	r, err := NewRegistry(cfg, asset.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"usdt", "usdc", "busd"}, r.DEXSets()[2].StableSymbols())
}
