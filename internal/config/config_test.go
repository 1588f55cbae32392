package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Len(t, cfg.Chains, 12)
	assert.Len(t, cfg.DEXes, 4)
	assert.Equal(t, 5*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 15*time.Second, cfg.Pricing.FetchTimeout)
	assert.Equal(t, 5*time.Second, cfg.Arbitrage.Highlight)
	assert.Equal(t, 1000.0, cfg.Arbitrage.TradeAmount)
	assert.Equal(t, "0.1", cfg.Arbitrage.MinProfitDecimal().String())
	assert.Equal(t, 0.002, cfg.Arbitrage.ServiceFeeRate)
	assert.Equal(t, 30, cfg.Pricing.CoinGecko.RateLimitRPM)

	bnb, ok := cfg.Chain("bnb")
	require.True(t, ok)
	assert.Equal(t, uint64(56), bnb.ChainID)
	assert.Equal(t, "BNB/USD", bnb.FeedPair)

	for _, d := range cfg.DEXes {
		for _, r := range d.Routers {
			assert.Equal(t, FamilyUniswapV2, r.Family, "%s/%s", d.Chain, r.Name)
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ARB_RPC_ETHEREUM", "http://localhost:8545")
	t.Setenv("ARB_TRADE_AMOUNT", "5000")
	t.Setenv("ARB_POLL_INTERVAL", "30s")
	t.Setenv("ARB_ENABLED_CHAINS", "bnb,polygon")

	cfg, err := Load("")
	require.NoError(t, err)

	eth, _ := cfg.Chain("ethereum")
	assert.Equal(t, "http://localhost:8545", eth.RPCURL)
	assert.Equal(t, 5000.0, cfg.Arbitrage.TradeAmount)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, []string{"bnb", "polygon"}, cfg.Pricing.EnabledChains)
	assert.True(t, cfg.ChainEnabled("bnb"))
	assert.False(t, cfg.ChainEnabled("scroll"))
}

func TestLoad_FileReplacesRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
chains:
  - id: local
    name: Local
    rpc_url: http://127.0.0.1:8545
    feed_address: "0x0567F2323251f0Aab15c8dFb1967E4e8A7D42aeE"
arbitrage:
  min_profit: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, "local", cfg.Chains[0].ID)
	assert.Equal(t, "BNB/USD", cfg.Chains[0].FeedPair)
	assert.Empty(t, cfg.DEXes)
	assert.Equal(t, 2.5, cfg.Arbitrage.MinProfit)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Chains:  DefaultChains(),
			DEXes:   DefaultDEXes(),
			Poller:  PollerConfig{Interval: time.Second},
			Pricing: PricingConfig{FetchTimeout: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"duplicate_chain", func(c *Config) { c.Chains = append(c.Chains, c.Chains[0]) }},
		{"bad_feed_address", func(c *Config) { c.Chains[0].FeedAddress = "0x123" }},
		{"missing_rpc", func(c *Config) { c.Chains[1].RPCURL = "" }},
		{"dex_unknown_chain", func(c *Config) { c.DEXes[0].Chain = "solana" }},
		{"empty_stables", func(c *Config) { c.DEXes[0].Stables = nil }},
		{"bad_family", func(c *Config) { c.DEXes[0].Routers[0].Family = "uniswap-v3" }},
		{"zero_threshold", func(c *Config) { c.Arbitrage.MinProfit = 0 }},
		{"negative_threshold", func(c *Config) { c.Arbitrage.MinProfit = -1 }},
		{"zero_interval", func(c *Config) { c.Poller.Interval = 0 }},
		{"unknown_enabled_chain", func(c *Config) { c.Pricing.EnabledChains = []string{"tron"} }},
	}

	require.NoError(t, base().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
