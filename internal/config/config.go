// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// FamilyUniswapV2 is the only supported router ABI family.
const FamilyUniswapV2 = "uniswap-v2"

// Config holds all application configuration.
type Config struct {
	App       AppConfig        `mapstructure:"app"`
	Pricing   PricingConfig    `mapstructure:"pricing"`
	Chains    []ChainConfig    `mapstructure:"chains"`
	DEXes     []DEXChainConfig `mapstructure:"dexes"`
	RPC       RPCConfig        `mapstructure:"rpc"`
	Arbitrage ArbitrageConfig  `mapstructure:"arbitrage"`
	Poller    PollerConfig     `mapstructure:"poller"`
	Stream    StreamConfig     `mapstructure:"stream"`
	Health    HealthConfig     `mapstructure:"health"`
	Telemetry TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	// LogFile receives logs while the TUI owns the terminal. Empty discards them.
	LogFile string `mapstructure:"log_file"`
}

// PricingConfig configures the price sources.
type PricingConfig struct {
	CoinGecko RESTSourceConfig `mapstructure:"coingecko"`
	Coinbase  RESTSourceConfig `mapstructure:"coinbase"`

	FeedsEnabled bool `mapstructure:"feeds_enabled"`
	DEXEnabled   bool `mapstructure:"dex_enabled"`
	// EnabledChains restricts feeds and DEX quotes to these chain ids. Empty means all.
	EnabledChains []string `mapstructure:"enabled_chains"`

	// FetchTimeout bounds each fetch. Zero disables it.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// StaleAfter flags feed answers older than this. Zero disables it.
	StaleAfter  time.Duration `mapstructure:"stale_after"`
	DecimalsTTL time.Duration `mapstructure:"decimals_ttl"`
}

// RESTSourceConfig configures a centralized price API.
type RESTSourceConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseURL      string        `mapstructure:"base_url"`
	Path         string        `mapstructure:"path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimitRPM int           `mapstructure:"rate_limit_rpm"`
}

// ChainConfig describes one chain and its price feed.
type ChainConfig struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	ChainID     uint64 `mapstructure:"chain_id"`
	RPCURL      string `mapstructure:"rpc_url"`
	FeedAddress string `mapstructure:"feed_address"`
	FeedPair    string `mapstructure:"feed_pair"`
}

// DEXChainConfig groups the routers of one chain with the tokens they quote.
type DEXChainConfig struct {
	Chain     string         `mapstructure:"chain"`
	Pair      string         `mapstructure:"pair"`
	Reference TokenConfig    `mapstructure:"reference"`
	Stables   []TokenConfig  `mapstructure:"stables"`
	Routers   []RouterConfig `mapstructure:"routers"`
}

// TokenConfig is an ERC-20 token.
type TokenConfig struct {
	Symbol   string `mapstructure:"symbol"`
	Address  string `mapstructure:"address"`
	Decimals uint8  `mapstructure:"decimals"`
}

// RouterConfig is a swap router.
type RouterConfig struct {
	Name    string `mapstructure:"name"`
	Family  string `mapstructure:"family"`
	Address string `mapstructure:"address"`
}

// AddressHex returns the router address as common.Address.
func (r RouterConfig) AddressHex() common.Address {
	return common.HexToAddress(r.Address)
}

// RPCConfig holds per-endpoint protection settings.
type RPCConfig struct {
	RateLimitRPM    int           `mapstructure:"rate_limit_rpm"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// ArbitrageConfig holds the initial settings and the fee model.
type ArbitrageConfig struct {
	TradeAmount    float64       `mapstructure:"trade_amount"`
	MinProfit      float64       `mapstructure:"min_profit"`
	ServiceFeeRate float64       `mapstructure:"service_fee_rate"`
	BotFee         float64       `mapstructure:"bot_fee"`
	GasEstimate    float64       `mapstructure:"gas_estimate"`
	Highlight      time.Duration `mapstructure:"highlight"`
	TUIMode        bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// TradeAmountDecimal returns the trade amount as decimal.Decimal.
func (c *ArbitrageConfig) TradeAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TradeAmount)
}

// MinProfitDecimal returns the threshold as decimal.Decimal.
func (c *ArbitrageConfig) MinProfitDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfit)
}

// PollerConfig holds the cycle cadence.
type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// StreamConfig holds the cycle stream server settings.
type StreamConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           int      `mapstructure:"port"`
	OriginPatterns []string `mapstructure:"origin_patterns"`
}

// HealthConfig holds the health server settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceExporter  string `mapstructure:"trace_exporter"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	MetricsReader  string `mapstructure:"metrics_reader"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults(v)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.log_file", "ARB_LOG_FILE")

	// Pricing
	v.BindEnv("pricing.coingecko.base_url", "ARB_COINGECKO_URL")
	v.BindEnv("pricing.coingecko.enabled", "ARB_COINGECKO_ENABLED")
	v.BindEnv("pricing.coinbase.base_url", "ARB_COINBASE_URL")
	v.BindEnv("pricing.coinbase.enabled", "ARB_COINBASE_ENABLED")
	v.BindEnv("pricing.enabled_chains", "ARB_ENABLED_CHAINS")
	v.BindEnv("pricing.fetch_timeout", "ARB_FETCH_TIMEOUT")
	v.BindEnv("pricing.stale_after", "ARB_STALE_AFTER")

	// Per-chain RPC overrides, e.g. ARB_RPC_ETHEREUM.
	for _, ch := range DefaultChains() {
		v.BindEnv("rpc_urls."+ch.ID, "ARB_RPC_"+strings.ToUpper(ch.ID))
	}

	// Arbitrage
	v.BindEnv("arbitrage.trade_amount", "ARB_TRADE_AMOUNT")
	v.BindEnv("arbitrage.min_profit", "ARB_MIN_PROFIT")

	// Poller
	v.BindEnv("poller.interval", "ARB_POLL_INTERVAL")

	// Servers
	v.BindEnv("stream.enabled", "ARB_STREAM_ENABLED")
	v.BindEnv("stream.port", "ARB_STREAM_PORT")
	v.BindEnv("health.port", "ARB_HEALTH_PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.trace_exporter", "ARB_OTEL_TRACE_EXPORTER")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "multichain-arb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("pricing.coingecko.enabled", true)
	v.SetDefault("pricing.coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("pricing.coingecko.path", "/simple/price")
	v.SetDefault("pricing.coingecko.timeout", "10s")
	v.SetDefault("pricing.coingecko.rate_limit_rpm", 30) // free tier
	v.SetDefault("pricing.coinbase.enabled", true)
	v.SetDefault("pricing.coinbase.base_url", "https://api.coinbase.com")
	v.SetDefault("pricing.coinbase.path", "/v2/prices/BNB-USD/spot")
	v.SetDefault("pricing.coinbase.timeout", "10s")
	v.SetDefault("pricing.coinbase.rate_limit_rpm", 600)
	v.SetDefault("pricing.feeds_enabled", true)
	v.SetDefault("pricing.dex_enabled", true)
	v.SetDefault("pricing.fetch_timeout", "15s")
	v.SetDefault("pricing.stale_after", "0s")
	v.SetDefault("pricing.decimals_ttl", "24h")

	v.SetDefault("rpc.rate_limit_rpm", 120)
	v.SetDefault("rpc.dial_timeout", "10s")
	v.SetDefault("rpc.breaker_failures", 5)
	v.SetDefault("rpc.breaker_timeout", "30s")

	v.SetDefault("arbitrage.trade_amount", 1000)
	v.SetDefault("arbitrage.min_profit", 0.1)
	v.SetDefault("arbitrage.service_fee_rate", 0.002)
	v.SetDefault("arbitrage.bot_fee", 1.0)
	v.SetDefault("arbitrage.gas_estimate", 2.0)
	v.SetDefault("arbitrage.highlight", "5s")

	v.SetDefault("poller.interval", "5s")

	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.port", 8090)
	v.SetDefault("health.port", 8081)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "multichain-arb")
	v.SetDefault("telemetry.trace_exporter", "zipkin")
	v.SetDefault("telemetry.metrics_reader", "prometheus")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// applyDefaults fills the registries from compiled-in tables when the file does not
// set them and applies per-chain RPC overrides. Default DEXes are kept only for
// chains that are configured.
func (c *Config) applyDefaults(v *viper.Viper) {
	if !v.IsSet("chains") {
		c.Chains = DefaultChains()
	}
	if !v.IsSet("dexes") {
		c.DEXes = c.DEXes[:0]
		for _, d := range DefaultDEXes() {
			if _, ok := c.Chain(d.Chain); ok {
				c.DEXes = append(c.DEXes, d)
			}
		}
	}

	for i := range c.Chains {
		if u := v.GetString("rpc_urls." + c.Chains[i].ID); u != "" {
			c.Chains[i].RPCURL = u
		}
		if c.Chains[i].FeedPair == "" {
			c.Chains[i].FeedPair = defaultFeedPair
		}
	}

	for i := range c.DEXes {
		for j := range c.DEXes[i].Routers {
			if c.DEXes[i].Routers[j].Family == "" {
				c.DEXes[i].Routers[j].Family = FamilyUniswapV2
			}
		}
	}

	// Env lists arrive as one comma separated element.
	var chains []string
	for _, entry := range c.Pricing.EnabledChains {
		for _, id := range strings.Split(entry, ",") {
			if id = strings.TrimSpace(id); id != "" {
				chains = append(chains, id)
			}
		}
	}
	c.Pricing.EnabledChains = chains
}

// ChainEnabled reports whether feeds and DEX quotes should run on id.
func (c *Config) ChainEnabled(id string) bool {
	return len(c.Pricing.EnabledChains) == 0 || slices.Contains(c.Pricing.EnabledChains, id)
}

// Chain returns the chain config for id.
func (c *Config) Chain(id string) (ChainConfig, bool) {
	for _, ch := range c.Chains {
		if ch.ID == id {
			return ch, true
		}
	}
	return ChainConfig{}, false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Chains))
	for _, ch := range c.Chains {
		if ch.ID == "" {
			return fmt.Errorf("chains: id is required")
		}
		if seen[ch.ID] {
			return fmt.Errorf("chains: duplicate id %q", ch.ID)
		}
		seen[ch.ID] = true
		if ch.RPCURL == "" {
			return fmt.Errorf("chains.%s.rpc_url is required", ch.ID)
		}
		if !common.IsHexAddress(ch.FeedAddress) {
			return fmt.Errorf("invalid chains.%s.feed_address: %s", ch.ID, ch.FeedAddress)
		}
	}

	for _, d := range c.DEXes {
		if !seen[d.Chain] {
			return fmt.Errorf("dexes: unknown chain %q", d.Chain)
		}
		if !common.IsHexAddress(d.Reference.Address) {
			return fmt.Errorf("invalid dexes.%s.reference.address: %s", d.Chain, d.Reference.Address)
		}
		if len(d.Stables) == 0 {
			return fmt.Errorf("dexes.%s.stables cannot be empty", d.Chain)
		}
		for _, s := range d.Stables {
			if !common.IsHexAddress(s.Address) {
				return fmt.Errorf("invalid dexes.%s stable %s address: %s", d.Chain, s.Symbol, s.Address)
			}
		}
		for _, r := range d.Routers {
			if r.Family != FamilyUniswapV2 {
				return fmt.Errorf("dexes.%s.%s: unsupported router family %q", d.Chain, r.Name, r.Family)
			}
			if !common.IsHexAddress(r.Address) {
				return fmt.Errorf("invalid dexes.%s.%s router address: %s", d.Chain, r.Name, r.Address)
			}
		}
	}

	for _, id := range c.Pricing.EnabledChains {
		if !seen[id] {
			return fmt.Errorf("pricing.enabled_chains: unknown chain %q", id)
		}
	}

	if c.Pricing.FetchTimeout < 0 {
		return fmt.Errorf("pricing.fetch_timeout cannot be negative")
	}
	if c.Poller.Interval <= 0 {
		return fmt.Errorf("poller.interval must be positive")
	}
	if c.Arbitrage.MinProfit <= 0 {
		return fmt.Errorf("arbitrage.min_profit must be positive")
	}
	if c.Arbitrage.ServiceFeeRate < 0 || c.Arbitrage.BotFee < 0 || c.Arbitrage.GasEstimate < 0 {
		return fmt.Errorf("arbitrage fee model values cannot be negative")
	}
	return nil
}
