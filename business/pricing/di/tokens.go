// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/multichain-arb/business/pricing/app"
	"github.com/fd1az/multichain-arb/business/pricing/infra/chainlink"
	"github.com/fd1az/multichain-arb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Aggregator = di.NewToken[*app.Aggregator]("pricing.Aggregator")
)

// Private dependency tokens - internal to pricing module
var (
	Fetchers      = di.NewToken[[]app.Fetcher]("pricing:fetchers")
	DecimalsCache = di.NewToken[*chainlink.DecimalsCache]("pricing:decimalsCache")
)

func GetAggregator(c di.ServiceRegistry) *app.Aggregator {
	return di.GetToken(c, Aggregator)
}

func GetFetchers(c di.ServiceRegistry) []app.Fetcher {
	return di.GetToken(c, Fetchers)
}

func GetDecimalsCache(c di.ServiceRegistry) *chainlink.DecimalsCache {
	return di.GetToken(c, DecimalsCache)
}
