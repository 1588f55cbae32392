// Package domain contains the chain and DEX descriptors monitored by the bot.
package domain

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/multichain-arb/internal/asset"
)

// RouterFamilyUniswapV2 is the getAmountsOut router ABI.
const RouterFamilyUniswapV2 = "uniswap-v2"

// ChainDescriptor is one monitored chain. Immutable after load.
type ChainDescriptor struct {
	ID          string
	DisplayName string
	EVMChainID  uint64
	RPCEndpoint string
	FeedAddress common.Address
	FeedPair    string
}

// DEX is a swap router on one chain.
type DEX struct {
	Name   string
	Family string
	Router common.Address
}

// DEXSet groups the routers of a chain with the tokens they quote.
// Stables are ordered by fallback priority.
type DEXSet struct {
	Chain     ChainDescriptor
	Pair      string
	Reference *asset.Asset
	Stables   []*asset.Asset
	DEXes     []DEX
}

// StableSymbols returns the stable symbols in priority order.
func (s DEXSet) StableSymbols() []string {
	out := make([]string, len(s.Stables))
	for i, st := range s.Stables {
		out[i] = st.Symbol()
	}
	return out
}
