package app

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/multichain-arb/business/chains/domain"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/asset"
	"github.com/fd1az/multichain-arb/internal/config"
)

// Registry is the read-only set of enabled chains and DEX routers, in config order.
type Registry struct {
	chains []domain.ChainDescriptor
	byID   map[string]int
	dexes  []domain.DEXSet
}

// NewRegistry builds the registry from configuration. Chains excluded by
// pricing.enabled_chains are left out together with their DEXes. DEX tokens are
// registered in assets.
func NewRegistry(cfg *config.Config, assets *asset.Registry) (*Registry, error) {
	r := &Registry{byID: make(map[string]int)}

	for _, ch := range cfg.Chains {
		if !cfg.ChainEnabled(ch.ID) {
			continue
		}
		r.byID[ch.ID] = len(r.chains)
		r.chains = append(r.chains, domain.ChainDescriptor{
			ID:          ch.ID,
			DisplayName: ch.Name,
			EVMChainID:  ch.ChainID,
			RPCEndpoint: ch.RPCURL,
			FeedAddress: common.HexToAddress(ch.FeedAddress),
			FeedPair:    ch.FeedPair,
		})
	}

	for _, d := range cfg.DEXes {
		chain, err := r.Chain(d.Chain)
		if err != nil {
			continue
		}

		set, err := buildDEXSet(chain, d, assets)
		if err != nil {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithCause(err),
				apperror.WithContextf("dexes.%s", d.Chain))
		}
		r.dexes = append(r.dexes, set)
	}

	return r, nil
}

func buildDEXSet(chain domain.ChainDescriptor, d config.DEXChainConfig, assets *asset.Registry) (domain.DEXSet, error) {
	token := func(t config.TokenConfig) (*asset.Asset, error) {
		a, err := asset.NewToken(chain.EVMChainID, common.HexToAddress(t.Address), t.Symbol, t.Decimals)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", t.Symbol, err)
		}
		return assets.Register(a)
	}

	ref, err := token(d.Reference)
	if err != nil {
		return domain.DEXSet{}, err
	}

	stables := make([]*asset.Asset, 0, len(d.Stables))
	for _, s := range d.Stables {
		a, err := token(s)
		if err != nil {
			return domain.DEXSet{}, err
		}
		stables = append(stables, a)
	}
	sortByPriority(stables)

	dexes := make([]domain.DEX, 0, len(d.Routers))
	for _, rt := range d.Routers {
		dexes = append(dexes, domain.DEX{
			Name:   rt.Name,
			Family: rt.Family,
			Router: rt.AddressHex(),
		})
	}

	return domain.DEXSet{
		Chain:     chain,
		Pair:      d.Pair,
		Reference: ref,
		Stables:   stables,
		DEXes:     dexes,
	}, nil
}

// sortByPriority orders stables by config.StablePriority; unknown symbols keep
// their relative order at the end.
func sortByPriority(stables []*asset.Asset) {
	rank := func(a *asset.Asset) int {
		if i := slices.Index(config.StablePriority, strings.ToLower(a.Symbol())); i >= 0 {
			return i
		}
		return len(config.StablePriority)
	}
	sort.SliceStable(stables, func(i, j int) bool { return rank(stables[i]) < rank(stables[j]) })
}

// Chains returns the enabled chains in config order.
func (r *Registry) Chains() []domain.ChainDescriptor {
	return slices.Clone(r.chains)
}

// Chain returns the chain with the given id.
func (r *Registry) Chain(id string) (domain.ChainDescriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.ChainDescriptor{}, apperror.New(apperror.CodeChainNotFound, apperror.WithContext(id))
	}
	return r.chains[i], nil
}

// DEXSets returns the DEX groups in config order.
func (r *Registry) DEXSets() []domain.DEXSet {
	return slices.Clone(r.dexes)
}
