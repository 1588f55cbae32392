package asset

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe set of known tokens.
type Registry struct {
	mu       sync.RWMutex
	byID     map[ID]*Asset
	bySymbol map[string]*Asset // "<chainID>/<lower symbol>"
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[ID]*Asset),
		bySymbol: make(map[string]*Asset),
	}
}

func symbolKey(chainID uint64, symbol string) string {
	return fmt.Sprintf("%d/%s", chainID, strings.ToLower(symbol))
}

// Register adds a token and returns the registered instance. Registering the
// same token twice returns the first instance; conflicting decimals are an error.
func (r *Registry) Register(a *Asset) (*Asset, error) {
	if a == nil {
		return nil, ErrNilAsset
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[a.ID()]; ok {
		if existing.Decimals() != a.Decimals() {
			return nil, fmt.Errorf("%w: %s has %d, got %d", ErrDecimalsMismatch, a.ID(), existing.Decimals(), a.Decimals())
		}
		return existing, nil
	}

	r.byID[a.ID()] = a
	r.bySymbol[symbolKey(a.ID().ChainID(), a.Symbol())] = a
	return a, nil
}

// Get retrieves a token by ID.
func (r *Registry) Get(id ID) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	return a, ok
}

// Token retrieves a token by chain and address.
func (r *Registry) Token(chainID uint64, addr common.Address) (*Asset, bool) {
	return r.Get(NewID(chainID, addr))
}

// BySymbol retrieves a token by chain and case-insensitive symbol.
func (r *Registry) BySymbol(chainID uint64, symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.bySymbol[symbolKey(chainID, symbol)]
	return a, ok
}

// All returns every token ordered by ID.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Asset, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out
}

// Count returns the number of tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
