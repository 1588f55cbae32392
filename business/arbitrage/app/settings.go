package app

import (
	"sync"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// SettingsStore holds the current settings.
type SettingsStore struct {
	mu sync.RWMutex
	s  domain.Settings
}

// NewSettingsStore validates initial and stores it.
func NewSettingsStore(initial domain.Settings) (*SettingsStore, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &SettingsStore{s: initial}, nil
}

// Get returns a snapshot.
func (st *SettingsStore) Get() domain.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Update applies fn atomically. The result is stored only if it validates.
func (st *SettingsStore) Update(fn func(domain.Settings) domain.Settings) (domain.Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := fn(st.s)
	if err := next.Validate(); err != nil {
		return st.s, err
	}
	st.s = next
	return next, nil
}
