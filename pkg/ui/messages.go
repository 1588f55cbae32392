package ui

import (
	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// CycleMsg carries a published cycle result into the program.
type CycleMsg struct {
	Result domain.CycleResult
}

// SettingsMsg reports the outcome of a settings change.
type SettingsMsg struct {
	Settings domain.Settings
	Err      error
}

// RefreshMsg reports whether a manual refresh was accepted.
type RefreshMsg struct {
	Accepted bool
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// WelcomeCompleteMsg signals the welcome screen is done (timeout or keypress).
type WelcomeCompleteMsg struct{}
