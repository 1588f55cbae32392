package ui

import (
	"context"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// Controller is what the dashboard drives. Calls run off the Update loop.
type Controller interface {
	Settings() domain.Settings
	FeeModel() domain.FeeModel
	StepTradeAmount(ctx context.Context, steps int) (domain.Settings, error)
	StepMinProfit(ctx context.Context, steps int) (domain.Settings, error)
	Refresh() bool
	Fetching() bool
}

// ErrorEntry is one failed fetch shown in the error panel.
type ErrorEntry struct {
	CycleID string
	Source  string
	Detail  string
}

const maxErrors = 6
