// Package app contains the arbitrage engine, the change tracker, the cycle
// pipeline and the poller that drives it.
package app

import (
	"context"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
)

// Collector produces the price table of one cycle.
type Collector interface {
	Collect(ctx context.Context, cycleID string) *pricingDomain.PriceTable
}

// Reporter presents published cycle results.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Publish hands over one immutable cycle result. It must not block for long.
	Publish(result domain.CycleResult)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// CycleRunner runs one full cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context, trigger domain.Trigger) domain.CycleResult
}
