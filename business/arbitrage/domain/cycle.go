package domain

import (
	"time"

	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
)

// Trigger is what started a cycle.
type Trigger string

const (
	TriggerTick     Trigger = "tick"
	TriggerManual   Trigger = "manual"
	TriggerSettings Trigger = "settings"
)

// CycleStats summarizes the price table of a cycle.
type CycleStats struct {
	Sources   int `json:"sources"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// CycleResult is the immutable output of one poll cycle or one settings recompute.
type CycleResult struct {
	CycleID       string                    `json:"cycle_id"`
	Trigger       Trigger                   `json:"trigger"`
	StartedAt     time.Time                 `json:"started_at"`
	CompletedAt   time.Time                 `json:"completed_at"`
	Table         *pricingDomain.PriceTable `json:"table"`
	Opportunities []Opportunity             `json:"opportunities"`
	Settings      Settings                  `json:"settings"`
	Stats         CycleStats                `json:"stats"`
}

// StatsOf counts the sources of table.
func StatsOf(table *pricingDomain.PriceTable) CycleStats {
	ok := len(table.Successful())
	return CycleStats{
		Sources:   table.Len(),
		Succeeded: ok,
		Failed:    table.Len() - ok,
	}
}
