package components

import (
	"fmt"
	"time"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// StatsComponent renders the cycle summary line.
type StatsComponent struct {
	stats     domain.CycleStats
	cycles    int
	opps      int
	trigger   domain.Trigger
	completed time.Time
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update records a displayed cycle.
func (s *StatsComponent) Update(res domain.CycleResult) {
	if res.Trigger != domain.TriggerSettings {
		s.cycles++
	}
	s.stats = res.Stats
	s.opps = len(res.Opportunities)
	s.trigger = res.Trigger
	s.completed = res.CompletedAt
}

// View renders the stats component.
func (s *StatsComponent) View(now time.Time) string {
	failed := valueStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	if s.stats.Failed > 0 {
		failed = errStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	}

	last := "never"
	if !s.completed.IsZero() {
		last = fmt.Sprintf("%s (%s ago, %s)", s.completed.Format("15:04:05"), now.Sub(s.completed).Round(time.Second), s.trigger)
	}

	return fmt.Sprintf("Cycles: %s  │  Sources: %s ok / %s failed  │  Opportunities: %s  │  Last refresh: %s",
		valueStyle.Render(fmt.Sprintf("%d", s.cycles)),
		okStyle.Render(fmt.Sprintf("%d", s.stats.Succeeded)),
		failed,
		valueStyle.Render(fmt.Sprintf("%d", s.opps)),
		dimStyle.Render(last),
	)
}
