package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/logger"
)

const resultBuffer = 8

// Pipeline runs collect, compute, mark and publish for one cycle, and
// recomputes the last table when settings change.
type Pipeline struct {
	collector Collector
	engine    *Engine
	tracker   *ChangeTracker
	settings  *SettingsStore
	log       logger.LoggerInterface
	now       func() time.Time

	out chan domain.CycleResult

	// mu serializes compute, mark and publish so results leave in order.
	mu        sync.Mutex
	lastTable *pricingDomain.PriceTable
	last      *domain.CycleResult
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	collector Collector,
	engine *Engine,
	tracker *ChangeTracker,
	settings *SettingsStore,
	log logger.LoggerInterface,
) *Pipeline {
	return &Pipeline{
		collector: collector,
		engine:    engine,
		tracker:   tracker,
		settings:  settings,
		log:       log,
		now:       time.Now,
		out:       make(chan domain.CycleResult, resultBuffer),
	}
}

// Results is the single channel every published CycleResult goes through.
func (p *Pipeline) Results() <-chan domain.CycleResult {
	return p.out
}

// RunCycle collects a fresh price table and publishes its result.
func (p *Pipeline) RunCycle(ctx context.Context, trigger domain.Trigger) domain.CycleResult {
	cycleID := uuid.NewString()
	started := p.now()
	table := p.collector.Collect(ctx, cycleID)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastTable = table
	return p.publish(ctx, cycleID, trigger, started, table)
}

// Recompute reruns the engine on the last table with the current settings
// without refetching. It reports false before the first cycle.
func (p *Pipeline) Recompute(ctx context.Context) (domain.CycleResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastTable == nil {
		return domain.CycleResult{}, false
	}
	return p.publish(ctx, p.lastTable.CycleID(), domain.TriggerSettings, p.now(), p.lastTable), true
}

// Last returns the most recently published result.
func (p *Pipeline) Last() (domain.CycleResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last == nil {
		return domain.CycleResult{}, false
	}
	return *p.last, true
}

func (p *Pipeline) publish(
	ctx context.Context,
	cycleID string,
	trigger domain.Trigger,
	started time.Time,
	table *pricingDomain.PriceTable,
) domain.CycleResult {
	settings := p.settings.Get()
	now := p.now()

	opps := p.tracker.Mark(p.engine.Compute(table, settings), now)
	result := domain.CycleResult{
		CycleID:       cycleID,
		Trigger:       trigger,
		StartedAt:     started,
		CompletedAt:   now,
		Table:         table,
		Opportunities: opps,
		Settings:      settings,
		Stats:         domain.StatsOf(table),
	}
	p.last = &result

	select {
	case p.out <- result:
	case <-ctx.Done():
		p.log.Warn(ctx, "cycle result dropped", "cycle_id", cycleID, "reason", ctx.Err())
	}

	p.log.Debug(ctx, "cycle published",
		"cycle_id", cycleID,
		"trigger", trigger,
		"succeeded", result.Stats.Succeeded,
		"failed", result.Stats.Failed,
		"opportunities", len(opps))

	return result
}
