package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	"github.com/fd1az/multichain-arb/internal/logger"
)

const meterName = "arbitrage"

// PollerState is the single-flight state of the poller.
type PollerState int32

const (
	StateIdle PollerState = iota
	StateFetching
)

func (s PollerState) String() string {
	if s == StateFetching {
		return "fetching"
	}
	return "idle"
}

type pollerMetrics struct {
	cycles   metric.Int64Counter
	skipped  metric.Int64Counter
	duration metric.Float64Histogram
}

// Poller starts a cycle on every tick and on manual triggers. At most one
// cycle runs at a time; a request that arrives while Fetching is skipped.
type Poller struct {
	runner   CycleRunner
	interval time.Duration
	log      logger.LoggerInterface
	metrics  *pollerMetrics

	state   atomic.Int32
	skipped atomic.Int64
	lastEnd atomic.Int64 // unix nanos of the last completed cycle

	manual chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewPoller creates a Poller.
func NewPoller(runner CycleRunner, interval time.Duration, log logger.LoggerInterface) (*Poller, error) {
	p := &Poller{
		runner:   runner,
		interval: interval,
		log:      log,
		manual:   make(chan struct{}, 1),
	}
	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return p, nil
}

func (p *Poller) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &pollerMetrics{}

	p.metrics.cycles, err = meter.Int64Counter(
		"cycles_total",
		metric.WithDescription("Completed cycles by trigger"),
	)
	if err != nil {
		return err
	}

	p.metrics.skipped, err = meter.Int64Counter(
		"cycles_skipped_total",
		metric.WithDescription("Cycle requests skipped because a cycle was in flight"),
	)
	if err != nil {
		return err
	}

	p.metrics.duration, err = meter.Float64Histogram(
		"cycle_duration_ms",
		metric.WithDescription("Cycle duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Start runs the first cycle immediately and then one per interval until Stop
// or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(ctx)

	p.log.Info(ctx, "poller started", "interval", p.interval)
}

// Trigger requests a manual cycle. It reports false when a request is already pending.
func (p *Poller) Trigger() bool {
	select {
	case p.manual <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop cancels the loop and waits for the in-flight cycle to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// State returns the current state.
func (p *Poller) State() PollerState {
	return PollerState(p.state.Load())
}

// Skipped returns how many cycle requests were skipped.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

// LastCompleted returns when the last cycle finished, zero before the first.
func (p *Poller) LastCompleted() time.Time {
	n := p.lastEnd.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tryStart(ctx, domain.TriggerTick)
	for {
		select {
		case <-ctx.Done():
			p.log.Info(context.Background(), "poller stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			p.tryStart(ctx, domain.TriggerTick)
		case <-p.manual:
			p.tryStart(ctx, domain.TriggerManual)
		}
	}
}

func (p *Poller) tryStart(ctx context.Context, trigger domain.Trigger) bool {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateFetching)) {
		p.skipped.Add(1)
		p.metrics.skipped.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", string(trigger))))
		p.log.Debug(ctx, "cycle skipped, previous still fetching", "trigger", trigger)
		return false
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.state.Store(int32(StateIdle))

		start := time.Now()
		p.runner.RunCycle(ctx, trigger)
		p.lastEnd.Store(time.Now().UnixNano())

		attrs := metric.WithAttributes(attribute.String("trigger", string(trigger)))
		p.metrics.cycles.Add(ctx, 1, attrs)
		p.metrics.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}()
	return true
}
