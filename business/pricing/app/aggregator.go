package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/apm"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/logger"
)

const meterName = "pricing"

type aggregatorMetrics struct {
	fetches  metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// Aggregator fans out to every fetcher once per cycle and assembles the results
// into a PriceTable in fetcher order.
type Aggregator struct {
	fetchers []Fetcher
	timeout  time.Duration
	log      logger.LoggerInterface
	tracer   apm.Tracer
	metrics  *aggregatorMetrics

	// inFlight holds the ids of sources whose fetch has not returned yet.
	inFlight sync.Map
}

// NewAggregator creates an aggregator. A zero timeout disables the per-fetch bound.
func NewAggregator(fetchers []Fetcher, timeout time.Duration, log logger.LoggerInterface) (*Aggregator, error) {
	seen := make(map[domain.SourceID]bool, len(fetchers))
	for _, f := range fetchers {
		id := f.Source().ID
		if seen[id] {
			return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithContextf("duplicate source %s", id))
		}
		seen[id] = true
	}

	a := &Aggregator{
		fetchers: fetchers,
		timeout:  timeout,
		log:      log,
		tracer:   apm.NewTracer("pricing.aggregator"),
	}
	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return a, nil
}

func (a *Aggregator) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	a.metrics = &aggregatorMetrics{}

	a.metrics.fetches, err = meter.Int64Counter(
		"price_fetches_total",
		metric.WithDescription("Price fetches by source kind and status"),
	)
	if err != nil {
		return err
	}

	a.metrics.failures, err = meter.Int64Counter(
		"price_fetch_failures_total",
		metric.WithDescription("Failed price fetches by error kind"),
	)
	if err != nil {
		return err
	}

	a.metrics.latency, err = meter.Float64Histogram(
		"price_fetch_latency_ms",
		metric.WithDescription("Price fetch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Sources returns the descriptors of every fetcher in enumeration order.
func (a *Aggregator) Sources() []domain.SourceDescriptor {
	out := make([]domain.SourceDescriptor, len(a.fetchers))
	for i, f := range a.fetchers {
		out[i] = f.Source()
	}
	return out
}

// Collect runs one cycle. Every fetcher runs concurrently and writes only its
// own slot; one failure never cancels the others. Collect returns after every
// fetch has produced an observation.
func (a *Aggregator) Collect(ctx context.Context, cycleID string) *domain.PriceTable {
	ctx, span := a.tracer.StartSpanFromContext(ctx, "pricing.collect")
	defer span.End()
	span.SetAttributes(
		attribute.String("cycle_id", cycleID),
		attribute.Int("sources", len(a.fetchers)),
	)

	started := time.Now()
	results := make([]domain.PriceObservation, len(a.fetchers))

	var g errgroup.Group
	for i, f := range a.fetchers {
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	table := domain.NewPriceTable(cycleID, started, time.Now(), results)

	failed := len(table.Failed())
	span.SetAttributes(attribute.Int("failed", failed))
	if failed == table.Len() && failed > 0 {
		span.SetStatus(codes.Error, "every source failed")
	}

	a.log.Debug(ctx, "price cycle collected",
		"cycle_id", cycleID,
		"sources", table.Len(),
		"failed", failed,
		"elapsed", time.Since(started))

	return table
}

// fetchOne runs a single fetcher with the in-flight guard, the per-fetch
// timeout and panic recovery. A fetcher that ignores its context is abandoned
// at the deadline and keeps its in-flight slot until it returns.
func (a *Aggregator) fetchOne(ctx context.Context, f Fetcher) domain.PriceObservation {
	src := f.Source()

	if _, busy := a.inFlight.LoadOrStore(src.ID, struct{}{}); busy {
		obs := domain.ErrorObservation(src, apperror.New(apperror.CodeFetchInFlight,
			apperror.WithContext("fetch already in flight")))
		a.record(ctx, obs)
		return obs
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan domain.PriceObservation, 1)

	go func() {
		defer a.inFlight.Delete(src.ID)
		defer func() {
			if r := recover(); r != nil {
				a.log.Error(ctx, "price fetcher panicked", "source", src.ID, "panic", r)
				done <- domain.ErrorObservation(src, apperror.New(apperror.CodeInternalError,
					apperror.WithContextf("fetcher panic: %v", r)))
			}
		}()
		done <- f.Fetch(ctx)
	}()

	var obs domain.PriceObservation
	select {
	case obs = <-done:
	case <-ctx.Done():
		obs = domain.ErrorObservation(src, apperror.New(apperror.CodeServiceTimeout,
			apperror.WithCause(ctx.Err()),
			apperror.WithContextf("no answer from %s", src.ID)))
	}

	if obs.Latency == 0 {
		obs = obs.WithLatency(time.Since(start))
	}
	a.record(ctx, obs)
	return obs
}

func (a *Aggregator) record(ctx context.Context, obs domain.PriceObservation) {
	attrs := metric.WithAttributes(
		attribute.String("kind", string(obs.Kind)),
		attribute.String("status", string(obs.Status)),
	)
	a.metrics.fetches.Add(ctx, 1, attrs)
	a.metrics.latency.Record(ctx, float64(obs.Latency.Milliseconds()), attrs)

	if !obs.IsSuccess() {
		a.metrics.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", string(obs.SourceID)),
			attribute.String("error_kind", string(obs.ErrorKind)),
		))
		a.log.Debug(ctx, "price fetch failed",
			"source", obs.SourceID,
			"error_kind", obs.ErrorKind,
			"detail", obs.ErrorDetail)
	}
}
