package app

import (
	"context"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	"github.com/fd1az/multichain-arb/internal/logger"
)

// Service is the control surface used by the presentation layer.
type Service struct {
	settings *SettingsStore
	pipeline *Pipeline
	poller   *Poller
	log      logger.LoggerInterface
}

// NewService creates a Service.
func NewService(settings *SettingsStore, pipeline *Pipeline, poller *Poller, log logger.LoggerInterface) *Service {
	return &Service{settings: settings, pipeline: pipeline, poller: poller, log: log}
}

// Settings returns the current settings.
func (s *Service) Settings() domain.Settings {
	return s.settings.Get()
}

// StepTradeAmount moves the trade amount by steps and recomputes the last table.
func (s *Service) StepTradeAmount(ctx context.Context, steps int) (domain.Settings, error) {
	return s.apply(ctx, func(cur domain.Settings) domain.Settings { return cur.StepTradeAmount(steps) })
}

// StepMinProfit moves the threshold by steps of 0.1 and recomputes the last table.
func (s *Service) StepMinProfit(ctx context.Context, steps int) (domain.Settings, error) {
	return s.apply(ctx, func(cur domain.Settings) domain.Settings { return cur.StepMinProfit(steps) })
}

// Refresh requests a manual cycle.
func (s *Service) Refresh() bool {
	return s.poller.Trigger()
}

// Fetching reports whether a cycle is in flight.
func (s *Service) Fetching() bool {
	return s.poller.State() == StateFetching
}

func (s *Service) apply(ctx context.Context, fn func(domain.Settings) domain.Settings) (domain.Settings, error) {
	prev := s.settings.Get()
	next, err := s.settings.Update(fn)
	if err != nil {
		return next, err
	}
	if next.Equal(prev) {
		return next, nil
	}

	s.log.Info(ctx, "settings changed",
		"trade_amount", next.TradeAmount.String(),
		"min_profit", next.MinProfit.String())
	s.pipeline.Recompute(ctx)
	return next, nil
}

// FeeModel returns the fee model the engine charges.
func (s *Service) FeeModel() domain.FeeModel {
	return s.pipeline.engine.Fees()
}
