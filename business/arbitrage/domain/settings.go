package domain

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

// Trade amount selector bounds.
var (
	MinTradeAmount  = decimal.NewFromInt(1000)
	MaxTradeAmount  = decimal.NewFromInt(20000)
	TradeAmountStep = decimal.NewFromInt(1000)

	// MinProfitStep is the threshold increment used by the dashboard keys.
	MinProfitStep = decimal.RequireFromString("0.1")
)

// Settings are the only user-adjustable parameters.
type Settings struct {
	TradeAmount decimal.Decimal `json:"trade_amount"`
	MinProfit   decimal.Decimal `json:"min_profit"`
}

// DefaultSettings returns a 1000 trade amount and a 0.1 threshold.
func DefaultSettings() Settings {
	return Settings{
		TradeAmount: MinTradeAmount,
		MinProfit:   MinProfitStep,
	}
}

// NewSettings validates and creates settings.
func NewSettings(tradeAmount, minProfit decimal.Decimal) (Settings, error) {
	s := Settings{TradeAmount: tradeAmount, MinProfit: minProfit}
	return s, s.Validate()
}

// Validate checks the trade amount is one of 1000..20000 in steps of 1000 and
// the threshold is positive.
func (s Settings) Validate() error {
	if s.TradeAmount.LessThan(MinTradeAmount) || s.TradeAmount.GreaterThan(MaxTradeAmount) ||
		!s.TradeAmount.Mod(TradeAmountStep).IsZero() {
		return apperror.New(apperror.CodeInvalidSettings,
			apperror.WithContextf("trade amount %s must be %s..%s in steps of %s",
				s.TradeAmount, MinTradeAmount, MaxTradeAmount, TradeAmountStep))
	}
	if !s.MinProfit.IsPositive() {
		return apperror.New(apperror.CodeInvalidSettings,
			apperror.WithContextf("min profit %s must be positive", s.MinProfit))
	}
	return nil
}

// Equal compares by value.
func (s Settings) Equal(o Settings) bool {
	return s.TradeAmount.Equal(o.TradeAmount) && s.MinProfit.Equal(o.MinProfit)
}

// StepTradeAmount moves the trade amount by steps, clamped to the selector bounds.
func (s Settings) StepTradeAmount(steps int) Settings {
	next := s.TradeAmount.Add(TradeAmountStep.Mul(decimal.NewFromInt(int64(steps))))
	switch {
	case next.LessThan(MinTradeAmount):
		next = MinTradeAmount
	case next.GreaterThan(MaxTradeAmount):
		next = MaxTradeAmount
	}
	s.TradeAmount = next
	return s
}

// StepMinProfit moves the threshold by steps of 0.1, never below one step.
func (s Settings) StepMinProfit(steps int) Settings {
	next := s.MinProfit.Add(MinProfitStep.Mul(decimal.NewFromInt(int64(steps))))
	if next.LessThan(MinProfitStep) {
		next = MinProfitStep
	}
	s.MinProfit = next
	return s
}
