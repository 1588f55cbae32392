// Package domain contains the arbitrage opportunity model, the fee model and
// the user-adjustable settings.
package domain

import "github.com/shopspring/decimal"

// FeeModel is the cost charged against every opportunity.
type FeeModel struct {
	ServiceFeeRate decimal.Decimal // fraction of the trade amount
	BotFee         decimal.Decimal // flat, per trade
	GasEstimate    decimal.Decimal // flat, per trade
}

// FeeBreakdown itemizes the fees of one trade.
type FeeBreakdown struct {
	Service decimal.Decimal `json:"service"`
	Bot     decimal.Decimal `json:"bot"`
	Gas     decimal.Decimal `json:"gas"`
	Total   decimal.Decimal `json:"total"`
}

// DefaultFeeModel returns 0.2% service fee, 1.0 bot fee and 2.0 gas.
func DefaultFeeModel() FeeModel {
	return FeeModel{
		ServiceFeeRate: decimal.RequireFromString("0.002"),
		BotFee:         decimal.NewFromInt(1),
		GasEstimate:    decimal.NewFromInt(2),
	}
}

// NewFeeModel builds a fee model from float config values.
func NewFeeModel(serviceFeeRate, botFee, gasEstimate float64) FeeModel {
	return FeeModel{
		ServiceFeeRate: decimal.NewFromFloat(serviceFeeRate),
		BotFee:         decimal.NewFromFloat(botFee),
		GasEstimate:    decimal.NewFromFloat(gasEstimate),
	}
}

// For computes the fees of a trade: tradeAmount × rate + bot + gas.
func (m FeeModel) For(tradeAmount decimal.Decimal) FeeBreakdown {
	service := tradeAmount.Mul(m.ServiceFeeRate)
	return FeeBreakdown{
		Service: service,
		Bot:     m.BotFee,
		Gas:     m.GasEstimate,
		Total:   service.Add(m.BotFee).Add(m.GasEstimate),
	}
}
