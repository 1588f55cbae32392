package domain

import (
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
)

// Opportunity is a buy-low/sell-high pairing of two sources. Recomputed every cycle.
type Opportunity struct {
	// ID is "<buy>-><sell>", stable across cycles.
	ID         string                 `json:"id"`
	BuySource  pricingDomain.SourceID `json:"buy_source"`
	SellSource pricingDomain.SourceID `json:"sell_source"`
	BuyChain   string                 `json:"buy_chain,omitempty"`
	SellChain  string                 `json:"sell_chain,omitempty"`
	Pair       string                 `json:"pair"`

	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	AssetAmount decimal.Decimal `json:"asset_amount"`
	TradeAmount decimal.Decimal `json:"trade_amount"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Fees        FeeBreakdown    `json:"fees"`
	NetProfit   decimal.Decimal `json:"net_profit"`
	ProfitPct   decimal.Decimal `json:"profit_pct"`

	// IsNew is set when the id was absent from the previous cycle.
	IsNew          bool      `json:"is_new"`
	HighlightUntil time.Time `json:"highlight_until,omitempty"`
}

// OpportunityID derives the identity of an ordered source pair.
func OpportunityID(buy, sell pricingDomain.SourceID) string {
	return string(buy) + "->" + string(sell)
}

// Highlighted reports whether the row should still be highlighted at now.
func (o Opportunity) Highlighted(now time.Time) bool {
	return now.Before(o.HighlightUntil)
}
