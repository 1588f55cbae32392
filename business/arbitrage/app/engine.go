package app

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
)

var hundred = decimal.NewFromInt(100)

// Engine turns a price table into ranked opportunities. It holds no state.
type Engine struct {
	fees domain.FeeModel
}

// NewEngine creates an Engine with the given fee model.
func NewEngine(fees domain.FeeModel) *Engine {
	return &Engine{fees: fees}
}

// Fees returns the fee model.
func (e *Engine) Fees() domain.FeeModel { return e.fees }

// Compute pairs every two successful observations of the same asset pair, in
// both directions, and keeps those whose net profit is strictly above the
// threshold. The result is sorted by net profit, descending; ties keep table order.
func (e *Engine) Compute(table *pricingDomain.PriceTable, settings domain.Settings) []domain.Opportunity {
	valid := table.Successful()
	fees := e.fees.For(settings.TradeAmount)

	var opps []domain.Opportunity
	for i, buy := range valid {
		for j, sell := range valid {
			if i == j || buy.Pair != sell.Pair || !buy.Price.IsPositive() {
				continue
			}

			qty := settings.TradeAmount.Div(buy.Price)
			gross := qty.Mul(sell.Price.Sub(buy.Price))
			net := gross.Sub(fees.Total)
			if !net.GreaterThan(settings.MinProfit) {
				continue
			}

			opps = append(opps, domain.Opportunity{
				ID:          domain.OpportunityID(buy.SourceID, sell.SourceID),
				BuySource:   buy.SourceID,
				SellSource:  sell.SourceID,
				BuyChain:    buy.Chain,
				SellChain:   sell.Chain,
				Pair:        buy.Pair,
				BuyPrice:    buy.Price,
				SellPrice:   sell.Price,
				AssetAmount: qty,
				TradeAmount: settings.TradeAmount,
				GrossProfit: gross,
				Fees:        fees,
				NetProfit:   net,
				ProfitPct:   net.Div(settings.TradeAmount).Mul(hundred),
			})
		}
	}

	sort.SliceStable(opps, func(a, b int) bool {
		return opps[a].NetProfit.GreaterThan(opps[b].NetProfit)
	})
	return opps
}
