// Package infra contains the reporters that present cycle results.
package infra

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

const rule = "================================================================================"

// ConsoleReporter prints every cycle result as plain text.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "Multichain Arbitrage Monitor Started")
	fmt.Fprintln(r.out, "====================================")
	return nil
}

// Publish prints the price table and the opportunities, marking new ones with '*'.
func (r *ConsoleReporter) Publish(res domain.CycleResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "CYCLE %s (%s) at %s  trade $%s  min profit $%s\n",
		short(res.CycleID), res.Trigger, res.CompletedAt.Format(time.RFC3339),
		res.Settings.TradeAmount.StringFixed(0), res.Settings.MinProfit.StringFixed(2))
	fmt.Fprintf(r.out, "Sources: %d ok, %d failed\n", res.Stats.Succeeded, res.Stats.Failed)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")

	for _, o := range res.Table.Observations() {
		if o.IsSuccess() {
			extra := ""
			if o.Stable != "" {
				extra = " via " + o.Stable
			}
			if o.Stale {
				extra += " (stale)"
			}
			fmt.Fprintf(r.out, "  [OK ] %-30s %-8s $%s  %s%s\n",
				o.SourceID, o.Pair, o.Price.StringFixed(4), o.MeasuredAt.Format("15:04:05"), extra)
			continue
		}
		fmt.Fprintf(r.out, "  [ERR] %-30s %-8s %s: %s\n", o.SourceID, o.Pair, o.ErrorKind, o.ErrorDetail)
	}

	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	if len(res.Opportunities) == 0 {
		fmt.Fprintln(r.out, "  No opportunity above the threshold")
	}
	for _, opp := range res.Opportunities {
		mark := " "
		if opp.IsNew {
			mark = "*"
		}
		fmt.Fprintf(r.out, "%s %-50s buy $%s sell $%s  net $%s (%s%%)\n",
			mark, opp.ID, opp.BuyPrice.StringFixed(2), opp.SellPrice.StringFixed(2),
			opp.NetProfit.StringFixed(2), opp.ProfitPct.StringFixed(2))
	}
	fmt.Fprintln(r.out, rule)
}

// Stop prints the shutdown line.
func (r *ConsoleReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Multichain Arbitrage Monitor Stopped")
	return nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
