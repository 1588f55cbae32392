package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// OpportunitiesComponent renders the ranked opportunity list with scrolling.
type OpportunitiesComponent struct {
	rows    []domain.Opportunity
	offset  int
	visible int
}

// NewOpportunitiesComponent creates a component showing visible rows at a time.
func NewOpportunitiesComponent(visible int) *OpportunitiesComponent {
	return &OpportunitiesComponent{visible: visible}
}

// Update replaces the rows, keeping the scroll position when it is still valid.
func (o *OpportunitiesComponent) Update(rows []domain.Opportunity) {
	o.rows = rows
	o.clampOffset()
}

// Len returns the number of rows.
func (o *OpportunitiesComponent) Len() int { return len(o.rows) }

// Offset returns the index of the first visible row.
func (o *OpportunitiesComponent) Offset() int { return o.offset }

// ScrollUp moves the window up by one row.
func (o *OpportunitiesComponent) ScrollUp() {
	o.offset--
	o.clampOffset()
}

// ScrollDown moves the window down by one row.
func (o *OpportunitiesComponent) ScrollDown() {
	o.offset++
	o.clampOffset()
}

func (o *OpportunitiesComponent) clampOffset() {
	maxOffset := len(o.rows) - o.visible
	if o.offset > maxOffset {
		o.offset = maxOffset
	}
	if o.offset < 0 {
		o.offset = 0
	}
}

// View renders rows; those still inside their highlight window at now stand out.
func (o *OpportunitiesComponent) View(now time.Time) string {
	if len(o.rows) == 0 {
		return headerStyle.Render("OPPORTUNITIES") + "\n\n" + dimStyle.Render("  No opportunity above the threshold")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("OPPORTUNITIES (%d)", len(o.rows))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %-46s %11s %11s %10s %8s\n", "Buy -> Sell", "Buy", "Sell", "Net", "Net %")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 90)))
	b.WriteString("\n")

	end := o.offset + o.visible
	if end > len(o.rows) {
		end = len(o.rows)
	}
	for _, opp := range o.rows[o.offset:end] {
		line := fmt.Sprintf("%-46s %11s %11s %10s %7s%%",
			truncate(opp.ID, 46),
			"$"+opp.BuyPrice.StringFixed(2),
			"$"+opp.SellPrice.StringFixed(2),
			"$"+opp.NetProfit.StringFixed(2),
			opp.ProfitPct.StringFixed(2),
		)
		if opp.Highlighted(now) {
			b.WriteString("  " + newRowStyle.Render(line) + warnStyle.Render(" NEW"))
		} else {
			b.WriteString("  " + okStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(o.rows) > o.visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  rows %d-%d of %d (↑↓)", o.offset+1, end, len(o.rows))))
	}
	return b.String()
}
