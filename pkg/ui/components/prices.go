// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	newRowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0B0B0B")).Background(lipgloss.Color("#F59E0B"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	detailIndent = "      "
)

// PricesComponent renders the per-source price table of the last cycle.
type PricesComponent struct {
	rows       []pricingDomain.PriceObservation
	showErrors bool
}

// NewPricesComponent creates a new prices component.
func NewPricesComponent() *PricesComponent {
	return &PricesComponent{showErrors: true}
}

// Update replaces the rows.
func (p *PricesComponent) Update(rows []pricingDomain.PriceObservation) {
	p.rows = rows
}

// SetShowErrors toggles the error detail line under failed rows.
func (p *PricesComponent) SetShowErrors(show bool) {
	p.showErrors = show
}

// View renders the prices component.
func (p *PricesComponent) View() string {
	if len(p.rows) == 0 {
		return "Waiting for price data..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("PRICES (%d sources)", len(p.rows))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %-26s %-10s %-8s %14s  %-8s  %s\n",
		"Source", "Chain", "Pair", "Price", "Time", "Status")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 84)))
	b.WriteString("\n")

	for _, o := range p.rows {
		price := dimStyle.Render(fmt.Sprintf("%14s", "-"))
		if o.IsSuccess() {
			price = fmt.Sprintf("%14s", "$"+o.Price.StringFixed(4))
		}

		fmt.Fprintf(&b, "  %-26s %-10s %-8s %s  %-8s  %s\n",
			truncate(string(o.SourceID), 26),
			truncate(o.Chain, 10),
			o.Pair,
			price,
			o.MeasuredAt.Format("15:04:05"),
			badge(o),
		)

		if !o.IsSuccess() && p.showErrors && o.ErrorDetail != "" {
			b.WriteString(errStyle.Render(detailIndent + truncate(o.ErrorDetail, 80)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func badge(o pricingDomain.PriceObservation) string {
	if !o.IsSuccess() {
		return errStyle.Render("✗ " + string(o.ErrorKind))
	}

	label := okStyle.Render("✓ ok")
	if o.Stale {
		label = warnStyle.Render("! stale")
	}
	if o.Stable != "" {
		label += dimStyle.Render(" via " + o.Stable)
	}
	if o.Latency > 0 {
		label += dimStyle.Render(fmt.Sprintf(" %dms", o.Latency.Round(time.Millisecond).Milliseconds()))
	}
	return label
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
