package components

import (
	"fmt"
	"strings"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// SettingsBar renders the adjustable settings and the fee model.
type SettingsBar struct {
	settings   domain.Settings
	fees       domain.FeeBreakdown
	refreshing bool
	paused     bool
	errMsg     string
}

// NewSettingsBar creates a settings bar.
func NewSettingsBar(s domain.Settings) *SettingsBar {
	return &SettingsBar{settings: s}
}

// Update sets the displayed settings and fee breakdown.
func (b *SettingsBar) Update(s domain.Settings, fees domain.FeeBreakdown) {
	b.settings = s
	b.fees = fees
	b.errMsg = ""
}

// SetRefreshing toggles the refreshing indicator.
func (b *SettingsBar) SetRefreshing(on bool) { b.refreshing = on }

// SetPaused toggles the paused indicator.
func (b *SettingsBar) SetPaused(on bool) { b.paused = on }

// SetError shows a rejected settings change.
func (b *SettingsBar) SetError(msg string) { b.errMsg = msg }

// View renders the settings bar.
func (b *SettingsBar) View(spinner string) string {
	parts := []string{
		"Trade: " + valueStyle.Render("$"+b.settings.TradeAmount.StringFixed(0)) + dimStyle.Render(" (+/-)"),
		"Min profit: " + valueStyle.Render("$"+b.settings.MinProfit.StringFixed(2)) + dimStyle.Render(" ([/])"),
	}
	if !b.fees.Total.IsZero() {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("Fees: $%s service + $%s bot + $%s gas = $%s",
			b.fees.Service.StringFixed(2), b.fees.Bot.StringFixed(2), b.fees.Gas.StringFixed(2), b.fees.Total.StringFixed(2))))
	}
	if b.refreshing {
		parts = append(parts, okStyle.Render(spinner+" Refreshing"))
	}
	if b.paused {
		parts = append(parts, warnStyle.Render("⏸ PAUSED"))
	}
	if b.errMsg != "" {
		parts = append(parts, errStyle.Render(b.errMsg))
	}
	return strings.Join(parts, "  │  ")
}
