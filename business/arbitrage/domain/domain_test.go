package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFeeModel_For(t *testing.T) {
	tests := []struct {
		name      string
		trade     string
		wantTotal string
	}{
		{"min_trade", "1000", "5"},
		{"mid_trade", "5000", "13"},
		{"max_trade", "20000", "43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees := DefaultFeeModel().For(d(tt.trade))
			assert.True(t, fees.Total.Equal(d(tt.wantTotal)), fees.Total.String())
			assert.True(t, fees.Service.Add(fees.Bot).Add(fees.Gas).Equal(fees.Total))
		})
	}
}

func TestNewFeeModel_FromConfig(t *testing.T) {
	fees := NewFeeModel(0.002, 1, 2).For(d("1000"))
	assert.True(t, fees.Total.Equal(d("5")), fees.Total.String())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		trade   string
		min     string
		wantErr bool
	}{
		{"defaults", "1000", "0.1", false},
		{"max", "20000", "2.5", false},
		{"below_min", "500", "0.1", true},
		{"above_max", "21000", "0.1", true},
		{"off_step", "1500", "0.1", true},
		{"zero_threshold", "1000", "0", true},
		{"negative_threshold", "1000", "-0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSettings(d(tt.trade), d(tt.min))
			if tt.wantErr {
				assert.True(t, apperror.HasCode(err, apperror.CodeInvalidSettings), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSettings_StepsClamp(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.StepTradeAmount(-1).TradeAmount.Equal(MinTradeAmount))
	assert.True(t, s.StepTradeAmount(3).TradeAmount.Equal(d("4000")))
	assert.True(t, s.StepTradeAmount(100).TradeAmount.Equal(MaxTradeAmount))

	assert.True(t, s.StepMinProfit(2).MinProfit.Equal(d("0.3")))
	assert.True(t, s.StepMinProfit(-5).MinProfit.Equal(MinProfitStep))
	require.NoError(t, s.StepMinProfit(-5).Validate())

	require.NoError(t, s.StepTradeAmount(7).Validate())
}

func TestOpportunity_Highlighted(t *testing.T) {
	now := time.Now()
	o := Opportunity{ID: OpportunityID("coinbase", "feed:bnb"), HighlightUntil: now.Add(5 * time.Second)}

	assert.Equal(t, "coinbase->feed:bnb", o.ID)
	assert.True(t, o.Highlighted(now))
	assert.False(t, o.Highlighted(now.Add(5*time.Second)))
}
