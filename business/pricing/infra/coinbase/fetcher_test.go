package coinbase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/logger"
)

func newFetcher(t *testing.T, status int, body string) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/prices/BNB-USD/spot", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	f, err := NewFetcher(config.RESTSourceConfig{
		BaseURL: srv.URL,
		Path:    "/v2/prices/BNB-USD/spot",
		Timeout: time.Second,
	}, logger.NewNop())
	require.NoError(t, err)
	return f
}

func TestFetch_Success(t *testing.T) {
	f := newFetcher(t, 200, `{"data":{"amount":"612.345","base":"BNB","currency":"USD"}}`)

	obs := f.Fetch(context.Background())
	require.True(t, obs.IsSuccess(), obs.ErrorDetail)
	assert.True(t, obs.Price.Equal(decimal.RequireFromString("612.345")))
	assert.Equal(t, domain.SourceID("coinbase"), obs.SourceID)
	assert.Equal(t, "BNB/USD", obs.Pair)
}

func TestFetch_ShapeValidation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   domain.ErrorKind
	}{
		{"no_data", 200, `{"errors":[]}`, domain.ErrorKindProtocol},
		{"empty_amount", 200, `{"data":{"amount":""}}`, domain.ErrorKindProtocol},
		{"not_a_number", 200, `{"data":{"amount":"six hundred"}}`, domain.ErrorKindProtocol},
		{"negative", 200, `{"data":{"amount":"-1"}}`, domain.ErrorKindProtocol},
		{"wrong_pair", 200, `{"data":{"amount":"3000","base":"ETH","currency":"USD"}}`, domain.ErrorKindProtocol},
		{"not_found", 404, `{"errors":[{"id":"not_found"}]}`, domain.ErrorKindProtocol},
		{"bad_gateway", 502, `bad gateway`, domain.ErrorKindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newFetcher(t, tt.status, tt.body).Fetch(context.Background())
			assert.False(t, obs.IsSuccess())
			assert.Equal(t, tt.want, obs.ErrorKind, obs.ErrorDetail)
		})
	}
}
