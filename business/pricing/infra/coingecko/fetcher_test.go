package coingecko

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

func newFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f, err := NewFetcher(config.RESTSourceConfig{
		BaseURL: srv.URL,
		Path:    "/simple/price",
		Timeout: time.Second,
	}, logger.NewNop())
	require.NoError(t, err)
	return f
}

func TestFetch_Success(t *testing.T) {
	f := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "binancecoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"binancecoin":{"usd":612.34}}`))
	})

	before := time.Now()
	obs := f.Fetch(context.Background())

	require.True(t, obs.IsSuccess(), obs.ErrorDetail)
	assert.True(t, obs.Price.Equal(decimal.RequireFromString("612.34")))
	assert.Equal(t, domain.SourceID("coingecko"), obs.SourceID)
	assert.Equal(t, domain.KindREST, obs.Kind)
	assert.Empty(t, obs.Chain)
	assert.False(t, obs.MeasuredAt.Before(before))
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   domain.ErrorKind
	}{
		{"missing_coin", 200, `{"ethereum":{"usd":3000}}`, domain.ErrorKindProtocol},
		{"missing_currency", 200, `{"binancecoin":{"eur":560}}`, domain.ErrorKindProtocol},
		{"zero_price", 200, `{"binancecoin":{"usd":0}}`, domain.ErrorKindProtocol},
		{"malformed", 200, `{"binancecoin":`, domain.ErrorKindProtocol},
		{"rate_limited", 429, `{"status":{"error_code":429}}`, domain.ErrorKindNetwork},
		{"server_error", 503, `unavailable`, domain.ErrorKindNetwork},
		{"bad_request", 400, `bad`, domain.ErrorKindProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			obs := f.Fetch(context.Background())
			assert.False(t, obs.IsSuccess())
			assert.Equal(t, tt.want, obs.ErrorKind, obs.ErrorDetail)
			assert.NotEmpty(t, obs.ErrorDetail)
		})
	}
}

func TestFetch_Unreachable(t *testing.T) {
	f, err := NewFetcher(config.RESTSourceConfig{
		BaseURL: "http://127.0.0.1:1",
		Path:    "/simple/price",
		Timeout: time.Second,
	}, logger.NewNop())
	require.NoError(t, err)

	obs := f.Fetch(context.Background())
	assert.Equal(t, domain.ErrorKindNetwork, obs.ErrorKind)
}
