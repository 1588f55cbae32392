package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/wsconn"
)

func result() domain.CycleResult {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cb := pricingDomain.SuccessObservation(
		pricingDomain.SourceDescriptor{ID: "coinbase", Kind: pricingDomain.KindREST, Pair: "BNB/USD"},
		decimal.NewFromInt(600), now)
	dex := pricingDomain.SuccessObservation(
		pricingDomain.SourceDescriptor{ID: pricingDomain.DEXSourceID("bsc", "pancakeswap"), Kind: pricingDomain.KindDEX, Chain: "bsc", Pair: "BNB/USD"},
		decimal.NewFromInt(612), now).WithStable("usdt")
	feed := pricingDomain.ErrorObservation(
		pricingDomain.SourceDescriptor{ID: pricingDomain.FeedSourceID("fantom"), Kind: pricingDomain.KindFeed, Chain: "fantom", Pair: "BNB/USD"},
		apperror.New(apperror.CodeNetworkError, apperror.WithContext("failed to fetch price from fantom")))
	table := pricingDomain.NewPriceTable("0f6c1a2e-aaaa", now, now, []pricingDomain.PriceObservation{cb, dex, feed})

	return domain.CycleResult{
		CycleID:     "0f6c1a2e-aaaa",
		Trigger:     domain.TriggerTick,
		StartedAt:   now,
		CompletedAt: now,
		Table:       table,
		Opportunities: []domain.Opportunity{{
			ID:        domain.OpportunityID(cb.SourceID, dex.SourceID),
			BuyPrice:  cb.Price,
			SellPrice: dex.Price,
			NetProfit: decimal.NewFromInt(15),
			ProfitPct: decimal.RequireFromString("1.5"),
			IsNew:     true,
		}},
		Settings: domain.DefaultSettings(),
		Stats:    domain.StatsOf(table),
	}
}

func TestConsoleReporter_Publish(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	require.NoError(t, r.Start(context.Background()))
	r.Publish(result())
	require.NoError(t, r.Stop())

	out := buf.String()
	assert.Contains(t, out, "CYCLE 0f6c1a2e (tick)")
	assert.Contains(t, out, "2 ok, 1 failed")
	assert.Contains(t, out, "[OK ] dex:bsc:pancakeswap")
	assert.Contains(t, out, "via usdt")
	assert.Contains(t, out, "[ERR] feed:fantom")
	assert.Contains(t, out, "failed to fetch price from fantom")
	assert.Contains(t, out, "* coinbase->dex:bsc:pancakeswap")
	assert.Contains(t, out, "net $15.00 (1.50%)")
}

func TestStreamReporter_LatestAndBroadcast(t *testing.T) {
	hub := wsconn.NewHub(wsconn.Config{}, logger.NewNop())
	r := NewStreamReporter(0, hub, logger.NewNop())
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	defer hub.Close()

	resp, err := http.Get(srv.URL + "/api/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var hello wsconn.Envelope
	require.NoError(t, wsjson.Read(ctx, conn, &hello))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	r.Publish(result())

	var env wsconn.Envelope
	require.NoError(t, wsjson.Read(ctx, conn, &env))
	assert.Equal(t, "cycle", env.Type)

	var got struct {
		CycleID       string `json:"cycle_id"`
		Opportunities []struct {
			ID    string `json:"id"`
			IsNew bool   `json:"is_new"`
		} `json:"opportunities"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, "0f6c1a2e-aaaa", got.CycleID)
	require.Len(t, got.Opportunities, 1)
	assert.True(t, got.Opportunities[0].IsNew)

	resp, err = http.Get(srv.URL + "/api/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var latest map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&latest))
	assert.Equal(t, "0f6c1a2e-aaaa", latest["cycle_id"])
}

type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset by peer") }
func (w *brokenWriter) WriteHeader(int)           {}

func TestStreamReporter_LatestWriteFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	hub := wsconn.NewHub(wsconn.Config{}, logger.NewNop())
	defer hub.Close()
	r := NewStreamReporter(0, hub, logger.New(&logs, logger.LevelDebug, "test", nil))

	r.Publish(result())
	r.Handler().ServeHTTP(&brokenWriter{}, httptest.NewRequest(http.MethodGet, "/api/latest", nil))

	assert.Contains(t, logs.String(), "failed to write latest cycle")
	assert.Contains(t, logs.String(), "connection reset by peer")
}
