package chainlink

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainsApp "github.com/fd1az/multichain-arb/business/chains/app"
	chainsDomain "github.com/fd1az/multichain-arb/business/chains/domain"
	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/cache"
	"github.com/fd1az/multichain-arb/internal/logger"
)

var (
	feedABI, _ = abi.JSON(strings.NewReader(AggregatorV3ABI))

	bnbChain = chainsDomain.ChainDescriptor{
		ID:          "bnb",
		DisplayName: "BNB Chain",
		EVMChainID:  56,
		FeedAddress: common.HexToAddress("0x0567F2323251f0Aab15c8dFb1967E4e8A7D42aeE"),
		FeedPair:    "BNB/USD",
	}
)

// fakeFeed answers decimals and latestRoundData by selector.
type fakeFeed struct {
	decimals     uint8
	answer       *big.Int
	updatedAt    int64
	err          error
	empty        bool
	decimalCalls atomic.Int32
	roundCalls   atomic.Int32
}

func (f *fakeFeed) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}

	switch {
	case bytes.Equal(msg.Data[:4], feedABI.Methods["decimals"].ID):
		f.decimalCalls.Add(1)
		return feedABI.Methods["decimals"].Outputs.Pack(f.decimals)
	case bytes.Equal(msg.Data[:4], feedABI.Methods["latestRoundData"].ID):
		f.roundCalls.Add(1)
		return feedABI.Methods["latestRoundData"].Outputs.Pack(
			big.NewInt(42), f.answer, big.NewInt(f.updatedAt), big.NewInt(f.updatedAt), big.NewInt(42))
	}
	return nil, errors.New("unexpected selector")
}

type fakeProvider struct {
	caller chainsApp.ContractCaller
	err    error
}

func (p fakeProvider) Caller(context.Context, string) (chainsApp.ContractCaller, error) {
	return p.caller, p.err
}

func newFetcher(t *testing.T, provider chainsApp.CallerProvider, opts Options) *Fetcher {
	t.Helper()
	decimals := cache.New[string, uint8](0)
	t.Cleanup(decimals.Close)

	f, err := NewFetcher(bnbChain, provider, decimals, opts, logger.NewNop())
	require.NoError(t, err)
	return f
}

func TestFetch_ScalesByDecimalsAndUsesUpdatedAt(t *testing.T) {
	feed := &fakeFeed{decimals: 8, answer: big.NewInt(61234000000), updatedAt: 1700000000}
	f := newFetcher(t, fakeProvider{caller: feed}, Options{DecimalsTTL: time.Hour})

	obs := f.Fetch(context.Background())

	require.True(t, obs.IsSuccess(), obs.ErrorDetail)
	assert.True(t, obs.Price.Equal(decimal.RequireFromString("612.34")), obs.Price.String())
	assert.Equal(t, time.Unix(1700000000, 0), obs.MeasuredAt)
	assert.Equal(t, domain.FeedSourceID("bnb"), obs.SourceID)
	assert.Equal(t, "bnb", obs.Chain)
	assert.False(t, obs.Stale)
}

func TestFetch_DecimalsReadOnce(t *testing.T) {
	feed := &fakeFeed{decimals: 18, answer: new(big.Int).Mul(big.NewInt(600), big.NewInt(1e18)), updatedAt: 1700000000}
	f := newFetcher(t, fakeProvider{caller: feed}, Options{DecimalsTTL: time.Hour})

	for i := 0; i < 3; i++ {
		obs := f.Fetch(context.Background())
		require.True(t, obs.IsSuccess(), obs.ErrorDetail)
		assert.True(t, obs.Price.Equal(decimal.NewFromInt(600)))
	}
	assert.Equal(t, int32(1), feed.decimalCalls.Load())
	assert.Equal(t, int32(3), feed.roundCalls.Load())
}

func TestFetch_StaleIsFlaggedNotHidden(t *testing.T) {
	feed := &fakeFeed{decimals: 8, answer: big.NewInt(60000000000), updatedAt: 1700000000}
	f := newFetcher(t, fakeProvider{caller: feed}, Options{StaleAfter: time.Hour})
	f.now = func() time.Time { return time.Unix(1700000000, 0).Add(2 * time.Hour) }

	obs := f.Fetch(context.Background())
	assert.True(t, obs.IsSuccess())
	assert.True(t, obs.Stale)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider fakeProvider
		want     domain.ErrorKind
	}{
		{"zero_answer", fakeProvider{caller: &fakeFeed{decimals: 8, answer: big.NewInt(0), updatedAt: 1}}, domain.ErrorKindProtocol},
		{"negative_answer", fakeProvider{caller: &fakeFeed{decimals: 8, answer: big.NewInt(-5), updatedAt: 1}}, domain.ErrorKindProtocol},
		{"incomplete_round", fakeProvider{caller: &fakeFeed{decimals: 8, answer: big.NewInt(5), updatedAt: 0}}, domain.ErrorKindProtocol},
		{"no_contract", fakeProvider{caller: &fakeFeed{empty: true}}, domain.ErrorKindProtocol},
		{"rpc_down", fakeProvider{caller: &fakeFeed{err: apperror.New(apperror.CodeNetworkError)}}, domain.ErrorKindNetwork},
		{"breaker_open", fakeProvider{caller: &fakeFeed{err: apperror.New(apperror.CodeCircuitOpen)}}, domain.ErrorKindNetwork},
		{"revert", fakeProvider{caller: &fakeFeed{err: apperror.New(apperror.CodeContractCallFailed)}}, domain.ErrorKindProtocol},
		{"dial_failed", fakeProvider{err: apperror.New(apperror.CodeRPCDialFailed)}, domain.ErrorKindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newFetcher(t, tt.provider, Options{}).Fetch(context.Background())
			assert.False(t, obs.IsSuccess())
			assert.Equal(t, tt.want, obs.ErrorKind, obs.ErrorDetail)
			assert.NotEmpty(t, obs.ErrorDetail)
		})
	}
}

func TestFetch_ErrorDetailNamesChain(t *testing.T) {
	feed := &fakeFeed{err: apperror.New(apperror.CodeNetworkError)}
	obs := newFetcher(t, fakeProvider{caller: feed}, Options{}).Fetch(context.Background())
	assert.Contains(t, obs.ErrorDetail, "failed to fetch price from bnb")
}
