package v2router

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

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
	"github.com/fd1az/multichain-arb/internal/asset"
	"github.com/fd1az/multichain-arb/internal/logger"
)

var routerABI, _ = abi.JSON(strings.NewReader(RouterV2ABI))

type reply struct {
	amounts []*big.Int
	err     error
}

// fakeRouter answers getAmountsOut by the stable at the end of the path.
type fakeRouter struct {
	replies map[common.Address]reply
	asked   []common.Address
}

func (r *fakeRouter) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	args, err := routerABI.Methods["getAmountsOut"].Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	path := args[1].([]common.Address)
	stable := path[len(path)-1]
	r.asked = append(r.asked, stable)

	rep, ok := r.replies[stable]
	if !ok {
		return nil, apperror.New(apperror.CodeContractCallFailed, apperror.WithContext("execution reverted"))
	}
	if rep.err != nil {
		return nil, rep.err
	}
	return routerABI.Methods["getAmountsOut"].Outputs.Pack(rep.amounts)
}

type fakeProvider struct {
	caller chainsApp.ContractCaller
	err    error
}

func (p fakeProvider) Caller(context.Context, string) (chainsApp.ContractCaller, error) {
	return p.caller, p.err
}

func token(t *testing.T, addr, symbol string, decimals uint8) *asset.Asset {
	t.Helper()
	a, err := asset.NewToken(1, common.HexToAddress(addr), symbol, decimals)
	require.NoError(t, err)
	return a
}

// ethereumSet mirrors the ethereum DEX group: BNB quoted against 6-decimal stables.
func ethereumSet(t *testing.T) (chainsDomain.DEXSet, *asset.Asset, *asset.Asset) {
	usdt := token(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7", "usdt", 6)
	usdc := token(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "usdc", 6)
	set := chainsDomain.DEXSet{
		Chain:     chainsDomain.ChainDescriptor{ID: "ethereum", EVMChainID: 1},
		Pair:      "BNB/USD",
		Reference: token(t, "0x418D75f65a02b3D53B2418FB8E1fe493759c7605", "BNB", 18),
		Stables:   []*asset.Asset{usdt, usdc},
		DEXes: []chainsDomain.DEX{{
			Name:   "uniswap",
			Family: chainsDomain.RouterFamilyUniswapV2,
			Router: common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		}},
	}
	return set, usdt, usdc
}

func oneBNBFor(raw int64) []*big.Int {
	return []*big.Int{new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), big.NewInt(raw)}
}

func newFetcher(t *testing.T, set chainsDomain.DEXSet, provider chainsApp.CallerProvider) *Fetcher {
	t.Helper()
	f, err := NewFetcher(set, set.DEXes[0], provider, logger.NewNop())
	require.NoError(t, err)
	return f
}

func TestFetch_FirstStableWins(t *testing.T) {
	set, usdt, usdc := ethereumSet(t)
	router := &fakeRouter{replies: map[common.Address]reply{
		usdt.Address(): {amounts: oneBNBFor(612_340000)},
		usdc.Address(): {amounts: oneBNBFor(999_000000)},
	}}

	obs := newFetcher(t, set, fakeProvider{caller: router}).Fetch(context.Background())

	require.True(t, obs.IsSuccess(), obs.ErrorDetail)
	assert.True(t, obs.Price.Equal(decimal.RequireFromString("612.34")), obs.Price.String())
	assert.Equal(t, "usdt", obs.Stable)
	assert.Equal(t, domain.DEXSourceID("ethereum", "uniswap"), obs.SourceID)
	assert.Equal(t, []common.Address{usdt.Address()}, router.asked)
}

func TestFetch_FallsBackOnRevertAndZeroOutput(t *testing.T) {
	tests := []struct {
		name  string
		first reply
	}{
		{"revert", reply{err: apperror.New(apperror.CodeContractCallFailed, apperror.WithContext("execution reverted"))}},
		{"zero_output", reply{amounts: oneBNBFor(0)}},
		{"short_path", reply{amounts: []*big.Int{big.NewInt(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, usdt, usdc := ethereumSet(t)
			router := &fakeRouter{replies: map[common.Address]reply{
				usdt.Address(): tt.first,
				usdc.Address(): {amounts: oneBNBFor(611_500000)},
			}}

			obs := newFetcher(t, set, fakeProvider{caller: router}).Fetch(context.Background())

			require.True(t, obs.IsSuccess(), obs.ErrorDetail)
			assert.Equal(t, "usdc", obs.Stable)
			assert.True(t, obs.Price.Equal(decimal.RequireFromString("611.5")))
			assert.Equal(t, []common.Address{usdt.Address(), usdc.Address()}, router.asked)
		})
	}
}

func TestFetch_ScalesByStableDecimals(t *testing.T) {
	set, _, _ := ethereumSet(t)
	bscUSDT := token(t, "0x55d398326f99059fF775485246999027B3197955", "usdt", 18)
	set.Stables = []*asset.Asset{bscUSDT}

	raw, _ := new(big.Int).SetString("612340000000000000000", 10)
	router := &fakeRouter{replies: map[common.Address]reply{
		bscUSDT.Address(): {amounts: []*big.Int{big.NewInt(1), raw}},
	}}

	obs := newFetcher(t, set, fakeProvider{caller: router}).Fetch(context.Background())
	require.True(t, obs.IsSuccess(), obs.ErrorDetail)
	assert.True(t, obs.Price.Equal(decimal.RequireFromString("612.34")))
}

func TestFetch_ExhaustionKind(t *testing.T) {
	network := apperror.New(apperror.CodeNetworkError, apperror.WithCause(errors.New("connection refused")))
	revert := apperror.New(apperror.CodeContractCallFailed, apperror.WithContext("execution reverted"))

	tests := []struct {
		name        string
		usdt, usdc  reply
		want        domain.ErrorKind
		wantInError []string
	}{
		{"all_revert", reply{err: revert}, reply{err: revert}, domain.ErrorKindNoLiquidity, []string{"usdt", "usdc"}},
		{"all_zero", reply{amounts: oneBNBFor(0)}, reply{amounts: oneBNBFor(0)}, domain.ErrorKindNoLiquidity, []string{"zero output"}},
		{"all_network", reply{err: network}, reply{err: network}, domain.ErrorKindNetwork, []string{"usdt", "usdc"}},
		{"mixed", reply{err: network}, reply{err: revert}, domain.ErrorKindNoLiquidity, []string{"connection refused", "execution reverted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, usdt, usdc := ethereumSet(t)
			router := &fakeRouter{replies: map[common.Address]reply{
				usdt.Address(): tt.usdt,
				usdc.Address(): tt.usdc,
			}}

			obs := newFetcher(t, set, fakeProvider{caller: router}).Fetch(context.Background())

			assert.False(t, obs.IsSuccess())
			assert.Equal(t, tt.want, obs.ErrorKind)
			for _, s := range tt.wantInError {
				assert.Contains(t, obs.ErrorDetail, s)
			}
		})
	}
}

func TestFetch_DialFailure(t *testing.T) {
	set, _, _ := ethereumSet(t)
	obs := newFetcher(t, set, fakeProvider{err: apperror.New(apperror.CodeRPCDialFailed)}).Fetch(context.Background())
	assert.Equal(t, domain.ErrorKindNetwork, obs.ErrorKind)
}

func TestNewFetcher_RejectsUnknownFamily(t *testing.T) {
	set, _, _ := ethereumSet(t)
	dex := set.DEXes[0]
	dex.Family = "uniswap-v3"

	_, err := NewFetcher(set, dex, fakeProvider{}, logger.NewNop())
	assert.True(t, apperror.HasCode(err, apperror.CodeConfigurationError))
}
