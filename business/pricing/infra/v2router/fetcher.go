// Package v2router quotes the reference token on UniswapV2-family routers,
// falling back across stable tokens in priority order.
package v2router

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	chainsApp "github.com/fd1az/multichain-arb/business/chains/app"
	chainsDomain "github.com/fd1az/multichain-arb/business/chains/domain"
	"github.com/fd1az/multichain-arb/business/pricing/app"
	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/asset"
	"github.com/fd1az/multichain-arb/internal/logger"
)

const tracerName = "v2router"

var timeNow = time.Now

var _ app.Fetcher = (*Fetcher)(nil)

// Fetcher quotes one router.
type Fetcher struct {
	src     domain.SourceDescriptor
	set     chainsDomain.DEXSet
	dex     chainsDomain.DEX
	callers chainsApp.CallerProvider
	abi     abi.ABI

	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewFetcher creates a fetcher for dex, one of set's routers.
func NewFetcher(set chainsDomain.DEXSet, dex chainsDomain.DEX, callers chainsApp.CallerProvider, log logger.LoggerInterface) (*Fetcher, error) {
	if dex.Family != chainsDomain.RouterFamilyUniswapV2 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContextf("router %s on %s: unsupported family %q", dex.Name, set.Chain.ID, dex.Family))
	}
	if len(set.Stables) == 0 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContextf("no stables configured on %s", set.Chain.ID))
	}

	parsedABI, err := abi.JSON(strings.NewReader(RouterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	return &Fetcher{
		src: domain.SourceDescriptor{
			ID:    domain.DEXSourceID(set.Chain.ID, dex.Name),
			Kind:  domain.KindDEX,
			Name:  dex.Name,
			Chain: set.Chain.ID,
			Pair:  set.Pair,
		},
		set:     set,
		dex:     dex,
		callers: callers,
		abi:     parsedABI,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

func (f *Fetcher) Source() domain.SourceDescriptor {
	return f.src
}

// Fetch quotes one whole reference token against each stable in priority
// order and returns the first positive output.
func (f *Fetcher) Fetch(ctx context.Context) domain.PriceObservation {
	ctx, span := f.tracer.Start(ctx, "v2router.fetch",
		trace.WithAttributes(
			attribute.String("chain", f.set.Chain.ID),
			attribute.String("dex", f.dex.Name),
			attribute.String("router", f.dex.Router.Hex()),
		),
	)
	defer span.End()

	caller, err := f.callers.Caller(ctx, f.set.Chain.ID)
	if err != nil {
		span.RecordError(err)
		return domain.ErrorObservation(f.src, err)
	}

	amountIn := asset.OneUnit(f.set.Reference)
	attempts := make([]string, 0, len(f.set.Stables))
	allNetwork := true

	for _, stable := range f.set.Stables {
		out, err := f.quote(ctx, caller, amountIn, stable)
		if err == nil {
			span.SetAttributes(attribute.String("stable", stable.Symbol()))
			span.SetStatus(codes.Ok, "")
			return domain.SuccessObservation(f.src, out.ToDecimal(), timeNow()).WithStable(stable.Symbol())
		}

		attempts = append(attempts, fmt.Sprintf("%s: %s", stable.Symbol(), short(err)))
		if domain.KindOf(err) != domain.ErrorKindNetwork {
			allNetwork = false
		}
		span.AddEvent("stable_failed", trace.WithAttributes(
			attribute.String("stable", stable.Symbol()),
			attribute.String("error", err.Error()),
		))

		if ctx.Err() != nil {
			break
		}
	}

	code := apperror.CodeNoLiquidity
	if allNetwork {
		code = apperror.CodeNetworkError
	}
	err = apperror.New(code, apperror.WithContextf("%s on %s tried %s",
		f.dex.Name, f.set.Chain.ID, strings.Join(attempts, "; ")))

	span.SetStatus(codes.Error, string(code))
	f.logger.Debug(ctx, "dex quote failed", "source", f.src.ID, "attempts", attempts)
	return domain.ErrorObservation(f.src, err)
}

// quote calls getAmountsOut(amountIn, [reference, stable]).
func (f *Fetcher) quote(ctx context.Context, caller chainsApp.ContractCaller, amountIn asset.Amount, stable *asset.Asset) (asset.Amount, error) {
	path := []common.Address{f.set.Reference.Address(), stable.Address()}
	data, err := f.abi.Pack("getAmountsOut", amountIn.Raw(), path)
	if err != nil {
		return asset.Amount{}, fmt.Errorf("failed to encode getAmountsOut: %w", err)
	}

	router := f.dex.Router
	res, err := caller.CallContract(ctx, ethereum.CallMsg{To: &router, Data: data}, nil)
	if err != nil {
		return asset.Amount{}, err
	}

	values, err := f.abi.Unpack("getAmountsOut", res)
	if err != nil || len(values) != 1 {
		return asset.Amount{}, apperror.New(apperror.CodeProtocolError,
			apperror.WithContext("decode getAmountsOut"),
			apperror.WithCause(err))
	}

	amounts, ok := values[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return asset.Amount{}, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("getAmountsOut returned %d amounts", len(amounts)))
	}

	last := amounts[len(amounts)-1]
	if last == nil || last.Sign() <= 0 {
		return asset.Amount{}, apperror.New(apperror.CodeNoLiquidity, apperror.WithContext("zero output"))
	}

	return asset.NewAmount(stable, last)
}

// short renders err without its code prefix.
func short(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Detail()
	}
	return err.Error()
}
