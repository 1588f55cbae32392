// Package chainlink reads prices from AggregatorV3 feed contracts.
package chainlink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	chainsApp "github.com/fd1az/multichain-arb/business/chains/app"
	chainsDomain "github.com/fd1az/multichain-arb/business/chains/domain"
	"github.com/fd1az/multichain-arb/business/pricing/app"
	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/cache"
	"github.com/fd1az/multichain-arb/internal/logger"
)

const tracerName = "chainlink"

var _ app.Fetcher = (*Fetcher)(nil)

// DecimalsCache holds feed decimals keyed by "<chain>:<feed address>".
type DecimalsCache = cache.Cache[string, uint8]

// Options tunes a feed fetcher.
type Options struct {
	// DecimalsTTL bounds how long decimals are reused. Decimals never change
	// for a deployed feed; the TTL only limits memory for removed feeds.
	DecimalsTTL time.Duration
	// StaleAfter flags answers older than this. Zero disables the flag.
	StaleAfter time.Duration
}

// Fetcher reads one chain's feed.
type Fetcher struct {
	src      domain.SourceDescriptor
	chain    chainsDomain.ChainDescriptor
	callers  chainsApp.CallerProvider
	abi      abi.ABI
	decimals *DecimalsCache
	opts     Options
	now      func() time.Time

	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewFetcher creates a feed fetcher for chain.
func NewFetcher(chain chainsDomain.ChainDescriptor, callers chainsApp.CallerProvider, decimals *DecimalsCache, opts Options, log logger.LoggerInterface) (*Fetcher, error) {
	parsedABI, err := abi.JSON(strings.NewReader(AggregatorV3ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse aggregator ABI: %w", err)
	}

	return &Fetcher{
		src: domain.SourceDescriptor{
			ID:    domain.FeedSourceID(chain.ID),
			Kind:  domain.KindFeed,
			Name:  chain.DisplayName,
			Chain: chain.ID,
			Pair:  chain.FeedPair,
		},
		chain:    chain,
		callers:  callers,
		abi:      parsedABI,
		decimals: decimals,
		opts:     opts,
		now:      time.Now,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}, nil
}

func (f *Fetcher) Source() domain.SourceDescriptor {
	return f.src
}

// Fetch reads decimals (cached) then latestRoundData. The price is
// answer / 10^decimals and MeasuredAt is the round's updatedAt.
func (f *Fetcher) Fetch(ctx context.Context) domain.PriceObservation {
	ctx, span := f.tracer.Start(ctx, "chainlink.fetch",
		trace.WithAttributes(
			attribute.String("chain", f.chain.ID),
			attribute.String("feed", f.chain.FeedAddress.Hex()),
		),
	)
	defer span.End()

	obs, err := f.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feed read failed")
		f.logger.Debug(ctx, "feed read failed", "chain", f.chain.ID, "error", err)
		return domain.ErrorObservation(f.src, err)
	}

	span.SetAttributes(attribute.String("price", obs.Price.String()))
	return obs
}

func (f *Fetcher) fetch(ctx context.Context) (domain.PriceObservation, error) {
	caller, err := f.callers.Caller(ctx, f.chain.ID)
	if err != nil {
		return domain.PriceObservation{}, err
	}

	dec, err := f.readDecimals(ctx, caller)
	if err != nil {
		return domain.PriceObservation{}, err
	}

	round, err := f.readRound(ctx, caller)
	if err != nil {
		return domain.PriceObservation{}, err
	}

	if round.Answer == nil || round.Answer.Sign() <= 0 {
		return domain.PriceObservation{}, apperror.New(apperror.CodeInvalidAnswer,
			apperror.WithContextf("%s feed answered %v", f.chain.ID, round.Answer))
	}
	if round.UpdatedAt == nil || round.UpdatedAt.Sign() == 0 {
		return domain.PriceObservation{}, apperror.New(apperror.CodeInvalidAnswer,
			apperror.WithContextf("%s feed round %v not complete", f.chain.ID, round.RoundId))
	}

	price := decimal.NewFromBigInt(round.Answer, -int32(dec))
	updatedAt := time.Unix(round.UpdatedAt.Int64(), 0)

	stale := f.opts.StaleAfter > 0 && f.now().Sub(updatedAt) > f.opts.StaleAfter
	if stale {
		f.logger.Debug(ctx, "stale feed answer", "chain", f.chain.ID, "updated_at", updatedAt)
	}

	return domain.SuccessObservation(f.src, price, updatedAt).WithStale(stale), nil
}

func (f *Fetcher) cacheKey() string {
	return f.chain.ID + ":" + f.chain.FeedAddress.Hex()
}

func (f *Fetcher) readDecimals(ctx context.Context, caller chainsApp.ContractCaller) (uint8, error) {
	if dec, ok := f.decimals.Get(ctx, f.cacheKey()); ok {
		return dec, nil
	}

	out, err := f.call(ctx, caller, "decimals")
	if err != nil {
		return 0, err
	}

	values, err := f.abi.Unpack("decimals", out)
	if err != nil || len(values) != 1 {
		return 0, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("decode decimals on %s", f.chain.ID),
			apperror.WithCause(err))
	}
	dec, ok := values[0].(uint8)
	if !ok {
		return 0, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("decimals on %s has type %T", f.chain.ID, values[0]))
	}

	f.decimals.Set(ctx, f.cacheKey(), dec, f.opts.DecimalsTTL)
	return dec, nil
}

func (f *Fetcher) readRound(ctx context.Context, caller chainsApp.ContractCaller) (RoundData, error) {
	out, err := f.call(ctx, caller, "latestRoundData")
	if err != nil {
		return RoundData{}, err
	}

	var round RoundData
	if err := f.abi.UnpackIntoInterface(&round, "latestRoundData", out); err != nil {
		return RoundData{}, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("decode latestRoundData on %s", f.chain.ID),
			apperror.WithCause(err))
	}
	return round, nil
}

func (f *Fetcher) call(ctx context.Context, caller chainsApp.ContractCaller, method string) ([]byte, error) {
	data, err := f.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	feed := f.chain.FeedAddress
	out, err := caller.CallContract(ctx, ethereum.CallMsg{To: &feed, Data: data}, nil)
	if err != nil {
		return nil, apperror.New(apperror.GetCode(err),
			apperror.WithContextf("failed to fetch price from %s (%s)", f.chain.ID, method),
			apperror.WithCause(err))
	}
	return out, nil
}
