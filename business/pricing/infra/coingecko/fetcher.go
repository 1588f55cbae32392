// Package coingecko fetches the reference price from the CoinGecko simple price API.
package coingecko

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/multichain-arb/business/pricing/app"
	"github.com/fd1az/multichain-arb/business/pricing/domain"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/httpclient"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/ratelimit"
)

const (
	tracerName = "coingecko"

	coinID     = "binancecoin"
	vsCurrency = "usd"
	pair       = "BNB/USD"
)

var _ app.Fetcher = (*Fetcher)(nil)

// Fetcher implements app.Fetcher for CoinGecko.
type Fetcher struct {
	src    domain.SourceDescriptor
	client httpclient.Client
	path   string
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewFetcher creates a CoinGecko fetcher.
func NewFetcher(cfg config.RESTSourceConfig, log logger.LoggerInterface) (*Fetcher, error) {
	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coingecko"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithRateLimiter(ratelimit.New("coingecko", cfg.RateLimitRPM)),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Fetcher{
		src: domain.SourceDescriptor{
			ID:   domain.RESTSourceID("coingecko"),
			Kind: domain.KindREST,
			Name: "CoinGecko",
			Pair: pair,
		},
		client: client,
		path:   cfg.Path,
		logger: log,
		tracer: tracer,
	}, nil
}

func (f *Fetcher) Source() domain.SourceDescriptor {
	return f.src
}

// simplePriceResponse is {"binancecoin":{"usd":612.34}}.
type simplePriceResponse map[string]map[string]decimal.Decimal

// Fetch queries /simple/price and validates the nested shape.
func (f *Fetcher) Fetch(ctx context.Context) domain.PriceObservation {
	ctx, span := f.tracer.Start(ctx, "coingecko.fetch")
	defer span.End()

	var result simplePriceResponse
	_, err := f.client.NewRequest(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "simple_price")),
		httpclient.WithResponseErrorHandler(errorHandler),
	).
		SetQueryParam("ids", coinID).
		SetQueryParam("vs_currencies", vsCurrency).
		SetResult(&result).
		Get(ctx, f.path)
	if err != nil {
		span.RecordError(err)
		return domain.ErrorObservation(f.src, err)
	}

	price, err := parse(result)
	if err != nil {
		span.RecordError(err)
		return domain.ErrorObservation(f.src, err)
	}

	f.logger.Debug(ctx, "coingecko price", "price", price.String())
	return domain.SuccessObservation(f.src, price, time.Now())
}

func parse(resp simplePriceResponse) (decimal.Decimal, error) {
	quotes, ok := resp[coinID]
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("coingecko response missing %q", coinID))
	}
	price, ok := quotes[vsCurrency]
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("coingecko response missing %s.%s", coinID, vsCurrency))
	}
	if !price.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeInvalidAnswer,
			apperror.WithContextf("coingecko returned non-positive price %s", price))
	}
	return price, nil
}

// errorHandler treats the free tier's 429 as a transient network condition.
func errorHandler(status int, body []byte) error {
	switch {
	case status == 429:
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext("coingecko rate limit"))
	case status >= 500:
		return apperror.New(apperror.CodeNetworkError, apperror.WithContextf("coingecko returned HTTP %d", status))
	case status >= 400:
		return apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("coingecko returned HTTP %d: %.120s", status, body))
	}
	return nil
}
