// Package coinbase fetches the reference spot price from the Coinbase v2 prices API.
package coinbase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
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
	tracerName = "coinbase"

	base     = "BNB"
	currency = "USD"
)

var _ app.Fetcher = (*Fetcher)(nil)

// Fetcher implements app.Fetcher for Coinbase.
type Fetcher struct {
	src    domain.SourceDescriptor
	client httpclient.Client
	path   string
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewFetcher creates a Coinbase fetcher.
func NewFetcher(cfg config.RESTSourceConfig, log logger.LoggerInterface) (*Fetcher, error) {
	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coinbase"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithRateLimiter(ratelimit.New("coinbase", cfg.RateLimitRPM)),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Fetcher{
		src: domain.SourceDescriptor{
			ID:   domain.RESTSourceID("coinbase"),
			Kind: domain.KindREST,
			Name: "Coinbase",
			Pair: base + "/" + currency,
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

// spotResponse is {"data":{"amount":"612.34","base":"BNB","currency":"USD"}}.
type spotResponse struct {
	Data *struct {
		Amount   string `json:"amount"`
		Base     string `json:"base"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// Fetch queries the spot endpoint.
func (f *Fetcher) Fetch(ctx context.Context) domain.PriceObservation {
	ctx, span := f.tracer.Start(ctx, "coinbase.fetch")
	defer span.End()

	var result spotResponse
	_, err := f.client.NewRequest(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "spot")),
	).
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

	span.SetAttributes(attribute.String("price", price.String()))
	f.logger.Debug(ctx, "coinbase price", "price", price.String())
	return domain.SuccessObservation(f.src, price, time.Now())
}

func parse(resp spotResponse) (decimal.Decimal, error) {
	if resp.Data == nil || resp.Data.Amount == "" {
		return decimal.Zero, apperror.New(apperror.CodeProtocolError,
			apperror.WithContext("coinbase response missing data.amount"))
	}

	d := resp.Data
	if (d.Base != "" && !strings.EqualFold(d.Base, base)) || (d.Currency != "" && !strings.EqualFold(d.Currency, currency)) {
		return decimal.Zero, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("coinbase quoted %s-%s, want %s-%s", d.Base, d.Currency, base, currency))
	}

	price, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeProtocolError,
			apperror.WithContextf("coinbase amount %q", d.Amount),
			apperror.WithCause(err))
	}
	if !price.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeInvalidAnswer,
			apperror.WithContextf("coinbase returned non-positive price %s", price))
	}
	return price, nil
}
