// Package app contains the price source port and the cycle aggregator.
package app

import (
	"context"

	"github.com/fd1az/multichain-arb/business/pricing/domain"
)

// Fetcher obtains one price observation from one source. Fetch never returns an
// error: failures are Error observations classified by domain.ErrorKind.
type Fetcher interface {
	Source() domain.SourceDescriptor
	Fetch(ctx context.Context) domain.PriceObservation
}
