package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the outcome of a fetch.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// PriceObservation is the result of one fetch from one source. Values are
// copied, never mutated after construction.
type PriceObservation struct {
	SourceID    SourceID        `json:"source_id"`
	Kind        SourceKind      `json:"kind"`
	Chain       string          `json:"chain,omitempty"`
	Pair        string          `json:"pair"`
	Price       decimal.Decimal `json:"price"`
	MeasuredAt  time.Time       `json:"measured_at"`
	Status      Status          `json:"status"`
	ErrorKind   ErrorKind       `json:"error_kind,omitempty"`
	ErrorDetail string          `json:"error_detail,omitempty"`
	// Stable is the stable token that served a DEX quote.
	Stable string `json:"stable,omitempty"`
	// Stale marks a feed answer older than the configured bound.
	Stale   bool          `json:"stale,omitempty"`
	Latency time.Duration `json:"latency_ns"`
}

// SuccessObservation creates a successful observation.
func SuccessObservation(src SourceDescriptor, price decimal.Decimal, measuredAt time.Time) PriceObservation {
	return PriceObservation{
		SourceID:   src.ID,
		Kind:       src.Kind,
		Chain:      src.Chain,
		Pair:       src.Pair,
		Price:      price,
		MeasuredAt: measuredAt,
		Status:     StatusSuccess,
	}
}

// ErrorObservation converts err into a failed observation. MeasuredAt is the
// time of failure.
func ErrorObservation(src SourceDescriptor, err error) PriceObservation {
	kind := KindOf(err)
	if kind == ErrorKindNone {
		kind = ErrorKindProtocol
	}

	msg := "unknown error"
	if err != nil {
		msg = detail(err)
	}

	return PriceObservation{
		SourceID:    src.ID,
		Kind:        src.Kind,
		Chain:       src.Chain,
		Pair:        src.Pair,
		MeasuredAt:  time.Now(),
		Status:      StatusError,
		ErrorKind:   kind,
		ErrorDetail: msg,
	}
}

// IsSuccess reports whether the observation carries a price.
func (o PriceObservation) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// WithStable returns a copy recording the stable used.
func (o PriceObservation) WithStable(symbol string) PriceObservation {
	o.Stable = symbol
	return o
}

// WithStale returns a copy flagged as stale.
func (o PriceObservation) WithStale(stale bool) PriceObservation {
	o.Stale = stale
	return o
}

// WithLatency returns a copy recording how long the fetch took.
func (o PriceObservation) WithLatency(d time.Duration) PriceObservation {
	o.Latency = d
	return o
}
