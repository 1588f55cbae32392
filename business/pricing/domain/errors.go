package domain

import (
	"context"
	"errors"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	ErrorKindNone        ErrorKind = ""
	ErrorKindNetwork     ErrorKind = "network"
	ErrorKindProtocol    ErrorKind = "protocol"
	ErrorKindNoLiquidity ErrorKind = "no_liquidity"
)

// KindOf maps an error onto the fetch error taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindNetwork
	case apperror.HasCode(err, apperror.CodeNoLiquidity):
		return ErrorKindNoLiquidity
	case apperror.HasCode(err,
		apperror.CodeNetworkError,
		apperror.CodeRPCDialFailed,
		apperror.CodeCircuitOpen,
		apperror.CodeServiceTimeout,
		apperror.CodeServiceUnavailable,
		apperror.CodeRateLimitExceeded,
		apperror.CodeFetchInFlight):
		return ErrorKindNetwork
	default:
		return ErrorKindProtocol
	}
}

// detail renders err for display without the code prefix.
func detail(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Detail()
	}
	return err.Error()
}
