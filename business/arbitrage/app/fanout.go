package app

import (
	"context"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// Fanout hands every result to each reporter, in publish order, until ctx is
// cancelled or results is closed.
func Fanout(ctx context.Context, results <-chan domain.CycleResult, reporters ...Reporter) {
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-results:
			if !ok {
				return
			}
			for _, r := range reporters {
				r.Publish(res)
			}
		}
	}
}
