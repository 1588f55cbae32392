// Package ratelimit throttles outbound calls to public APIs and RPC nodes.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

// Limiter is a token bucket expressed in requests per minute.
type Limiter struct {
	name    string
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerMinute with a burst of a tenth of that.
// A non-positive rate disables limiting.
func New(name string, requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{name: name, limiter: rate.NewLimiter(rate.Inf, 1)}
	}

	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

// Wait blocks until a token is available. A cancelled or expired context yields
// CodeRateLimitExceeded so callers can report it as a transport failure.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithContext(l.name),
			apperror.WithCause(err))
	}
	return nil
}

// Allow reports whether a call may happen now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the limiter key.
func (l *Limiter) Name() string {
	return l.name
}

// Set hands out one limiter per key, created on first use with the same rate.
type Set struct {
	mu       sync.Mutex
	rpm      int
	limiters map[string]*Limiter
}

// NewSet creates a limiter set.
func NewSet(requestsPerMinute int) *Set {
	return &Set{
		rpm:      requestsPerMinute,
		limiters: make(map[string]*Limiter),
	}
}

// For returns the limiter for key.
func (s *Set) For(key string) *Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[key]
	if !ok {
		l = New(key, s.rpm)
		s.limiters[key] = l
	}
	return l
}
