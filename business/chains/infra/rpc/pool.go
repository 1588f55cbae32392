// Package rpc keeps one JSON-RPC client per chain, each behind a circuit breaker
// and a rate limiter.
package rpc

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/multichain-arb/business/chains/app"
	"github.com/fd1az/multichain-arb/internal/apperror"
	"github.com/fd1az/multichain-arb/internal/circuitbreaker"
	"github.com/fd1az/multichain-arb/internal/config"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/ratelimit"
)

const meterName = "rpc"

var _ app.CallerProvider = (*Pool)(nil)

// Backend is the part of ethclient.Client the pool uses.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// DialFunc connects to an RPC endpoint.
type DialFunc func(ctx context.Context, url string) (Backend, error)

func dialEthClient(ctx context.Context, url string) (Backend, error) {
	return ethclient.DialContext(ctx, url)
}

// Pool lazily dials one client per chain and reuses it across cycles.
type Pool struct {
	registry *app.Registry
	cfg      config.RPCConfig
	log      logger.LoggerInterface
	dial     DialFunc
	limits   *ratelimit.Set

	mu        sync.Mutex
	endpoints map[string]*endpoint

	calls metric.Int64Counter
}

// NewPool creates a pool for the chains in registry.
func NewPool(registry *app.Registry, cfg config.RPCConfig, log logger.LoggerInterface) *Pool {
	calls, _ := otel.Meter(meterName).Int64Counter(
		"rpc_calls_total",
		metric.WithDescription("eth_call requests by chain and outcome"),
	)

	return &Pool{
		registry:  registry,
		cfg:       cfg,
		log:       log,
		dial:      dialEthClient,
		limits:    ratelimit.NewSet(cfg.RateLimitRPM),
		endpoints: make(map[string]*endpoint),
		calls:     calls,
	}
}

// WithDialer replaces the ethclient dialer. Used by tests.
func (p *Pool) WithDialer(d DialFunc) *Pool {
	p.dial = d
	return p
}

// Caller returns the ContractCaller for chainID, dialing on first use.
// The dial runs outside the lock so a hung endpoint only delays its own chain.
// A failed dial is not cached; the next cycle retries it.
func (p *Pool) Caller(ctx context.Context, chainID string) (app.ContractCaller, error) {
	p.mu.Lock()
	ep, ok := p.endpoints[chainID]
	p.mu.Unlock()
	if ok {
		return ep, nil
	}

	chain, err := p.registry.Chain(chainID)
	if err != nil {
		return nil, err
	}

	dialCtx := ctx
	if p.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, p.cfg.DialTimeout)
		defer cancel()
	}

	backend, err := p.dial(dialCtx, chain.RPCEndpoint)
	if err != nil {
		return nil, apperror.New(apperror.CodeRPCDialFailed,
			apperror.WithCause(err),
			apperror.WithContext(chainID))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another fetcher on the same chain may have finished dialing first.
	if existing, ok := p.endpoints[chainID]; ok {
		backend.Close()
		return existing, nil
	}

	ep = p.newEndpoint(chainID, backend)
	p.endpoints[chainID] = ep

	p.log.Debug(ctx, "rpc client dialed", "chain", chainID, "endpoint", chain.RPCEndpoint)
	return ep, nil
}

func (p *Pool) newEndpoint(chainID string, backend Backend) *endpoint {
	cbCfg := circuitbreaker.DefaultConfig("rpc-" + chainID)
	if p.cfg.BreakerFailures > 0 {
		cbCfg.ConsecutiveFailures = p.cfg.BreakerFailures
	}
	if p.cfg.BreakerTimeout > 0 {
		cbCfg.Timeout = p.cfg.BreakerTimeout
	}
	// A revert is an answer from a healthy node.
	cbCfg.IsSuccessful = func(err error) bool { return err == nil || isRevert(err) }
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		p.log.Warn(context.Background(), "rpc circuit breaker state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &endpoint{
		chainID: chainID,
		backend: backend,
		cb:      circuitbreaker.New[[]byte](cbCfg),
		limiter: p.limits.For(chainID),
		calls:   p.calls,
	}
}

// BreakerStates returns the breaker state of every dialed chain.
func (p *Pool) BreakerStates() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]string, len(p.endpoints))
	for id, ep := range p.endpoints {
		out[id] = ep.cb.State().String()
	}
	return out
}

// Close closes every client.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, ep := range p.endpoints {
		ep.backend.Close()
		delete(p.endpoints, id)
	}
	return nil
}

// endpoint is the ContractCaller of one chain.
type endpoint struct {
	chainID string
	backend Backend
	cb      *circuitbreaker.CircuitBreaker[[]byte]
	limiter *ratelimit.Limiter
	calls   metric.Int64Counter
}

// CallContract waits for the rate limiter, then calls through the breaker.
// Errors are classified as CodeContractCallFailed (node answered with an error),
// CodeServiceTimeout or CodeNetworkError.
func (e *endpoint) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		e.record(ctx, "rate_limited")
		return nil, err
	}

	out, err := e.cb.Execute(func() ([]byte, error) {
		return e.backend.CallContract(ctx, msg, blockNumber)
	})
	if err == nil {
		e.record(ctx, "ok")
		return out, nil
	}

	if apperror.HasCode(err, apperror.CodeCircuitOpen) {
		e.record(ctx, "circuit_open")
		return nil, err
	}

	e.record(ctx, "error")
	return nil, classify(e.chainID, err)
}

func (e *endpoint) record(ctx context.Context, outcome string) {
	if e.calls == nil {
		return
	}
	e.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("chain", e.chainID),
		attribute.String("outcome", outcome),
	))
}

func classify(chainID string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.New(apperror.CodeServiceTimeout, apperror.WithCause(err), apperror.WithContext(chainID))
	case isRevert(err) || isNodeError(err):
		return apperror.New(apperror.CodeContractCallFailed, apperror.WithCause(err), apperror.WithContext(chainID))
	default:
		return apperror.New(apperror.CodeNetworkError, apperror.WithCause(err), apperror.WithContext(chainID))
	}
}

// isNodeError reports a JSON-RPC error object returned by the node.
func isNodeError(err error) bool {
	var rpcErr gethrpc.Error
	return errors.As(err, &rpcErr)
}

func isRevert(err error) bool {
	if err == nil {
		return false
	}
	var dataErr gethrpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}
