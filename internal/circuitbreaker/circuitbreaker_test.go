package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

var errRPC = errors.New("rpc unreachable")

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig("rpc:test")
	cfg.ConsecutiveFailures = 2
	cfg.Timeout = time.Hour

	var transitions []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}

	cb := New[[]byte](cfg)

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() ([]byte, error) { return nil, errRPC })
		require.ErrorIs(t, err, errRPC)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)

	_, err := cb.Execute(func() ([]byte, error) { return []byte{1}, nil })
	require.Error(t, err)
	assert.Equal(t, apperror.CodeCircuitOpen, apperror.GetCode(err))
}

func TestCircuitBreaker_IsSuccessfulIgnoresErrors(t *testing.T) {
	errRevert := errors.New("execution reverted")

	cfg := DefaultConfig("rpc:revert")
	cfg.ConsecutiveFailures = 1
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, errRevert)
	}
	cb := New[int](cfg)

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errRevert })
		require.ErrorIs(t, err, errRevert)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, "rpc:revert", cb.Name())
}
